package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFiles() []FileRecord {
	return []FileRecord{
		{Path: "/tmp/a.log", Size: 1024, ModifiedAt: time.Now().Add(-48 * time.Hour)},
		{Path: "/tmp/b.log", Size: 2048, ModifiedAt: time.Now().Add(-72 * time.Hour)},
	}
}

func TestNew_EmptyDir(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestRecordAndGet(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	entry, err := m.Record(OpPreview, "1 day", []string{"/tmp"}, testFiles(), Summary{
		Checked: 10, Removed: 2, TotalBytes: 3072,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entry.ID, "preview-"))
	assert.Len(t, entry.Files, 2)

	got, err := m.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "1 day", got.Threshold)
	assert.Equal(t, []string{"/tmp"}, got.Roots)
	assert.Equal(t, int64(3072), got.Summary.TotalBytes)
}

func TestGet_NotFound(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	// Record something so the directory exists.
	_, err = m.Record(OpDelete, "1 day", []string{"/tmp"}, nil, Summary{})
	require.NoError(t, err)

	_, err = m.Get("preview-2020-01-01T00-00-00-deadbeef")
	assert.Error(t, err)
}

func TestList_NewestFirstAndLimit(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 3; i++ {
		entry, err := m.Record(OpPreview, "1 day", []string{"/tmp"}, nil, Summary{})
		require.NoError(t, err)
		ids = append(ids, entry.ID)
		time.Sleep(10 * time.Millisecond)
	}

	entries, err := m.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ids[2], entries[0].ID, "newest entry first")

	limited, err := m.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestList_MissingDirectory(t *testing.T) {
	m, err := New(filepath.Join(t.TempDir(), "never-created"))
	require.NoError(t, err)

	entries, err := m.List(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestList_SkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir)
	require.NoError(t, err)

	_, err = m.Record(OpDelete, "1 day", []string{"/tmp"}, nil, Summary{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{not json"), 0o644))

	entries, err := m.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir)
	require.NoError(t, err)

	entry, err := m.Record(OpPreview, "1 day", []string{"/tmp"}, nil, Summary{})
	require.NoError(t, err)

	// Age the record on disk past the retention window.
	old := time.Now().AddDate(0, 0, -60)
	path := filepath.Join(dir, entry.ID+".json")
	require.NoError(t, os.Chtimes(path, old, old))

	require.NoError(t, m.Cleanup(30))

	entries, err := m.List(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanup_MissingDirectory(t *testing.T) {
	m, err := New(filepath.Join(t.TempDir(), "never-created"))
	require.NoError(t, err)
	assert.NoError(t, m.Cleanup(30))
}
