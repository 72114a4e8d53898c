// Package manifest records completed prune runs as JSON files so operators
// can audit what was previewed or deleted.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OperationType distinguishes dry-run previews from real deletions.
type OperationType string

const (
	// OpPreview is a dry-run record: nothing was deleted.
	OpPreview OperationType = "preview"
	// OpDelete is a destructive-run record.
	OpDelete OperationType = "delete"
)

// FileRecord is one selected file in a run record.
type FileRecord struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Summary mirrors the run counters.
type Summary struct {
	Checked           int64 `json:"checked"`
	ExcludedUser      int64 `json:"excluded_user"`
	ExcludedProtected int64 `json:"excluded_protected"`
	Removed           int64 `json:"removed"`
	TotalBytes        int64 `json:"total_bytes"`
}

// Entry is a single recorded run.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Threshold string        `json:"threshold"`
	Roots     []string      `json:"roots"`
	Files     []FileRecord  `json:"files"`
	Summary   Summary       `json:"summary"`
}

// Manifest manages run records in a directory.
type Manifest struct {
	dir string
	mu  sync.Mutex
}

// New creates a Manifest rooted at dir. The directory is created lazily on
// the first write.
func New(dir string) (*Manifest, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &Manifest{dir: dir}, nil
}

// Record persists one run and returns the created entry.
func (m *Manifest) Record(op OperationType, threshold string, roots []string, files []FileRecord, summary Summary) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &Entry{
		ID:        generateID(op),
		Timestamp: time.Now().UTC(),
		Operation: op,
		Threshold: threshold,
		Roots:     roots,
		Files:     files,
		Summary:   summary,
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}
	if err := m.writeEntry(entry); err != nil {
		return nil, fmt.Errorf("writing manifest entry: %w", err)
	}
	return entry, nil
}

// writeEntry writes the entry atomically via a temp file and rename.
func (m *Manifest) writeEntry(entry *Entry) error {
	path := filepath.Join(m.dir, entry.ID+".json")

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// List returns entries sorted newest first. A limit of 0 or below returns
// everything.
func (m *Manifest) List(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		entry, err := m.readEntryFile(f.Name())
		if err != nil {
			// Unreadable records are skipped, not fatal.
			continue
		}
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get retrieves one entry by ID.
func (m *Manifest) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	files, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		entry, err := m.readEntryFile(f.Name())
		if err != nil {
			continue
		}
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("entry not found: %s", id)
}

func (m *Manifest) readEntryFile(name string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling entry: %w", err)
	}
	return &entry, nil
}

// Cleanup removes records older than retentionDays.
func (m *Manifest) Cleanup(retentionDays int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading manifest directory: %w", err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(m.dir, f.Name()))
		}
	}
	return nil
}

// generateID creates an ID like "preview-2024-06-15T10-30-00-1a2b3c4d".
func generateID(op OperationType) string {
	ts := time.Now().UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("%s-%s-%s", op, ts, uuid.NewString()[:8])
}
