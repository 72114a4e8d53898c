package hdfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStub writes an executable shell script standing in for the hdfs
// binary and returns its path.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "hdfs")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)
	return path
}

func TestNewClient_NotFound(t *testing.T) {
	_, err := NewClient("definitely-not-a-real-hdfs-binary")
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestNewClient_ResolvesPath(t *testing.T) {
	stub := writeStub(t, "exit 0\n")
	c, err := NewClient(stub)
	require.NoError(t, err)
	assert.Equal(t, stub, c.Binary())
}

func TestDeleteArgv(t *testing.T) {
	c := &Client{bin: "/opt/hadoop/bin/hdfs"}

	argv := c.DeleteArgv(false, []string{"/tmp/a", "/tmp/b"})
	assert.Equal(t, []string{"/opt/hadoop/bin/hdfs", "dfs", "-rm", "/tmp/a", "/tmp/b"}, argv)

	argv = c.DeleteArgv(true, []string{"/tmp/a"})
	assert.Equal(t, []string{"/opt/hadoop/bin/hdfs", "dfs", "-rm", "-skipTrash", "/tmp/a"}, argv)
}

func TestList_StreamsLines(t *testing.T) {
	stub := writeStub(t, `echo "Found 2 items"
echo "-rw-r--r--   3 hdfs supergroup 1 2024-06-15 10:30 /tmp/a"
echo "-rw-r--r--   3 hdfs supergroup 1 2024-06-15 10:31 /tmp/b"
`)
	c, err := NewClient(stub)
	require.NoError(t, err)

	var lines []string
	err = c.List(context.Background(), "/tmp", func(line string) error {
		lines = append(lines, line)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Found 2 items", lines[0])
}

func TestList_ConsumerErrorStopsStream(t *testing.T) {
	stub := writeStub(t, `i=0
while [ $i -lt 100000 ]; do echo line; i=$((i+1)); done
`)
	c, err := NewClient(stub)
	require.NoError(t, err)

	sentinel := errors.New("stop")
	count := 0
	err = c.List(context.Background(), "/tmp", func(string) error {
		count++
		if count == 3 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, count)
}

func TestList_NonZeroExit(t *testing.T) {
	stub := writeStub(t, "echo 'ls: cannot access' >&2\nexit 1\n")
	c, err := NewClient(stub)
	require.NoError(t, err)

	err = c.List(context.Background(), "/nope", func(string) error { return nil })
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	// The stub reports existence only for /tmp/present.
	stub := writeStub(t, `for last; do :; done
[ "$last" = "/tmp/present" ] && exit 0
exit 1
`)
	c, err := NewClient(stub)
	require.NoError(t, err)

	ok, err := c.Exists(context.Background(), "/tmp/present")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(context.Background(), "/tmp/absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_NonZeroExitIsError(t *testing.T) {
	stub := writeStub(t, "exit 1\n")
	c, err := NewClient(stub)
	require.NoError(t, err)

	err = c.Delete(context.Background(), false, []string{"/tmp/a"})
	assert.Error(t, err)
}

func TestDelete_Success(t *testing.T) {
	stub := writeStub(t, "exit 0\n")
	c, err := NewClient(stub)
	require.NoError(t, err)

	err = c.Delete(context.Background(), true, []string{"/tmp/a", "/tmp/b"})
	assert.NoError(t, err)
}
