package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HDFSBinary != DefaultBinary {
		t.Errorf("HDFSBinary = %q, want %q", cfg.HDFSBinary, DefaultBinary)
	}
	if cfg.DefaultRoot != DefaultRoot {
		t.Errorf("DefaultRoot = %q, want %q", cfg.DefaultRoot, DefaultRoot)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
	if !cfg.Manifest.Enabled {
		t.Error("Manifest.Enabled = false, want true")
	}
	if cfg.Manifest.Path == "" {
		t.Error("Manifest.Path is empty, want default manifest dir")
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, DefaultLogLevel)
	}
}

func TestLoad_FromFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", t.TempDir())

	dir := filepath.Join(configHome, "hdfsprune")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `hdfs_binary: /opt/hadoop/bin/hdfs
default_root: /data/tmp
batch_size: 25
skip_trash: true
exclude: "keep"
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HDFSBinary != "/opt/hadoop/bin/hdfs" {
		t.Errorf("HDFSBinary = %q", cfg.HDFSBinary)
	}
	if cfg.DefaultRoot != "/data/tmp" {
		t.Errorf("DefaultRoot = %q", cfg.DefaultRoot)
	}
	if cfg.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.BatchSize)
	}
	if !cfg.SkipTrash {
		t.Error("SkipTrash = false, want true")
	}
	if cfg.Exclude != "keep" {
		t.Errorf("Exclude = %q, want keep", cfg.Exclude)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestWriteDefault(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second call must not overwrite.
	if err := os.WriteFile(path, []byte("batch_size: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() second call error = %v", err)
	}
	if again != path {
		t.Errorf("path = %q, want %q", again, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "batch_size: 99\n" {
		t.Error("WriteDefault overwrote an existing config file")
	}
}
