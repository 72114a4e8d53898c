package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// ManifestConfig configures run-history recording.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	// HDFSBinary is the hdfs binary name or path. Overridable per run
	// with --hdfs-bin.
	HDFSBinary string `mapstructure:"hdfs_binary"`

	// DefaultRoot is pruned when no roots are given on the command line.
	DefaultRoot string `mapstructure:"default_root"`

	// BatchSize is the default delete batch size.
	BatchSize int `mapstructure:"batch_size"`

	// SkipTrash passes -skipTrash on delete invocations.
	SkipTrash bool `mapstructure:"skip_trash"`

	// Include and Exclude are default filter patterns.
	Include string `mapstructure:"include"`
	Exclude string `mapstructure:"exclude"`

	Logging  LoggingConfig  `mapstructure:"logging"`
	Manifest ManifestConfig `mapstructure:"manifest"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/hdfsprune/config.yaml
//   - $HOME/.config/hdfsprune/config.yaml
//
// Environment variables are prefixed with HDFSPRUNE_
// (e.g. HDFSPRUNE_BATCH_SIZE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "hdfsprune"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "hdfsprune"))

	v.SetEnvPrefix("HDFSPRUNE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Manifest.Path == "" {
		cfg.Manifest.Path = ManifestDir()
	}

	return &cfg, nil
}

// setDefaults registers the default values on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("hdfs_binary", DefaultBinary)
	v.SetDefault("default_root", DefaultRoot)
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("skip_trash", false)
	v.SetDefault("include", "")
	v.SetDefault("exclude", "")
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.path", "")
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "hdfsprune")
	}
	return filepath.Join(xdg.ConfigHome, "hdfsprune")
}

// ManifestDir returns the default directory for run manifests,
// $XDG_DATA_HOME/hdfsprune/manifest.
func ManifestDir() string {
	return filepath.Join(xdg.DataHome, "hdfsprune", "manifest")
}

// StateDir returns $XDG_STATE_HOME/hdfsprune for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "hdfsprune")
}

// WriteDefault writes a commented default config file if none exists.
// Returns the file path; writing over an existing file is refused.
func WriteDefault() (string, error) {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# hdfsprune configuration

# hdfs binary name or absolute path
hdfs_binary: %s

# Root pruned when no paths are given on the command line
default_root: %s

# Delete batch size: 0 or 1 deletes one file at a time,
# 2-100 accumulates and deletes in groups
batch_size: %d

# Pass -skipTrash to delete invocations
skip_trash: false

# Default include/exclude regular expressions (empty means unset)
include: ""
exclude: ""

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file path (empty means $XDG_STATE_HOME/hdfsprune/hdfsprune.log)
  path: ""

# Run history manifest
manifest:
  enabled: true
  # Manifest directory (empty means $XDG_DATA_HOME/hdfsprune/manifest)
  path: ""
  retention_days: %d
`, DefaultBinary, DefaultRoot, DefaultBatchSize, DefaultLogLevel, DefaultRetentionDays)

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}
