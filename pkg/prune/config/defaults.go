// Package config provides configuration management for the hdfsprune CLI.
package config

// Default configuration values.
const (
	// DefaultRoot is pruned when no root paths are given.
	DefaultRoot = "/tmp"

	// DefaultBatchSize deletes files one at a time as they are found.
	DefaultBatchSize = 0

	// DefaultBinary is the hdfs binary name resolved on PATH.
	DefaultBinary = "hdfs"

	// DefaultRetentionDays is how long run manifests are kept.
	DefaultRetentionDays = 30

	// DefaultLogLevel is the console log level.
	DefaultLogLevel = "info"
)
