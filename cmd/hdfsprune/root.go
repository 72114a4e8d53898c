package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hdfsprune/pkg/prune/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "hdfsprune [path...]",
		Short: "Prune old files from HDFS by retention age",
		Long: `hdfsprune lists files recursively under one or more HDFS paths and
deletes those older than the given retention threshold.

By default nothing is deleted: the would-be delete commands are printed.
Pass --delete to actually remove files. A fixed set of protected paths
(HBase, Solr, Hive warehouse, trash, canary files) is never deleted.

Examples:
  hdfsprune --days 7 /tmp                      # Preview files older than 7 days
  hdfsprune --days 7 --delete /tmp             # Actually delete them
  hdfsprune --hours 12 --include '\.log$' /tmp # Only .log files
  hdfsprune --days 30 -b 50 --skip-trash /tmp  # Batches of 50, bypass trash
  hdfsprune history                            # View past runs`,
		Args: cobra.ArbitraryArgs,
		RunE: runPrune,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/hdfsprune/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")

	rootCmd.Flags().Int("days", 0, "retention threshold days component")
	rootCmd.Flags().Int("hours", 0, "retention threshold hours component")
	rootCmd.Flags().Int("minutes", 0, "retention threshold minutes component")
	rootCmd.Flags().String("include", "", "only delete paths matching this regular expression")
	rootCmd.Flags().String("exclude", "", "never delete paths matching this regular expression")
	rootCmd.Flags().IntP("batch-size", "b", 0, "delete batch size (0-100; 0 or 1 deletes one at a time)")
	rootCmd.Flags().Bool("delete", false, "actually delete files (default: dry-run preview)")
	rootCmd.Flags().Bool("skip-trash", false, "pass -skipTrash to the delete invocation")
	rootCmd.Flags().String("hdfs-bin", "", "hdfs binary name or path (default: hdfs on PATH)")
	rootCmd.Flags().Duration("exec-timeout", 0, "abort the whole run after this duration (0: no timeout)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("days", rootCmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("hours", rootCmd.Flags().Lookup("hours"))
	_ = viper.BindPFlag("minutes", rootCmd.Flags().Lookup("minutes"))
	_ = viper.BindPFlag("include", rootCmd.Flags().Lookup("include"))
	_ = viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("batch_size", rootCmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("delete", rootCmd.Flags().Lookup("delete"))
	_ = viper.BindPFlag("skip_trash", rootCmd.Flags().Lookup("skip-trash"))
	_ = viper.BindPFlag("hdfs_binary", rootCmd.Flags().Lookup("hdfs-bin"))
	_ = viper.BindPFlag("exec_timeout", rootCmd.Flags().Lookup("exec-timeout"))
}

// initConfig reads in the config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "hdfsprune"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "hdfsprune"))
		}
	}

	viper.SetEnvPrefix("HDFSPRUNE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("hdfs_binary", config.DefaultBinary)
	viper.SetDefault("default_root", config.DefaultRoot)
	viper.SetDefault("batch_size", config.DefaultBatchSize)
	viper.SetDefault("logging.level", config.DefaultLogLevel)
	viper.SetDefault("manifest.enabled", true)
	viper.SetDefault("manifest.retention_days", config.DefaultRetentionDays)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message to stdout unless quiet mode is enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}
