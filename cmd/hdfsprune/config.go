package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/hdfsprune/pkg/prune/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and initialize the hdfsprune configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Write a commented default config file. An existing file is left untouched.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow prints the effective configuration after file, environment,
// and defaults are merged.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("hdfs_binary:   %s\n", cfg.HDFSBinary)
	fmt.Printf("default_root:  %s\n", cfg.DefaultRoot)
	fmt.Printf("batch_size:    %d\n", cfg.BatchSize)
	fmt.Printf("skip_trash:    %t\n", cfg.SkipTrash)
	fmt.Printf("include:       %q\n", cfg.Include)
	fmt.Printf("exclude:       %q\n", cfg.Exclude)
	fmt.Printf("logging:\n")
	fmt.Printf("  level:       %s\n", cfg.Logging.Level)
	fmt.Printf("  path:        %q\n", cfg.Logging.Path)
	fmt.Printf("manifest:\n")
	fmt.Printf("  enabled:     %t\n", cfg.Manifest.Enabled)
	fmt.Printf("  path:        %s\n", cfg.Manifest.Path)
	fmt.Printf("  retention:   %d days\n", cfg.Manifest.RetentionDays)
	return nil
}

// runConfigInit writes the default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}
	printInfo("Config file: %s", path)
	return nil
}
