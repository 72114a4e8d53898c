package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/hdfsprune/pkg/prune/config"
	"github.com/jamesainslie/hdfsprune/pkg/prune/manifest"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past prune runs",
	Long: `View the history of preview and delete runs.

Every run writes a manifest record with the files it selected, so an
operator can audit what was removed and when.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove history entries past the retention window",
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getManifest returns a manifest handle for the configured directory.
func getManifest() (*manifest.Manifest, error) {
	cfg, err := config.Load()
	if err != nil {
		return manifest.New(config.ManifestDir())
	}
	return manifest.New(cfg.Manifest.Path)
}

// runHistory lists recent runs.
func runHistory(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'hdfsprune --days N [path]' to prune old files.")
		return nil
	}

	fmt.Printf("\n%-44s  %-8s  %-8s  %-10s\n", "ID", "TYPE", "FILES", "SIZE")
	fmt.Println(strings.Repeat("-", 78))
	for _, entry := range entries {
		fmt.Printf("%-44s  %-8s  %-8d  %-10s\n",
			entry.ID,
			entry.Operation,
			entry.Summary.Removed,
			humanize.IBytes(uint64(entry.Summary.TotalBytes)),
		)
	}
	fmt.Println(strings.Repeat("-", 78))
	fmt.Println("Use 'hdfsprune history show <id>' for details on a specific run.")

	return nil
}

// runHistoryShow displays one recorded run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entry, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Println("\nRun Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:  %s\n", entry.Operation)
	fmt.Printf("Threshold:  older than %s\n", entry.Threshold)
	fmt.Printf("Roots:      %s\n", strings.Join(entry.Roots, ", "))
	fmt.Printf("Checked:    %d\n", entry.Summary.Checked)
	fmt.Printf("Removed:    %d\n", entry.Summary.Removed)
	fmt.Printf("Total Size: %s\n", humanize.IBytes(uint64(entry.Summary.TotalBytes)))

	if len(entry.Files) > 0 {
		fmt.Println("\nFiles:")
		fmt.Println(strings.Repeat("-", 60))

		limit := 50
		if len(entry.Files) < limit {
			limit = len(entry.Files)
		}
		for i := 0; i < limit; i++ {
			file := entry.Files[i]
			fmt.Printf("%-10s  %s\n", humanize.IBytes(uint64(file.Size)), file.Path)
		}
		if len(entry.Files) > limit {
			fmt.Printf("\n... and %d more files\n", len(entry.Files)-limit)
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, err := manifest.New(cfg.Manifest.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	retentionDays := cfg.Manifest.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)
	if err := m.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}
	printInfo("History cleanup complete.")
	return nil
}
