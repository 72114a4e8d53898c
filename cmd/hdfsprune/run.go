package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hdfsprune/pkg/prune/config"
	"github.com/jamesainslie/hdfsprune/pkg/prune/hdfs"
	"github.com/jamesainslie/hdfsprune/pkg/prune/logging"
	"github.com/jamesainslie/hdfsprune/pkg/prune/manifest"
	"github.com/jamesainslie/hdfsprune/pkg/prune/planner"
	"github.com/jamesainslie/hdfsprune/pkg/prune/policy"
	"github.com/jamesainslie/hdfsprune/pkg/prune/pruner"
)

// runPrune is the main prune command handler.
func runPrune(_ *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()
	log := logging.Get("run")

	pol, err := buildPolicy(args)
	if err != nil {
		return err
	}

	client, err := hdfs.NewClient(viper.GetString("hdfs_binary"))
	if err != nil {
		return err
	}
	client.Stderr = os.Stderr

	// The run is bounded only by the caller-supplied timeout and by
	// interrupt signals; the pipeline itself never enforces deadlines.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := viper.GetDuration("exec_timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for _, root := range pol.Roots {
		ok, err := client.Exists(ctx, root)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("root path does not exist: %s", root)
		}
	}

	argvPrefix := client.DeleteArgv(pol.SkipTrash, nil)

	var exec planner.Executor
	if pol.DryRun {
		exec = &pruner.PreviewExecutor{Out: os.Stdout, ArgvPrefix: argvPrefix}
	} else {
		exec = &pruner.DeleteExecutor{Client: client, SkipTrash: pol.SkipTrash}
	}

	pl := planner.New(pol.BatchSize, exec, argvPrefix)
	pr := pruner.New(pol, pl)

	log.Info("starting prune run",
		"roots", pol.Roots,
		"threshold", pol.ThresholdString(),
		"batch_size", pol.BatchSize,
		"dry_run", pol.DryRun)

	for _, root := range pol.Roots {
		log.Debug("listing root", "root", root)
		if err := client.List(ctx, root, func(line string) error {
			return pr.ProcessLine(ctx, line)
		}); err != nil {
			return err
		}
	}

	if err := pr.Finish(ctx); err != nil {
		return err
	}

	report := pr.Report()
	fmt.Print(report.Summary(pol))

	recordRun(pol, report)
	return nil
}

// buildPolicy assembles and validates the retention policy from the
// effective configuration.
func buildPolicy(roots []string) (*policy.Policy, error) {
	if len(roots) == 0 {
		if root := viper.GetString("default_root"); root != "" {
			roots = []string{root}
		}
	}

	return policy.New(policy.Options{
		Days:           viper.GetInt("days"),
		Hours:          viper.GetInt("hours"),
		Minutes:        viper.GetInt("minutes"),
		IncludePattern: viper.GetString("include"),
		ExcludePattern: viper.GetString("exclude"),
		BatchSize:      viper.GetInt("batch_size"),
		Delete:         viper.GetBool("delete"),
		SkipTrash:      viper.GetBool("skip_trash"),
		Roots:          roots,
	})
}

// initLogging configures logging from the effective settings. --verbose
// forces debug, --quiet limits the console to errors.
func initLogging() error {
	level := viper.GetString("logging.level")
	if viper.GetBool("verbose") {
		level = "debug"
	}

	path := viper.GetString("logging.path")
	if path == "" {
		path = logging.DefaultLogPath()
	}

	return logging.Init(logging.Config{
		Level: level,
		Path:  path,
		Quiet: getQuiet(),
	})
}

// recordRun appends the run to the history manifest. Failures are warnings:
// the prune itself already succeeded.
func recordRun(pol *policy.Policy, report *pruner.Report) {
	if !viper.GetBool("manifest.enabled") {
		return
	}
	log := logging.Get("manifest")

	dir := viper.GetString("manifest.path")
	if dir == "" {
		dir = config.ManifestDir()
	}

	m, err := manifest.New(dir)
	if err != nil {
		log.Warn("run history not recorded", "error", err)
		return
	}

	op := manifest.OpDelete
	if pol.DryRun {
		op = manifest.OpPreview
	}

	files := make([]manifest.FileRecord, len(report.Files))
	for i, f := range report.Files {
		files[i] = manifest.FileRecord{Path: f.Path, Size: f.Size, ModifiedAt: f.ModifiedAt}
	}

	entry, err := m.Record(op, pol.ThresholdString(), pol.Roots, files, manifest.Summary{
		Checked:           int64(report.Checked),
		ExcludedUser:      int64(report.ExcludedUser),
		ExcludedProtected: int64(report.ExcludedProtected),
		Removed:           int64(report.Removed),
		TotalBytes:        report.Bytes,
	})
	if err != nil {
		log.Warn("run history not recorded", "error", err)
		return
	}
	log.Debug("run recorded", "id", entry.ID)
}
