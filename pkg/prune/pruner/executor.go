package pruner

import (
	"context"
	"fmt"
	"io"

	"github.com/jamesainslie/hdfsprune/pkg/prune/hdfs"
	"github.com/jamesainslie/hdfsprune/pkg/prune/planner"
)

// DeleteExecutor issues real delete invocations against the cluster.
type DeleteExecutor struct {
	Client    *hdfs.Client
	SkipTrash bool
}

// Execute deletes one batch. Any failure is fatal for the run: the caller
// stops immediately rather than continue past a partial deletion.
func (e *DeleteExecutor) Execute(ctx context.Context, paths []string) error {
	return e.Client.Delete(ctx, e.SkipTrash, paths)
}

// PreviewExecutor prints the would-be delete invocation instead of running
// it. This is the dry-run default.
type PreviewExecutor struct {
	Out        io.Writer
	ArgvPrefix []string
}

// Execute writes the rendered invocation for one batch to Out.
func (e *PreviewExecutor) Execute(_ context.Context, paths []string) error {
	argv := append(append([]string{}, e.ArgvPrefix...), paths...)
	if _, err := fmt.Fprintln(e.Out, planner.RenderCommand(argv)); err != nil {
		return fmt.Errorf("writing dry-run preview: %w", err)
	}
	return nil
}
