// Package planner accumulates eligible file paths and flushes them to a
// delete executor in batches.
//
// Two modes exist, selected by the policy's batch size. Immediate mode
// (batch size below 2) flushes every path as its own single-element batch
// the moment it is added. Grouped mode (batch size 2 and above) buffers all
// paths across the entire listing and partitions them into consecutive
// batches only when Finish is called, after the stream is fully consumed.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Executor receives one batch of paths per call. Implementations either
// issue the delete invocation or print a dry-run preview.
type Executor interface {
	Execute(ctx context.Context, paths []string) error
}

// ErrCommandTooLong indicates a batch whose rendered delete command exceeds
// the operating system's argument length limit.
var ErrCommandTooLong = errors.New("delete command exceeds system argument length limit")

// envHeadroom is reserved from the argv budget for the environment, which
// shares the same kernel allocation as the argument strings.
const envHeadroom = 8 * 1024

// Planner groups eligible paths into delete batches.
type Planner struct {
	batchSize  int
	exec       Executor
	argvPrefix []string
	argLimit   int

	pending []string
	flushed int
}

// New creates a Planner. argvPrefix is the delete invocation up to but not
// including the paths; it is charged against the argument length budget of
// every batch.
func New(batchSize int, exec Executor, argvPrefix []string) *Planner {
	return &Planner{
		batchSize:  batchSize,
		exec:       exec,
		argvPrefix: argvPrefix,
		argLimit:   argLimit() - envHeadroom,
	}
}

// Add hands one eligible path to the planner. In immediate mode the path is
// flushed before Add returns; in grouped mode it is buffered until Finish.
func (p *Planner) Add(ctx context.Context, path string) error {
	if p.batchSize < 2 {
		return p.flush(ctx, []string{path})
	}
	p.pending = append(p.pending, path)
	return nil
}

// Finish flushes the buffered paths in consecutive batches of at most the
// configured batch size, in the order they were added. It must be called
// once, after the listing stream ends. Immediate mode has nothing buffered.
func (p *Planner) Finish(ctx context.Context) error {
	for len(p.pending) > 0 {
		n := p.batchSize
		if n > len(p.pending) {
			n = len(p.pending)
		}
		if err := p.flush(ctx, p.pending[:n]); err != nil {
			return err
		}
		p.pending = p.pending[n:]
	}
	p.pending = nil
	return nil
}

// Flushed returns the number of paths handed to the executor so far.
func (p *Planner) Flushed() int {
	return p.flushed
}

// flush verifies the argument length budget for one batch and passes it to
// the executor. The check runs per batch since batches vary in total path
// length.
func (p *Planner) flush(ctx context.Context, batch []string) error {
	argv := append(append([]string{}, p.argvPrefix...), batch...)
	if n := CommandLength(argv); n > p.argLimit {
		return fmt.Errorf("%w: %d bytes for %d paths (limit %d), reduce the batch size: %s",
			ErrCommandTooLong, n, len(batch), p.argLimit, truncateCommand(RenderCommand(argv)))
	}

	if err := p.exec.Execute(ctx, batch); err != nil {
		return err
	}
	p.flushed += len(batch)
	return nil
}

// CommandLength returns the execve byte cost of the rendered command:
// every quoted argument plus its terminating NUL.
func CommandLength(argv []string) int {
	n := 0
	for _, arg := range argv {
		n += len(quoteArg(arg)) + 1
	}
	return n
}

// RenderCommand renders argv as a single display string with arguments
// quoted where needed. It is used for dry-run previews and diagnostics.
func RenderCommand(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = quoteArg(arg)
	}
	return strings.Join(parts, " ")
}

// quoteArg single-quotes arguments containing characters outside the safe
// set. Quote characters themselves never reach the planner: the safety
// filter excludes any path carrying one.
func quoteArg(arg string) string {
	if arg != "" && strings.IndexFunc(arg, func(r rune) bool {
		return !isSafeRune(r)
	}) == -1 {
		return arg
	}
	return "'" + arg + "'"
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '/', r == '-', r == '=', r == '+', r == ':', r == ',', r == '@':
		return true
	}
	return false
}

// truncateCommand bounds the command text embedded in error messages.
func truncateCommand(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
