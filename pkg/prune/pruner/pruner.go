// Package pruner drives the per-line pruning pipeline: parse the listing
// line, evaluate the age threshold, classify against the safety filters,
// and hand survivors to the batch planner. Counters accumulate in a Report
// owned by the run; there is no process-global state.
package pruner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/jamesainslie/hdfsprune/pkg/prune/filter"
	"github.com/jamesainslie/hdfsprune/pkg/prune/listing"
	"github.com/jamesainslie/hdfsprune/pkg/prune/logging"
	"github.com/jamesainslie/hdfsprune/pkg/prune/planner"
	"github.com/jamesainslie/hdfsprune/pkg/prune/policy"
)

// File is a compact record of one file selected for deletion, kept for the
// run manifest and the byte accounting.
type File struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// Pruner consumes one listing stream line by line. It is single-use: feed
// every line through ProcessLine, call Finish once at end of stream, then
// read the Report.
type Pruner struct {
	policy  *policy.Policy
	planner *planner.Planner
	now     func() time.Time
	log     *logging.Logger

	report Report
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(p *Pruner) {
		p.now = now
	}
}

// New creates a Pruner feeding eligible paths into pl.
func New(pol *policy.Policy, pl *planner.Planner, opts ...Option) *Pruner {
	p := &Pruner{
		policy:  pol,
		planner: pl,
		now:     time.Now,
		log:     logging.Get("pruner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessLine runs one listing line through the pipeline.
//
// Malformed lines are warned about and skipped; the scan never stops for
// them. Timestamp reconstruction failures and executor failures are fatal
// and returned.
func (p *Pruner) ProcessLine(ctx context.Context, line string) error {
	entry, err := listing.Parse(line)
	if err != nil {
		if errors.Is(err, listing.ErrMalformedLine) {
			p.log.Warn("skipping unparseable listing line", "line", line)
			return nil
		}
		return err
	}
	if entry == nil {
		// Header line.
		return nil
	}

	// Directories are never deletion candidates.
	if entry.Kind == listing.KindDirectory {
		return nil
	}

	p.report.Checked++

	if !p.policy.ExceedsAge(p.now(), entry.ModifiedAt) {
		return nil
	}

	switch filter.Classify(p.policy, entry.Path) {
	case filter.ExcludedProtected:
		p.report.ExcludedProtected++
		p.log.Debug("protected path skipped", "path", entry.Path)
		return nil
	case filter.ExcludedUser:
		p.report.ExcludedUser++
		return nil
	case filter.NotSelected:
		return nil
	}

	p.report.Files = append(p.report.Files, File{
		Path:       entry.Path,
		Size:       entry.Size,
		ModifiedAt: entry.ModifiedAt,
	})
	p.report.Bytes += entry.Size

	return p.planner.Add(ctx, entry.Path)
}

// ScanReader feeds every line of r through ProcessLine. It does not call
// Finish; multiple streams may be scanned before a single Finish.
func (p *Pruner) ScanReader(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := p.ProcessLine(ctx, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Finish flushes any buffered batches and finalizes the removed count. It
// must be called exactly once, after the last stream is consumed.
func (p *Pruner) Finish(ctx context.Context) error {
	err := p.planner.Finish(ctx)
	p.report.Removed = p.planner.Flushed()
	return err
}

// Report returns the counters accumulated so far. After Finish it is the
// final run summary; on abort it reflects the state at the abort point.
func (p *Pruner) Report() *Report {
	p.report.Removed = p.planner.Flushed()
	return &p.report
}
