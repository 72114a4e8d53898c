// Package policy defines the immutable retention policy for a prune run:
// the age threshold, user include/exclude patterns, batching mode, and the
// destructive-mode and skip-trash toggles.
package policy

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"
)

// Age threshold bounds.
const (
	// MinAge is the smallest permitted retention threshold, exclusive.
	// Runs configured at or below five minutes refuse to start.
	MinAge = 5 * time.Minute

	// MaxBatchSize is the largest permitted delete batch.
	MaxBatchSize = 100
)

// DefaultRoot is scanned when no roots are given.
const DefaultRoot = "/tmp"

// Validation errors.
var (
	ErrAgeTooSmall = errors.New("retention threshold must exceed 5 minutes")
	ErrBatchSize   = errors.New("batch size must be between 0 and 100")
	ErrBadPattern  = errors.New("invalid filter pattern")
)

// Policy is the validated, immutable configuration of one prune run.
type Policy struct {
	// MaxAge is the retention threshold. Files strictly older than this
	// are eligible for deletion.
	MaxAge time.Duration

	// Include and Exclude are optional user filters compiled from the
	// configured regular expressions. Exclude wins when both match.
	Include *regexp.Regexp
	Exclude *regexp.Regexp

	// BatchSize selects the planner mode: values below 2 delete each file
	// as soon as it is found, 2 and above accumulate and delete in groups.
	BatchSize int

	// DryRun previews delete invocations instead of issuing them.
	// It is true unless the operator explicitly opts into deletion.
	DryRun bool

	// SkipTrash is passed through to the delete invocation.
	SkipTrash bool

	// Roots are the deduplicated listing roots, in the order given.
	Roots []string
}

// Options carries the raw, unvalidated run configuration.
type Options struct {
	Days    int
	Hours   int
	Minutes int

	IncludePattern string
	ExcludePattern string

	BatchSize int
	Delete    bool
	SkipTrash bool
	Roots     []string
}

// New validates opts and constructs a Policy. It is the only constructor;
// a Policy is never mutated after New returns.
func New(opts Options) (*Policy, error) {
	maxAge := time.Duration(opts.Days)*24*time.Hour +
		time.Duration(opts.Hours)*time.Hour +
		time.Duration(opts.Minutes)*time.Minute

	if maxAge <= MinAge {
		return nil, fmt.Errorf("%w: got %s", ErrAgeTooSmall, maxAge)
	}

	if opts.BatchSize < 0 || opts.BatchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrBatchSize, opts.BatchSize)
	}

	p := &Policy{
		MaxAge:    maxAge,
		BatchSize: opts.BatchSize,
		DryRun:    !opts.Delete,
		SkipTrash: opts.SkipTrash,
		Roots:     dedupeRoots(opts.Roots),
	}

	if len(p.Roots) == 0 {
		p.Roots = []string{DefaultRoot}
	}

	var err error
	if opts.IncludePattern != "" {
		p.Include, err = regexp.Compile(opts.IncludePattern)
		if err != nil {
			return nil, fmt.Errorf("%w: include %q: %v", ErrBadPattern, opts.IncludePattern, err)
		}
	}
	if opts.ExcludePattern != "" {
		p.Exclude, err = regexp.Compile(opts.ExcludePattern)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude %q: %v", ErrBadPattern, opts.ExcludePattern, err)
		}
	}

	return p, nil
}

// ExceedsAge reports whether a file modified at modifiedAt is strictly older
// than the retention threshold as of now. A file exactly MaxAge old is not
// eligible.
func (p *Policy) ExceedsAge(now, modifiedAt time.Time) bool {
	return now.Sub(modifiedAt) > p.MaxAge
}

// Immediate reports whether the planner runs in immediate mode, flushing
// each eligible path as its own single-element batch.
func (p *Policy) Immediate() bool {
	return p.BatchSize < 2
}

// ThresholdString renders the threshold as days/hours/minutes for the run
// summary, e.g. "1 day 2 hours" or "30 minutes".
func (p *Policy) ThresholdString() string {
	d := p.MaxAge
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%d %s", days, plural(days, "day"))
	}
	if hours > 0 {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
	}
	if minutes > 0 || out == "" {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%d %s", minutes, plural(minutes, "minute"))
	}
	return out
}

// plural returns the singular noun or its regular plural to track the count.
func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

// dedupeRoots removes duplicate roots while preserving first-seen order.
func dedupeRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
