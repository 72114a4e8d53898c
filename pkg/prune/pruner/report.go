package pruner

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/hdfsprune/pkg/prune/policy"
)

// Report tallies the run. Every file entry increments Checked exactly once;
// the exclusion counters and Removed are mutually exclusive per entry.
// Include-pattern misses intentionally increment nothing: those files were
// never selected, which is not an exclusion.
type Report struct {
	// Checked counts every parsed plain-file entry.
	Checked int

	// ExcludedUser counts age-eligible files dropped by the user's
	// exclude pattern.
	ExcludedUser int

	// ExcludedProtected counts age-eligible files dropped by the
	// hardcoded denylist.
	ExcludedProtected int

	// Removed counts files actually handed to the delete executor
	// (or previewed, under dry-run).
	Removed int

	// Bytes is the total size of the selected files.
	Bytes int64

	// Files are the selected files, in discovery order.
	Files []File
}

// Summary renders the end-of-run report. Under dry-run the removal line
// reads "would remove"; the protected-path line appears only when that
// counter is nonzero.
func (r *Report) Summary(p *policy.Policy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Checked %d %s.\n", r.Checked, pluralFiles(r.Checked))
	fmt.Fprintf(&b, "Excluded %d %s by filter.\n", r.ExcludedUser, pluralFiles(r.ExcludedUser))
	if r.ExcludedProtected > 0 {
		fmt.Fprintf(&b, "Excluded %d protected %s.\n", r.ExcludedProtected, pluralFiles(r.ExcludedProtected))
	}

	verb := "Removed"
	if p.DryRun {
		verb = "Would remove"
	}
	fmt.Fprintf(&b, "%s %d %s (%s).\n", verb, r.Removed, pluralFiles(r.Removed), humanize.IBytes(uint64(r.Bytes)))
	fmt.Fprintf(&b, "Retention threshold: older than %s.\n", p.ThresholdString())

	return b.String()
}

func pluralFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
