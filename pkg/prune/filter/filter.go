// Package filter classifies age-eligible paths against the protected-path
// denylist and the user's include/exclude patterns.
package filter

import (
	"strings"

	"github.com/jamesainslie/hdfsprune/pkg/prune/policy"
)

// Decision is the classification outcome for one path.
type Decision int

const (
	// Eligible means the path survived every filter and may be deleted.
	Eligible Decision = iota

	// ExcludedProtected means the path matched the hardcoded denylist.
	ExcludedProtected

	// ExcludedUser means the path matched the user's exclude pattern.
	ExcludedUser

	// NotSelected means an include pattern is configured and the path did
	// not match it. Unlike the exclusions, this increments no counter.
	NotSelected
)

// String returns a short label for logging.
func (d Decision) String() string {
	switch d {
	case Eligible:
		return "eligible"
	case ExcludedProtected:
		return "protected"
	case ExcludedUser:
		return "excluded"
	case NotSelected:
		return "not selected"
	default:
		return "unknown"
	}
}

// CanaryMarker is the health-monitoring canary file marker. Canary files are
// recreated constantly by the cluster manager and must never be pruned.
const CanaryMarker = ".cloudera_health_monitoring_canary_files"

// protectedSubstrings are matched case-insensitively against the full path.
// Any hit excludes the path unconditionally; no flag disables this list.
// The quote characters guard the delete invocation against pathological
// filenames on top of the structured-argv invocation.
var protectedSubstrings = []string{
	"/tmp/mapred/",
	"/hbase/",
	"/solr/",
	".trash/",
	"warehouse/",
	"share/lib/",
	CanaryMarker,
	`'`,
	`"`,
}

// Classify applies the filters in fixed priority order: protected denylist,
// user exclude, user include. It assumes the path already passed the age
// check.
func Classify(p *policy.Policy, path string) Decision {
	if IsProtected(path) {
		return ExcludedProtected
	}
	if p.Exclude != nil && p.Exclude.MatchString(path) {
		return ExcludedUser
	}
	if p.Include != nil && !p.Include.MatchString(path) {
		return NotSelected
	}
	return Eligible
}

// IsProtected reports whether the path hits the hardcoded denylist.
func IsProtected(path string) bool {
	lower := strings.ToLower(path)
	for _, s := range protectedSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
