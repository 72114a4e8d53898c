// Package listing parses the line-oriented output of a recursive HDFS
// directory listing (hdfs dfs -ls -R) into structured entries.
//
// The listing format is fixed:
//
//	<kind><permissions> <replication> <owner> <group> <size> <YYYY>-<MM>-<DD> <HH>:<MM> <path>
//
// where kind is 'd' for directories and '-' for plain files, and the month
// may be numeric or a three-letter English abbreviation. A leading
// "Found N items" header line is recognized and skipped.
package listing

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EntryKind distinguishes plain files from directories.
type EntryKind int

const (
	// KindFile is a plain file, eligible for retention pruning.
	KindFile EntryKind = iota
	// KindDirectory is a directory. Directories are parsed but never
	// considered for deletion.
	KindDirectory
)

// String returns "file" or "directory".
func (k EntryKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Entry is one parsed line of listing output.
type Entry struct {
	// Kind is the entry type from the leading discriminator character.
	Kind EntryKind

	// Permissions, Replication, Owner, and Group are carried through to
	// satisfy the line grammar; deletion logic does not consult them.
	Permissions string
	Replication string
	Owner       string
	Group       string

	// Size is the file size in bytes as reported by the listing.
	Size int64

	// ModifiedAt is the modification timestamp reconstructed in the local
	// timezone. The listing carries no seconds, so it is truncated to the
	// minute.
	ModifiedAt time.Time

	// Path is the full path as it appeared on the line.
	Path string
}

// ErrMalformedLine indicates a line that does not match the listing grammar.
// Callers treat this as recoverable: warn and continue with the next line.
var ErrMalformedLine = errors.New("malformed listing line")

// ErrBadTimestamp indicates timestamp fields that do not assemble into a
// valid calendar time. Callers treat this as fatal for the whole run.
var ErrBadTimestamp = errors.New("invalid listing timestamp")

// headerPattern matches the "Found N items" line that precedes the entries.
var headerPattern = regexp.MustCompile(`^Found \d+ items`)

// linePattern is the listing grammar with named capture fields. Each field
// is validated separately after the structural match.
var linePattern = regexp.MustCompile(
	`^(?P<kind>[d-])(?P<perm>[rwxsStT-]{9}\+?)\s+` +
		`(?P<repl>\d+|-)\s+` +
		`(?P<owner>\S+)\s+` +
		`(?P<group>\S+)\s+` +
		`(?P<size>\d+)\s+` +
		`(?P<year>\d{4})-(?P<month>\d{1,2}|[A-Za-z]{3})-(?P<day>\d{1,2})\s+` +
		`(?P<hour>\d{2}):(?P<minute>\d{2})\s+` +
		`(?P<path>\S.*?)\s*$`)

// monthAbbrevs maps lowercase three-letter month names to month numbers.
var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// IsHeader reports whether the line is the ignorable listing header.
func IsHeader(line string) bool {
	return headerPattern.MatchString(line)
}

// Parse parses a single listing line.
//
// It returns (nil, nil) for the header line, ErrMalformedLine for lines that
// do not match the grammar, and ErrBadTimestamp when the timestamp fields do
// not form a valid calendar time.
func Parse(line string) (*Entry, error) {
	if IsHeader(line) {
		return nil, nil
	}

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	field := func(name string) string {
		return m[linePattern.SubexpIndex(name)]
	}

	kind := KindFile
	if field("kind") == "d" {
		kind = KindDirectory
	}

	size, err := strconv.ParseInt(field("size"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad size in %q", ErrMalformedLine, line)
	}

	modifiedAt, err := reconstructTime(
		field("year"), field("month"), field("day"),
		field("hour"), field("minute"))
	if err != nil {
		return nil, err
	}

	return &Entry{
		Kind:        kind,
		Permissions: field("perm"),
		Replication: field("repl"),
		Owner:       field("owner"),
		Group:       field("group"),
		Size:        size,
		ModifiedAt:  modifiedAt,
		Path:        field("path"),
	}, nil
}

// reconstructTime assembles the timestamp fields into a local-timezone time
// with seconds fixed at zero. Field values that do not form a real calendar
// date (e.g. February 30th) are rejected rather than normalized.
func reconstructTime(yearStr, monthStr, dayStr, hourStr, minuteStr string) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	day, _ := strconv.Atoi(dayStr)
	hour, _ := strconv.Atoi(hourStr)
	minute, _ := strconv.Atoi(minuteStr)

	month, err := parseMonth(monthStr)
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(year, month, day, hour, minute, 0, 0, time.Local)

	// time.Date normalizes out-of-range components; a roundtrip mismatch
	// means the listing carried an impossible date.
	if t.Year() != year || t.Month() != month || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, fmt.Errorf("%w: %s-%s-%s %s:%s",
			ErrBadTimestamp, yearStr, monthStr, dayStr, hourStr, minuteStr)
	}

	return t, nil
}

// parseMonth accepts a numeric month (1-12) or a three-letter English
// abbreviation in any case, normalized to a time.Month.
func parseMonth(s string) (time.Month, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%w: month %d out of range", ErrBadTimestamp, n)
		}
		return time.Month(n), nil
	}

	if m, ok := monthAbbrevs[strings.ToLower(s)]; ok {
		return m, nil
	}

	return 0, fmt.Errorf("%w: unknown month %q", ErrBadTimestamp, s)
}
