package cube

import (
	"fmt"
	"regexp"
	"strconv"
)

// Split output files are named split_<lower>-<upper>_<basename>. The
// joiner recovers channel ordering from nothing but this convention, so
// it is a binding external contract; parsing and formatting live here
// and nowhere else.
var splitNamePattern = regexp.MustCompile(`^split_([0-9]+)-([0-9]+)_(.+)$`)

// SplitFileName formats the output filename for a channel range taken
// out of the named source cube.
func SplitFileName(r Range, basename string) string {
	return fmt.Sprintf("split_%d-%d_%s", r.Lower, r.Upper, basename)
}

// ParseSplitFileName recovers the channel range and original basename
// from a split output filename.
func ParseSplitFileName(name string) (Range, string, error) {
	matches := splitNamePattern.FindStringSubmatch(name)
	if matches == nil {
		return Range{}, "", fmt.Errorf("cube: %q: %w", name, ErrBadSplitName)
	}

	lower, err := strconv.Atoi(matches[1])
	if err != nil {
		return Range{}, "", fmt.Errorf("cube: %q: %w", name, ErrBadSplitName)
	}

	upper, err := strconv.Atoi(matches[2])
	if err != nil {
		return Range{}, "", fmt.Errorf("cube: %q: %w", name, ErrBadSplitName)
	}

	return Range{lower, upper}, matches[3], nil
}
