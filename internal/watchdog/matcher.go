package watchdog

import (
	"path/filepath"
	"strings"
)

// Wildcard is the single wildcard character recognized in watch patterns.
const Wildcard = "*"

// Filter is a single-wildcard filename pattern, decomposed into the text
// before and after the wildcard. A zero Filter matches every name.
type Filter struct {
	Prefix string
	Suffix string
}

// newFilter splits pattern at its first wildcard. A pattern without a
// wildcard becomes a pure prefix; any further wildcard characters are kept
// as literal text.
func newFilter(pattern string) Filter {
	i := strings.Index(pattern, Wildcard)
	if i < 0 {
		return Filter{Prefix: pattern}
	}
	return Filter{Prefix: pattern[:i], Suffix: pattern[i+1:]}
}

// Matches reports whether name satisfies the filter. Matching is loose
// substring containment rather than anchored prefix/suffix matching: the
// prefix may appear anywhere in the name, and the suffix is located from
// the end of the name (last occurrence) since it closes the pattern.
func (f Filter) Matches(name string) bool {
	if f.Prefix != "" && !strings.Contains(name, f.Prefix) {
		return false
	}
	if f.Suffix != "" && strings.LastIndex(name, f.Suffix) < 0 {
		return false
	}
	return true
}

// splitPattern separates a watch path into the directory to poll and the
// wildcard filter. Only the final path segment is inspected for a wildcard;
// a path without one is watched literally (empty filter, no directory scan).
func splitPattern(path string) (dir, filter string) {
	base := filepath.Base(path)
	if strings.Contains(base, Wildcard) {
		return filepath.Dir(path), base
	}
	return path, ""
}
