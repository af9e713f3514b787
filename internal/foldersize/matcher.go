package foldersize

import (
	"path"
	"runtime"
	"strings"
)

// caseInsensitiveFS reports whether the platform's default filesystems fold case.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin" //nolint:gochecknoglobals // Platform policy

// globPattern is a compiled exclusion pattern.
type globPattern struct {
	// pattern is the glob, case folded when the matcher folds case.
	pattern string
	// literal is set for malformed globs, which only match themselves.
	literal bool
	// hasSlash marks patterns that are also tried against the whole relative path.
	hasSlash bool
}

// match reports whether s matches the pattern.
func (g globPattern) match(s string) bool {
	if g.literal {
		return s == g.pattern
	}

	ok, err := path.Match(g.pattern, s)

	return err == nil && ok
}

// Matcher decides whether a filesystem entry is excluded from a scan.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	patterns []globPattern
	fold     bool
}

// NewMatcher compiles the given glob patterns using the platform's case policy.
// Entries may themselves be comma-separated lists.
func NewMatcher(patterns []string) *Matcher {
	return newMatcher(patterns, caseInsensitiveFS)
}

func newMatcher(patterns []string, fold bool) *Matcher {
	m := &Matcher{fold: fold}

	for _, entry := range patterns {
		for _, p := range SplitPatterns(entry) {
			p = strings.TrimSuffix(p, "/")
			if fold {
				p = strings.ToLower(p)
			}

			_, err := path.Match(p, "")

			m.patterns = append(m.patterns, globPattern{
				pattern:  p,
				literal:  err != nil,
				hasSlash: strings.Contains(p, "/"),
			})
		}
	}

	return m
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// ShouldExclude reports whether the entry called name, located at rel
// (slash or OS separated, relative to the subfolder being sized), matches
// any pattern by base name or by any segment of its relative path.
func (m *Matcher) ShouldExclude(name, rel string) bool {
	if m.Empty() {
		return false
	}

	rel = strings.Trim(strings.ReplaceAll(rel, `\`, "/"), "/")

	if m.fold {
		name = strings.ToLower(name)
		rel = strings.ToLower(rel)
	}

	for _, g := range m.patterns {
		if g.match(name) {
			return true
		}

		if g.hasSlash && g.match(rel) {
			return true
		}

		for segment := range strings.SplitSeq(rel, "/") {
			if segment != "" && g.match(segment) {
				return true
			}
		}
	}

	return false
}
