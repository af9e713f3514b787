package foldersize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcherShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		entry    string
		rel      string
		want     bool
	}{
		{"no patterns", nil, "a.txt", "a.txt", false},
		{"exact name", []string{"node_modules"}, "node_modules", "node_modules", true},
		{"nested segment", []string{"node_modules"}, "index.js", "pkg/node_modules/index.js", true},
		{"deep directory name", []string{"node_modules"}, "node_modules", "a/b/c/node_modules", true},
		{"star glob", []string{"*.tmp"}, "build.tmp", "out/build.tmp", true},
		{"star glob miss", []string{"*.tmp"}, "build.txt", "out/build.txt", false},
		{"question mark", []string{"log?"}, "log1", "log1", true},
		{"character class", []string{"[ab].txt"}, "b.txt", "b.txt", true},
		{"character class miss", []string{"[ab].txt"}, "c.txt", "c.txt", false},
		{"comma separated entry", []string{".git, __pycache__"}, "__pycache__", "src/__pycache__", true},
		{"trailing slash", []string{"vendor/"}, "vendor", "vendor", true},
		{"relative path pattern", []string{"docs/*.md"}, "a.md", "docs/a.md", true},
		{"relative path pattern other dir", []string{"docs/*.md"}, "a.md", "src/a.md", false},
		{"malformed matches literally", []string{"[abc"}, "[abc", "[abc", true},
		{"malformed does not glob", []string{"[abc"}, "a", "a", false},
		{"os separators in rel", []string{"cache"}, "f", `x\cache\f`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatcher(tt.patterns, false)
			assert.Equal(t, tt.want, m.ShouldExclude(tt.entry, tt.rel))
		})
	}
}

func TestMatcherCaseFolding(t *testing.T) {
	sensitive := newMatcher([]string{"Build"}, false)
	insensitive := newMatcher([]string{"Build"}, true)

	assert.False(t, sensitive.ShouldExclude("build", "build"))
	assert.True(t, sensitive.ShouldExclude("Build", "Build"))
	assert.True(t, insensitive.ShouldExclude("build", "build"))
	assert.True(t, insensitive.ShouldExclude("BUILD", "src/BUILD"))
}

func TestMatcherEmpty(t *testing.T) {
	var m *Matcher

	assert.True(t, m.Empty())
	assert.False(t, m.ShouldExclude("x", "x"))
	assert.True(t, NewMatcher([]string{" ", ""}).Empty())
}
