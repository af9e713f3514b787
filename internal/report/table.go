// Package report arranges scan results for presentation: ordering, filtering
// and top-N trimming.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/maruel/natural"

	"github.com/idelchi/sizefolder/internal/foldersize"
)

// SortKey selects the ordering of a result view.
type SortKey string

const (
	// SortSize orders by size, largest first.
	SortSize SortKey = "size"
	// SortName orders by folder name in natural, case-insensitive order.
	SortName SortKey = "name"
	// SortPath orders by absolute path, case-insensitive.
	SortPath SortKey = "path"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortSize, SortName, SortPath} //nolint:gochecknoglobals // Flag values

// ParseSortKey validates a sort key.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(s))
	if !slices.Contains(SortKeys, key) {
		return "", fmt.Errorf("invalid sort key %q: must be one of %v", s, SortKeys)
	}

	return key, nil
}

// View describes how results are presented.
type View struct {
	// Sort is the ordering; empty keeps the input order.
	Sort SortKey
	// Filter keeps results whose name or path contains it, ignoring case.
	Filter string
	// Top keeps only the first Top results after sorting (0 = all).
	Top int
}

// Arrange returns a new slice with the view applied. The input is not modified.
func Arrange(results []foldersize.SubfolderResult, view View) []foldersize.SubfolderResult {
	out := make([]foldersize.SubfolderResult, 0, len(results))

	query := strings.ToLower(strings.TrimSpace(view.Filter))

	for _, r := range results {
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Name), query) &&
			!strings.Contains(strings.ToLower(r.Path), query) {
			continue
		}

		out = append(out, r)
	}

	switch view.Sort {
	case SortSize:
		slices.SortStableFunc(out, func(a, b foldersize.SubfolderResult) int {
			switch {
			case a.Size > b.Size:
				return -1
			case a.Size < b.Size:
				return 1
			default:
				return compareNatural(a.Name, b.Name)
			}
		})
	case SortName:
		slices.SortStableFunc(out, func(a, b foldersize.SubfolderResult) int {
			return compareNatural(a.Name, b.Name)
		})
	case SortPath:
		slices.SortStableFunc(out, func(a, b foldersize.SubfolderResult) int {
			return strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
		})
	}

	if view.Top > 0 && len(out) > view.Top {
		out = out[:view.Top]
	}

	return out
}

// compareNatural compares names so that "dir2" sorts before "dir10".
func compareNatural(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)

	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	default:
		return 0
	}
}
