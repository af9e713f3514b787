//go:build windows

package foldersize

import (
	"path/filepath"
	"strings"
)

// longPath prefixes absolute paths with the extended-length marker so that
// deep trees are not cut off at MAX_PATH.
func longPath(p string) string {
	if strings.HasPrefix(p, `\\?\`) || !filepath.IsAbs(p) {
		return p
	}

	p = filepath.Clean(p)

	if strings.HasPrefix(p, `\\`) {
		return `\\?\UNC\` + p[2:]
	}

	return `\\?\` + p
}
