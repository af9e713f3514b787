//go:build !windows

package foldersize

// longPath is the identity on platforms without a path length ceiling.
func longPath(p string) string {
	return p
}
