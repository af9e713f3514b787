//go:build !windows

package foldersize

import (
	"io/fs"
	"syscall"
)

// fileIdentity returns the device+inode identity of a file and its link count.
func fileIdentity(_ string, info fs.FileInfo) (fileID, uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileID{}, 0, false
	}

	return fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, uint64(stat.Nlink), true //nolint:unconvert // Types differ per platform
}
