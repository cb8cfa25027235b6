//go:build !windows
// +build !windows

package fsutil

import (
	"io/fs"
	"os"
)

// EnsureMaxPermissions tests the provided file info to make sure no
// permission bits beyond perm are set.
func EnsureMaxPermissions(fi os.FileInfo, perm os.FileMode) error {
	// Clear all bits which are not related to the permission.
	mode := fi.Mode() & fs.ModePerm
	mask := ^perm
	if (mode & mask) != 0 {
		return ErrPermission
	}

	return nil
}
