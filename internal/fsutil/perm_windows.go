package fsutil

import (
	"os"
)

// EnsureMaxPermissions tests the provided file info to make sure no
// permission bits beyond perm are set.
// On Windows systems the permission bits are not really compatible with
// UNIX-like permission bits.
// Currently this method will always return nil.
func EnsureMaxPermissions(fi os.FileInfo, perm os.FileMode) error {
	return nil
}
