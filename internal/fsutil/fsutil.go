// Package fsutil defines a set of internal utility functions used to
// interact with the file system.
package fsutil

import (
	"errors"
)

var ErrPermission = errors.New("unexpected permission")
