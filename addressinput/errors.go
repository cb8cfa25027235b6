package addressinput

import (
	"fmt"
)

// Error types shared across the library's packages. Names start in 'Err'
// and the zero value of a type acts as its class for errors.Is checks.

// Storage errors

// ErrStorage - an error with the local payload store, such as an unusable
// base directory. It covers everything that goes wrong on the storage side
// when looking from the perspective of users of the library.
type ErrStorage struct {
	Msg string
}

func (e ErrStorage) Error() string {
	return fmt.Sprintf("storage error: %s", e.Msg)
}

// ErrNotFound - no payload is stored under the requested key
type ErrNotFound struct {
	Key string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("no stored payload for key %q", e.Key)
}

// ErrNotFound is a subset of ErrStorage
func (e ErrNotFound) Is(target error) bool {
	return target == ErrStorage{} || target == ErrNotFound{}
}

// ErrInvalidKey - the requested key cannot name a stored payload
type ErrInvalidKey struct {
	Key string
}

func (e ErrInvalidKey) Error() string {
	return fmt.Sprintf("invalid lookup key %q", e.Key)
}

// ErrInvalidKey is a subset of ErrStorage
func (e ErrInvalidKey) Is(target error) bool {
	return target == ErrStorage{} || target == ErrInvalidKey{}
}

// Dataset errors

// ErrDataset - the validation dataset is malformed
type ErrDataset struct {
	Msg string
}

func (e ErrDataset) Error() string {
	return fmt.Sprintf("dataset error: %s", e.Msg)
}
