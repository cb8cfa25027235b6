// Package storage persists validation payloads so they can be served again
// without repeating a download.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/internal/fsutil"
)

// Storage is the persistence behind cached retrieval. Implementations get
// and put whole payloads by lookup key. Get resolves a key that was never
// stored to an error matching addressinput.ErrNotFound or fs.ErrNotExist.
type Storage interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, error)
}

const (
	// user:  rwx
	// group: r-x
	// other: ---
	dirPerm = 0750

	// user:  rw-
	// group: r--
	// other: ---
	filePerm = 0640
)

// FileStorage keeps one file per key below a base directory, at
// "<base>/<key>.json".
type FileStorage struct {
	fs      afero.Fs
	baseDir string
}

// New returns a FileStorage rooted at baseDir on fsys, creating the base
// directory when it is missing.
func New(fsys afero.Fs, baseDir string) (*FileStorage, error) {
	fi, err := fsys.Stat(baseDir)
	if errors.Is(err, fs.ErrNotExist) {
		if err := fsys.MkdirAll(baseDir, dirPerm); err != nil {
			return nil, err
		}
		return &FileStorage{fs: fsys, baseDir: baseDir}, nil
	}
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, addressinput.ErrStorage{Msg: fmt.Sprintf("cannot open %s, not a directory", baseDir)}
	}

	return &FileStorage{fs: fsys, baseDir: baseDir}, nil
}

// Put stores data under key, replacing any previous payload. The write is
// staged and renamed in, so a concurrent Get never observes a partial file.
func (f *FileStorage) Put(key string, data []byte) error {
	if !validKey(key) {
		return addressinput.ErrInvalidKey{Key: key}
	}

	p := f.path(key)
	if err := f.fs.MkdirAll(filepath.Dir(p), dirPerm); err != nil {
		return err
	}

	return atomicWriteFile(f.fs, p, data, filePerm)
}

// Get returns the payload stored under key. A key that was never stored
// resolves to ErrNotFound, with the underlying filesystem error in its
// chain.
func (f *FileStorage) Get(key string) ([]byte, error) {
	if !validKey(key) {
		return nil, addressinput.ErrInvalidKey{Key: key}
	}

	p := f.path(key)
	fi, err := f.fs.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", addressinput.ErrNotFound{Key: key}, err)
	}
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, addressinput.ErrStorage{Msg: fmt.Sprintf("%s is not a regular file", p)}
	}
	if err := fsutil.EnsureMaxPermissions(fi, filePerm); err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	return afero.ReadFile(f.fs, p)
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(key)+".json")
}

// validKey reports whether key can name a stored payload. Keys look like
// "data/CH/AG" or "examples/US/local/_default": slash separated, non-empty
// segments of unaccented letters, digits, underscores and dashes.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" {
			return false
		}
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '/' || r == '_' || r == '-':
		default:
			return false
		}
	}

	return true
}

// atomicWriteFile stages data next to its destination and renames it into
// place.
func atomicWriteFile(fsys afero.Fs, p string, data []byte, perm os.FileMode) error {
	tmp, err := afero.TempFile(fsys, filepath.Dir(p), filepath.Base(p)+".tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Chmod(tmpName, perm); err != nil {
		fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Rename(tmpName, p); err != nil {
		fsys.Remove(tmpName)
		return err
	}

	return nil
}
