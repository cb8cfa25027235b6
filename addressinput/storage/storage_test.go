package storage

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/internal/fsutil"
)

var _ Storage = (*FileStorage)(nil)

func TestNew(t *testing.T) {
	// setup testing table (tt) and create subtest for each entry
	for _, tt := range []struct {
		name    string
		desc    string
		setup   func(t *testing.T, fsys afero.Fs, baseDir string)
		wantErr error
	}{
		{
			name:  "missing base directory",
			desc:  "The base directory is created on demand",
			setup: func(t *testing.T, fsys afero.Fs, baseDir string) {},
		},
		{
			name: "existing base directory",
			desc: "An existing base directory is reused",
			setup: func(t *testing.T, fsys afero.Fs, baseDir string) {
				t.Helper()
				require.NoError(t, fsys.MkdirAll(baseDir, 0750))
			},
		},
		{
			name: "base is a file",
			desc: "A file in place of the base directory is refused",
			setup: func(t *testing.T, fsys afero.Fs, baseDir string) {
				t.Helper()
				require.NoError(t, afero.WriteFile(fsys, baseDir, []byte("x"), 0640))
			},
			wantErr: addressinput.ErrStorage{},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			// this will only be printed if run in verbose mode or if test fails
			t.Logf("Desc: %s", tt.desc)
			fsys := afero.NewMemMapFs()
			baseDir := "cache"
			tt.setup(t, fsys, baseDir)

			store, err := New(fsys, baseDir)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, store)

			ok, err := afero.DirExists(fsys, baseDir)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestPutGet(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store, err := New(fsys, "cache")
	require.NoError(t, err)

	payload := []byte(`{"id":"data/CH","name":"SWITZERLAND"}`)
	require.NoError(t, store.Put("data/CH", payload))

	got, err := store.Get("data/CH")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// keys map below the base directory, one json file per key
	ok, err := afero.Exists(fsys, filepath.Join("cache", "data", "CH.json"))
	require.NoError(t, err)
	assert.True(t, ok)

	// a second put replaces the payload
	replaced := []byte(`{"id":"data/CH"}`)
	require.NoError(t, store.Put("data/CH", replaced))
	got, err = store.Get("data/CH")
	require.NoError(t, err)
	assert.Equal(t, replaced, got)

	// staging files do not linger next to the payload
	entries, err := afero.ReadDir(fsys, filepath.Join("cache", "data"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInvalidKeys(t *testing.T) {
	store, err := New(afero.NewMemMapFs(), "cache")
	require.NoError(t, err)

	// setup testing table (tt) and create subtest for each entry
	for _, tt := range []struct {
		name string
		desc string
		key  string
	}{
		{
			name: "empty",
			desc: "The empty key names nothing on disk",
			key:  "",
		},
		{
			name: "leading slash",
			desc: "Keys are relative to the base directory",
			key:  "/data/CH",
		},
		{
			name: "trailing slash",
			desc: "Keys end in a segment, not a separator",
			key:  "data/CH/",
		},
		{
			name: "empty segment",
			desc: "Every segment between slashes is non-empty",
			key:  "data//CH",
		},
		{
			name: "parent traversal",
			desc: "Dots are outside the key alphabet, so keys cannot climb out",
			key:  "../CH",
		},
		{
			name: "space",
			desc: "Whitespace is outside the key alphabet",
			key:  "data/C H",
		},
		{
			name: "accented letters",
			desc: "Keys stick to the unaccented server alphabet",
			key:  "data/ÜÜ",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			// this will only be printed if run in verbose mode or if test fails
			t.Logf("Desc: %s", tt.desc)
			err := store.Put(tt.key, []byte("{}"))
			assert.ErrorIs(t, err, addressinput.ErrInvalidKey{})
			assert.ErrorIs(t, err, addressinput.ErrStorage{}, "invalid keys are storage errors")

			_, err = store.Get(tt.key)
			assert.ErrorIs(t, err, addressinput.ErrInvalidKey{})
		})
	}
}

func TestGetMissing(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := New(afero.NewMemMapFs(), "cache")
		require.NoError(t, err)

		_, err = store.Get("data/CH")
		assert.ErrorIs(t, err, addressinput.ErrNotFound{})
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("os", func(t *testing.T) {
		store, err := New(afero.NewOsFs(), t.TempDir())
		require.NoError(t, err)

		_, err = store.Get("data/CH")
		assert.ErrorIs(t, err, addressinput.ErrNotFound{})
		assert.ErrorIs(t, err, unix.ENOENT)
	})
}

func TestGetNotRegular(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store, err := New(fsys, "cache")
	require.NoError(t, err)

	// a directory squatting on the payload path
	require.NoError(t, fsys.MkdirAll(filepath.Join("cache", "data", "CH.json"), 0750))

	_, err = store.Get("data/CH")
	assert.ErrorIs(t, err, addressinput.ErrStorage{})
}

func TestGetPermissions(t *testing.T) {
	fsys := afero.NewOsFs()
	store, err := New(fsys, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("data/CH", []byte("{}")))
	p := store.path("data/CH")

	// stored payloads stay readable
	_, err = store.Get("data/CH")
	require.NoError(t, err)

	// loosened permissions are refused
	require.NoError(t, fsys.Chmod(p, 0644))
	_, err = store.Get("data/CH")
	assert.ErrorIs(t, err, fsutil.ErrPermission)

	// tightened permissions stay within the ceiling
	require.NoError(t, fsys.Chmod(p, 0400))
	_, err = store.Get("data/CH")
	assert.NoError(t, err)
}

func TestErrorClasses(t *testing.T) {
	assert.True(t, errors.Is(addressinput.ErrNotFound{Key: "data/CH"}, addressinput.ErrStorage{}))
	assert.True(t, errors.Is(addressinput.ErrInvalidKey{Key: ".."}, addressinput.ErrStorage{}))
	assert.False(t, errors.Is(addressinput.ErrStorage{Msg: "x"}, addressinput.ErrNotFound{}))
}
