// Copyright (C) 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retriever

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/fakedownloader"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/storage"
)

// countingDownloader counts Download calls on its way through to the real
// downloader.
type countingDownloader struct {
	inner addressinput.Downloader
	calls int
}

func (c *countingDownloader) Download(url string, downloaded addressinput.DownloadedCallback) {
	c.calls++
	c.inner.Download(url, downloaded)
}

// failingDownloader fails every download, like a downloader cut off from
// its server.
type failingDownloader struct{}

func (failingDownloader) Download(url string, downloaded addressinput.DownloadedCallback) {
	downloaded(false, url, nil)
}

// rejectingStorage accepts nothing and finds nothing.
type rejectingStorage struct{}

func (rejectingStorage) Put(key string, data []byte) error {
	return addressinput.ErrStorage{Msg: "rejected " + key}
}

func (rejectingStorage) Get(key string) ([]byte, error) {
	return nil, addressinput.ErrNotFound{Key: key}
}

// retrieval captures what a single Retrieve call handed to its callback.
type retrieval struct {
	success bool
	key     string
	data    []byte
	calls   int
}

func doRetrieve(t *testing.T, r *Retriever, key string) retrieval {
	t.Helper()
	var got retrieval
	r.Retrieve(key, func(success bool, key string, data []byte) {
		got.calls++
		require.False(t, success && data == nil, "a successful retrieval must carry data")
		require.False(t, !success && data != nil, "a failed retrieval must not carry data")
		got.success, got.key, got.data = success, key, data
	})
	require.Equal(t, 1, got.calls, "the callback must run exactly once")
	return got
}

func newTestRetriever(t *testing.T) (*Retriever, *countingDownloader, *storage.FileStorage) {
	t.Helper()
	downloader := &countingDownloader{inner: fakedownloader.New()}
	store, err := storage.New(afero.NewMemMapFs(), "cache")
	require.NoError(t, err)
	urls := addressinput.NewLookupKeyUtil(fakedownloader.DataURLPrefix)
	return New(downloader, store, urls), downloader, store
}

func TestRetrieveDownloadsAndStores(t *testing.T) {
	retriever, downloader, store := newTestRetriever(t)

	got := doRetrieve(t, retriever, "data/CH")
	assert.True(t, got.success)
	assert.Equal(t, "data/CH", got.key)
	assert.Contains(t, string(got.data), `"id":"data/CH"`)
	assert.Equal(t, 1, downloader.calls)

	stored, err := store.Get("data/CH")
	require.NoError(t, err)
	assert.Equal(t, got.data, stored, "the downloaded payload must be stored")
}

func TestRetrieveServesStoredPayload(t *testing.T) {
	retriever, downloader, _ := newTestRetriever(t)

	first := doRetrieve(t, retriever, "data/CH")
	second := doRetrieve(t, retriever, "data/CH")

	assert.True(t, second.success)
	assert.Equal(t, string(first.data), string(second.data))
	assert.Equal(t, 1, downloader.calls, "the second retrieval must be served from storage")
}

func TestRetrieveFailure(t *testing.T) {
	store, err := storage.New(afero.NewMemMapFs(), "cache")
	require.NoError(t, err)
	urls := addressinput.NewLookupKeyUtil(fakedownloader.DataURLPrefix)
	retriever := New(failingDownloader{}, store, urls)

	got := doRetrieve(t, retriever, "data/CH")
	assert.False(t, got.success)
	assert.Equal(t, "data/CH", got.key)
	assert.Nil(t, got.data)

	_, err = store.Get("data/CH")
	assert.True(t, errors.Is(err, addressinput.ErrNotFound{}), "a failed retrieval must store nothing")
}

func TestRetrieveSurvivesStorageFailure(t *testing.T) {
	downloader := &countingDownloader{inner: fakedownloader.New()}
	urls := addressinput.NewLookupKeyUtil(fakedownloader.DataURLPrefix)
	retriever := New(downloader, rejectingStorage{}, urls)

	got := doRetrieve(t, retriever, "data/CH")
	assert.True(t, got.success, "an unusable storage must not fail the retrieval")
	assert.Contains(t, string(got.data), `"id":"data/CH"`)

	// without storage every retrieval downloads again
	doRetrieve(t, retriever, "data/CH")
	assert.Equal(t, 2, downloader.calls)
}

func TestRetrieveMissingKey(t *testing.T) {
	retriever, _, _ := newTestRetriever(t)

	got := doRetrieve(t, retriever, "junk")
	assert.True(t, got.success, "the fake downloader resolves unknown keys to the empty dictionary")
	assert.Equal(t, "{}", string(got.data))
}
