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

// Package retriever resolves lookup keys to validation payloads, serving
// stored payloads when present and downloading them otherwise. It works the
// same over the fake downloader and over any production implementation of
// the Downloader interface.
package retriever

import (
	"errors"
	"io/fs"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/storage"
)

// RetrievedCallback receives the outcome of a Retrieve call. It is invoked
// exactly once per call, on the calling goroutine, before Retrieve returns.
// The data slice is non-nil if and only if success is true.
type RetrievedCallback func(success bool, key string, data []byte)

// Retriever resolves lookup keys through a Downloader and keeps the
// payloads in a Storage, so repeated retrievals of one key stop hitting the
// downloader.
type Retriever struct {
	downloader addressinput.Downloader
	storage    storage.Storage
	urls       addressinput.LookupKeyUtil
}

// New returns a Retriever downloading through d, persisting into s and
// building URLs with urls.
func New(d addressinput.Downloader, s storage.Storage, urls addressinput.LookupKeyUtil) *Retriever {
	return &Retriever{
		downloader: d,
		storage:    s,
		urls:       urls,
	}
}

// Retrieve resolves key and invokes retrieved exactly once before
// returning. A stored payload short-circuits the downloader; a freshly
// downloaded payload is stored first. Failing to store is logged and the
// payload is handed on regardless.
func (r *Retriever) Retrieve(key string, retrieved RetrievedCallback) {
	log := addressinput.GetLogger()

	data, err := r.storage.Get(key)
	if err == nil {
		log.Info("Serving stored payload", "key", key)
		retrieved(true, key, data)
		return
	}
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, addressinput.ErrNotFound{}) {
		log.Error(err, "Reading stored payload", "key", key)
	}

	r.downloader.Download(r.urls.URLForKey(key), func(success bool, url string, data []byte) {
		if !success {
			log.Info("Download failed", "key", key, "url", url)
			retrieved(false, key, nil)
			return
		}
		if err := r.storage.Put(key, data); err != nil {
			log.Error(err, "Storing downloaded payload", "key", key)
		}
		retrieved(true, key, data)
	})
}
