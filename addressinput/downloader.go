// Copyright (C) 2023 Google Inc.
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

// Package addressinput holds the core contracts for fetching address
// validation metadata: the Downloader abstraction, the callback through
// which every download reports its outcome, and the lookup key utilities
// shared by downloader implementations.
package addressinput

// DownloadedCallback receives the outcome of a Download call. It is invoked
// exactly once per call, on the calling goroutine, before Download returns.
// The data slice is non-nil if and only if success is true, and is owned by
// the callback: the downloader allocates it per call and keeps no reference.
// A nil slice always means "no data", never an empty record.
type DownloadedCallback func(success bool, url string, data []byte)

// Downloader fetches the validation data stored at url. Implementations
// report the outcome only through the downloaded callback, echo url back
// unchanged, and must not panic on malformed input.
type Downloader interface {
	Download(url string, downloaded DownloadedCallback)
}
