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

// Package fakedownloader resolves validation data URLs from the dataset
// compiled into the library, for tests and offline use, without touching
// the network. It answers the same lookup keys the validation server knows,
// under fake URL prefixes.
package fakedownloader

import (
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/regiondata"
)

const (
	// DataURLPrefix is the URL prefix for single records, for example
	// "test:///plain/data/CH/AG".
	DataURLPrefix = "test:///plain/"

	// AggregateDataURLPrefix is the URL prefix for aggregate records
	// grouping all of a region's data, for example
	// "test:///aggregate/data/CH".
	AggregateDataURLPrefix = "test:///aggregate/"
)

// emptyDictionary is what the validation server returns, with status 200,
// for recognized URLs that have no data.
const emptyDictionary = "{}"

// FakeDownloader is a Downloader serving canonical validation payloads.
// URLs under DataURLPrefix resolve to single records and URLs under
// AggregateDataURLPrefix to aggregate records; a recognized URL whose key
// has no record resolves to "{}", exactly like the validation server. Any
// other URL fails. A FakeDownloader is immutable after construction and
// safe for concurrent use.
type FakeDownloader struct {
	provider      *regiondata.Provider
	plainURLs     addressinput.LookupKeyUtil
	aggregateURLs addressinput.LookupKeyUtil
}

// New returns a FakeDownloader serving the dataset compiled into the
// library.
func New() *FakeDownloader {
	return NewWithProvider(regiondata.Default())
}

// NewWithProvider returns a FakeDownloader serving the records of p.
func NewWithProvider(p *regiondata.Provider) *FakeDownloader {
	return &FakeDownloader{
		provider:      p,
		plainURLs:     addressinput.NewLookupKeyUtil(DataURLPrefix),
		aggregateURLs: addressinput.NewLookupKeyUtil(AggregateDataURLPrefix),
	}
}

// Download resolves url and invokes downloaded exactly once before
// returning. The outcome depends on nothing but url.
func (d *FakeDownloader) Download(url string, downloaded addressinput.DownloadedCallback) {
	var lookup func(string) (string, bool)
	var urls addressinput.LookupKeyUtil
	switch {
	case d.plainURLs.IsValidationDataURL(url):
		urls, lookup = d.plainURLs, d.provider.Plain
	case d.aggregateURLs.IsValidationDataURL(url):
		urls, lookup = d.aggregateURLs, d.provider.Aggregate
	default:
		addressinput.GetLogger().Info("Not a fake data URL", "url", url)
		downloaded(false, url, nil)
		return
	}

	key := urls.KeyForURL(url)
	payload, ok := lookup(key)
	if !ok {
		addressinput.GetLogger().Info("No record for key, serving empty dictionary", "key", key)
		payload = emptyDictionary
	}
	downloaded(true, url, []byte(payload))
}
