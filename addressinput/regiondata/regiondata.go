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

// Package regiondata serves the canonical address validation payloads
// compiled into the library. The dataset uses the countryinfo.txt format:
// one record per line, "key=value", where value is one line of JSON with
// string members only. An example line:
//
//	data/CH/AG={"id":"data/CH/AG","key":"AG","name":"Aargau"}
//
// Records whose keys begin with "data/" are additionally grouped into
// aggregate records under their region's "data/XX" key, mirroring what the
// validation server returns for aggregate requests.
package regiondata

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/secure-systems-lab/go-securesystemslib/cjson"
	"golang.org/x/exp/slices"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
)

const (
	// Each data key begins with this prefix, e.g. "data/CH/AG".
	dataKeyPrefix = "data/"

	// The number of characters in a CLDR region code, e.g. "CH".
	cldrRegionCodeLength = 2

	// The number of characters in an aggregate data key, e.g. "data/CH".
	aggregateDataKeyLength = len(dataKeyPrefix) + cldrRegionCodeLength
)

//go:embed countryinfo.txt
var countryinfo []byte

var defaultProvider = sync.OnceValue(func() *Provider {
	p, err := Parse(bytes.NewReader(countryinfo))
	if err != nil {
		panic(fmt.Sprintf("countryinfo.txt: %v", err))
	}
	return p
})

// Default returns the provider for the dataset compiled into the library.
// The dataset is parsed once; later calls return the same provider.
func Default() *Provider {
	return defaultProvider()
}

// Provider holds one parsed dataset: a single record per lookup key plus
// the aggregate records grouping each region's data. A Provider is
// immutable after Parse and safe for concurrent use.
type Provider struct {
	keys      []string
	plain     map[string]string
	aggregate map[string]string
	regions   []string
}

// Parse reads a countryinfo.txt formatted dataset. Records of one region
// must be contiguous, which holds for any dataset sorted by key.
func Parse(r io.Reader) (*Provider, error) {
	p := &Provider{
		plain:     map[string]string{},
		aggregate: map[string]string{},
	}

	// Aggregate key of the group currently being built, if any.
	var openKey string

	line := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		key, value, found := strings.Cut(text, "=")
		if !found || key == "" {
			return nil, addressinput.ErrDataset{Msg: fmt.Sprintf("line %d: want key=value, got %q", line, text)}
		}
		if _, dup := p.plain[key]; dup {
			return nil, addressinput.ErrDataset{Msg: fmt.Sprintf("line %d: duplicate key %q", line, key)}
		}
		p.keys = append(p.keys, key)
		p.plain[key] = value

		// Group keys that begin with "data/" under the region's aggregate
		// key. Keys that begin with "examples/" are not aggregated because
		// the validation server serves no aggregate example data.
		if !strings.HasPrefix(key, dataKeyPrefix) {
			continue
		}
		aggKey := key
		if len(aggKey) > aggregateDataKeyLength {
			aggKey = aggKey[:aggregateDataKeyLength]
		}

		// A record appends to the open group, for example:
		//	, "data/CH/AG": {"id":"data/CH/AG","key":"AG","name":"Aargau"}
		// or closes it and opens the next one.
		member := `"` + key + `": ` + value
		if aggKey == openKey {
			p.aggregate[aggKey] += ", " + member
			continue
		}
		if openKey != "" {
			p.aggregate[openKey] += "}"
		}
		if _, dup := p.aggregate[aggKey]; dup {
			return nil, addressinput.ErrDataset{Msg: fmt.Sprintf("line %d: records of %q are not contiguous", line, aggKey)}
		}
		p.aggregate[aggKey] = "{" + member
		openKey = aggKey
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if openKey != "" {
		p.aggregate[openKey] += "}"
	}

	for _, key := range p.keys {
		if len(key) == aggregateDataKeyLength && strings.HasPrefix(key, dataKeyPrefix) {
			p.regions = append(p.regions, key[len(dataKeyPrefix):])
		}
	}
	slices.Sort(p.regions)

	return p, nil
}

// RegionCodes returns the CLDR region codes present in the dataset, sorted.
// A region is present when its "data/XX" record is.
func (p *Provider) RegionCodes() []string {
	return slices.Clone(p.regions)
}

// Keys returns every lookup key in dataset order.
func (p *Provider) Keys() []string {
	return slices.Clone(p.keys)
}

// Plain returns the single record stored under key.
func (p *Provider) Plain(key string) (string, bool) {
	value, ok := p.plain[key]
	return value, ok
}

// Aggregate returns the aggregate record grouping all records of the region
// named by key, e.g. "data/CH".
func (p *Provider) Aggregate(key string) (string, bool) {
	value, ok := p.aggregate[key]
	return value, ok
}

// Digest returns a stable fingerprint of the dataset: the hex SHA-256 of
// its canonical JSON encoding. Two datasets with the same records yield the
// same digest regardless of record order.
func (p *Provider) Digest() (string, error) {
	records := make(map[string]any, len(p.plain))
	for key, value := range p.plain {
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return "", addressinput.ErrDataset{Msg: fmt.Sprintf("record %q is not valid JSON: %v", key, err)}
		}
		records[key] = v
	}
	encoded, err := cjson.EncodeCanonical(records)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(encoded)
	return hex.EncodeToString(digest[:]), nil
}
