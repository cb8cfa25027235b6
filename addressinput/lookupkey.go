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

package addressinput

import (
	"strings"
)

// LookupKeyUtil maps between lookup keys and validation data URLs for one
// fixed URL prefix, for example "test:///plain/" + "data/CH/AG".
type LookupKeyUtil struct {
	prefix string
}

// NewLookupKeyUtil returns a utility for the given validation data URL
// prefix. The prefix is matched literally and case sensitively.
func NewLookupKeyUtil(validationDataURL string) LookupKeyUtil {
	return LookupKeyUtil{prefix: validationDataURL}
}

// URLForKey returns the validation data URL for key.
func (u LookupKeyUtil) URLForKey(key string) string {
	return u.prefix + key
}

// KeyForURL returns the lookup key embedded in url. It returns the empty
// string when url does not carry the utility's prefix, and also for the
// prefix alone, which embeds the empty key.
func (u LookupKeyUtil) KeyForURL(url string) string {
	if !u.IsValidationDataURL(url) {
		return ""
	}
	return url[len(u.prefix):]
}

// IsValidationDataURL reports whether url begins with the utility's prefix.
func (u LookupKeyUtil) IsValidationDataURL(url string) bool {
	return strings.HasPrefix(url, u.prefix)
}
