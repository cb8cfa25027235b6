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

package cmd

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/fakedownloader"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/retriever"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/storage"
)

var getAggregate bool
var getCacheDir string

var getCmd = &cobra.Command{
	Use:     "get <key>",
	Aliases: []string{"g"},
	Short:   "Resolve a lookup key and print its validation payload",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return GetCmd(args[0])
	},
}

func init() {
	getCmd.Flags().BoolVarP(&getAggregate, "aggregate", "a", false, "resolve the aggregate payload covering the key's region")
	getCmd.Flags().StringVar(&getCacheDir, "cache-dir", "", "persist payloads below this directory and serve them from there on later runs")
	rootCmd.AddCommand(getCmd)
}

func GetCmd(key string) error {
	cfg, err := LoadConfig(ConfigFile)
	if err != nil {
		return err
	}
	if err := configureLogging(cfg); err != nil {
		return err
	}

	prefix := fakedownloader.DataURLPrefix
	if getAggregate {
		prefix = fakedownloader.AggregateDataURLPrefix
	}
	urls := addressinput.NewLookupKeyUtil(prefix)
	downloader := fakedownloader.New()

	var payload []byte
	var failedURL string
	handle := func(success bool, url string, data []byte) {
		if !success {
			failedURL = url
			return
		}
		payload = data
	}

	if getCacheDir == "" {
		downloader.Download(urls.URLForKey(key), handle)
	} else {
		// Plain and aggregate payloads share keys, so each shape caches
		// below its own directory.
		store, err := storage.New(afero.NewOsFs(), filepath.Join(getCacheDir, shapeDir(getAggregate)))
		if err != nil {
			return fmt.Errorf("failed to open cache directory: %w", err)
		}
		retriever.New(downloader, store, urls).Retrieve(key, func(success bool, key string, data []byte) {
			handle(success, urls.URLForKey(key), data)
		})
	}

	if payload == nil {
		return fmt.Errorf("no payload for %s", failedURL)
	}
	log.Debug("Resolved ", key)
	fmt.Println(string(payload))
	return nil
}

// shapeDir names the cache subdirectory for one payload shape.
func shapeDir(aggregate bool) string {
	if aggregate {
		return "aggregate"
	}
	return "plain"
}
