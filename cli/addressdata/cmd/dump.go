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

	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/fakedownloader"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/regiondata"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/retriever"
	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/storage"
)

var dumpJobs int
var dumpAggregate bool
var dumpQuiet bool

var dumpCmd = &cobra.Command{
	Use:     "dump [directory]",
	Aliases: []string{"d"},
	Short:   "Persist every payload in the dataset below a directory",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return DumpCmd(dir)
	},
}

func init() {
	dumpCmd.Flags().IntVarP(&dumpJobs, "jobs", "j", 0, "number of concurrent retrievals (defaults to dump.jobs from the configuration)")
	dumpCmd.Flags().BoolVarP(&dumpAggregate, "aggregate", "a", false, "dump the aggregate payloads, one per region")
	dumpCmd.Flags().BoolVarP(&dumpQuiet, "quiet", "q", false, "no progress bar")
	rootCmd.AddCommand(dumpCmd)
}

func DumpCmd(dir string) error {
	cfg, err := LoadConfig(ConfigFile)
	if err != nil {
		return err
	}
	if err := configureLogging(cfg); err != nil {
		return err
	}

	if dir == "" {
		dir = cfg.Dump.Dir
	}
	jobs := cfg.Dump.Jobs
	if dumpJobs > 0 {
		jobs = dumpJobs
	}
	aggregate := dumpAggregate || cfg.Dump.Aggregate

	provider := regiondata.Default()
	prefix := fakedownloader.DataURLPrefix
	keys := provider.Keys()
	if aggregate {
		prefix = fakedownloader.AggregateDataURLPrefix
		keys = nil
		for _, code := range provider.RegionCodes() {
			keys = append(keys, "data/"+code)
		}
	}

	store, err := storage.New(afero.NewOsFs(), filepath.Join(dir, shapeDir(aggregate)))
	if err != nil {
		return fmt.Errorf("failed to open dump directory: %w", err)
	}
	r := retriever.New(fakedownloader.New(), store, addressinput.NewLookupKeyUtil(prefix))

	var bar *pb.ProgressBar
	if !dumpQuiet {
		bar = pb.StartNew(len(keys))
	}

	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			var dumpErr error
			r.Retrieve(key, func(success bool, key string, data []byte) {
				if !success {
					dumpErr = fmt.Errorf("no payload for key %s", key)
				}
			})
			if bar != nil {
				bar.Increment()
			}
			return dumpErr
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	log.Infof("Dumped %d payloads below %s", len(keys), dir)
	return nil
}
