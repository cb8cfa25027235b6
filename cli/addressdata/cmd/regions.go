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

	"github.com/spf13/cobra"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput/regiondata"
)

var regionsCount bool

var regionsCmd = &cobra.Command{
	Use:     "regions",
	Aliases: []string{"r"},
	Short:   "List the region codes present in the dataset",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RegionsCmd()
	},
}

func init() {
	regionsCmd.Flags().BoolVar(&regionsCount, "count", false, "print only the number of regions")
	rootCmd.AddCommand(regionsCmd)
}

func RegionsCmd() error {
	cfg, err := LoadConfig(ConfigFile)
	if err != nil {
		return err
	}
	if err := configureLogging(cfg); err != nil {
		return err
	}

	codes := regiondata.Default().RegionCodes()
	if regionsCount {
		fmt.Println(len(codes))
		return nil
	}
	for _, code := range codes {
		fmt.Println(code)
	}
	return nil
}
