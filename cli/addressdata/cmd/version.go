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

// Build information, set via -ldflags by the release script.
var (
	version   = "devel"
	commit    = "unknown"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and dataset information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return VersionCmd()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func VersionCmd() error {
	fmt.Printf("addressdata %s\n", version)
	fmt.Printf("commit: %s\n", commit)
	fmt.Printf("built: %s\n", buildDate)

	digest, err := regiondata.Default().Digest()
	if err != nil {
		return err
	}
	fmt.Printf("dataset: sha256:%s\n", digest)
	return nil
}
