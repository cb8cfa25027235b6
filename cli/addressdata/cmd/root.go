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
	stdlog "log"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"github.com/Omegaphora/external-chromium-org-third-party-libaddressinput-src/addressinput"
)

// DefaultCacheDir is where dump persists payloads unless told otherwise.
const DefaultCacheDir = "address_cache"

var Verbosity bool
var ConfigFile string

var rootCmd = &cobra.Command{
	Use:   "addressdata",
	Short: "addressdata - a CLI tool for the address validation metadata compiled into the library",
	Long: `addressdata is a CLI tool that serves the address validation metadata compiled into the library.

It resolves the same lookup keys the validation server knows, entirely offline,
and can persist any slice of the dataset for other tools to consume.`,
	Run: func(cmd *cobra.Command, args []string) {
		// show the help message if no command has been used
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&Verbosity, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "path to a TOML configuration file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging maps the configuration onto the CLI logger and hands the
// library a logger once debug output is requested.
func configureLogging(cfg *Config) error {
	if Verbosity {
		log.SetLevel(log.DebugLevel)
	} else if cfg.Log.Level != "" {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	if log.IsLevelEnabled(log.DebugLevel) {
		addressinput.SetLogger(stdr.New(stdlog.New(os.Stderr, "addressinput ", stdlog.LstdFlags)))
	}
	return nil
}
