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
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [directory]",
	Short: "Deletes a cache directory. Warning: this removes both the plain and aggregate payload folders and all of their contents",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := DefaultCacheDir
		if len(args) > 0 {
			dir = args[0]
		}
		return CleanCmd(dir)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func CleanCmd(dir string) error {
	for _, shape := range []string{"plain", "aggregate"} {
		p := filepath.Join(dir, shape)
		if _, err := os.Stat(p); err != nil {
			continue
		}

		// warning: deletes the payload folder and all of its contents
		fmt.Printf("Warning: Are you sure you want to delete the \"%s\" folder and all of its contents? (y/n)\n", p)
		if askForConfirmation() {
			if err := os.RemoveAll(p); err != nil {
				return fmt.Errorf("failed to delete folder %s: %w", p, err)
			}
			fmt.Printf("Folder %s was successfully deleted\n", p)
		} else {
			fmt.Printf("Folder \"%s\" was not deleted\n", p)
		}
	}
	return nil
}

func askForConfirmation() bool {
	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		log.Fatal(err)
	}
	switch strings.ToLower(response) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		fmt.Println("I'm sorry but I didn't get what you meant, please type (y)es or (n)o and then press enter:")
		return askForConfirmation()
	}
}
