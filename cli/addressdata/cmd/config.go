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
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the addressdata configuration read from the file given with
// --config. Flags override values set here.
type Config struct {
	Log  LogConfig  `toml:"log"`
	Dump DumpConfig `toml:"dump"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// DumpConfig configures the dump command.
type DumpConfig struct {
	Dir       string `toml:"dir"`
	Jobs      int    `toml:"jobs"`
	Aggregate bool   `toml:"aggregate"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Log:  LogConfig{Level: "info"},
		Dump: DumpConfig{Dir: DefaultCacheDir, Jobs: 4},
	}
}

// Check validates the configuration.
func (c *Config) Check() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %s", c.Log.Level)
	}
	if c.Dump.Dir == "" {
		return errors.New("dump.dir must not be empty")
	}
	if c.Dump.Jobs < 1 {
		return errors.New("dump.jobs must be at least 1")
	}
	return nil
}

// LoadConfig reads path and returns the parsed configuration on top of the
// defaults. An empty path returns the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown configuration keys: %v", undecoded)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}
