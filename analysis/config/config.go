// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config implements the yaml configuration of the control-flow
// analysis tools and the leveled logging used throughout the analyses.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the options of an analysis run. Fields not present in the
// yaml file keep their zero value; defaults are applied by Load.
type Config struct {
	sourceFile string

	// LogLevel controls the verbosity of the analyses (see LogLevel
	// constants). Defaults to InfoLevel.
	LogLevel int `yaml:"loglevel"`

	// ReportsDir is the directory report files are written to. Relative
	// paths are interpreted relative to the config file. Empty means the
	// working directory.
	ReportsDir string `yaml:"reports-dir"`

	// ReportDot enables writing one dot file per flow graph after pruning.
	ReportDot bool `yaml:"report-dot"`

	// ReportCycles enables reporting recursive call cycles found in the
	// callable call graph.
	ReportCycles bool `yaml:"report-cycles"`
}

// NewDefault returns a config with default values and no source file.
func NewDefault() *Config {
	return &Config{LogLevel: int(InfoLevel)}
}

// Load reads a config from a yaml file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", filename, err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", filename, err)
	}
	cfg.sourceFile = filename
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LogLevel < int(ErrLevel) || c.LogLevel > int(TraceLevel) {
		return fmt.Errorf("loglevel must be between %d and %d, got %d", ErrLevel, TraceLevel, c.LogLevel)
	}
	return nil
}

// SourceFile returns the path the config was loaded from, empty for a
// default config.
func (c *Config) SourceFile() string {
	return c.sourceFile
}

// ReportPath returns the path of a report file, resolving the reports dir
// relative to the config file when both are set.
func (c *Config) ReportPath(name string) string {
	dir := c.ReportsDir
	if dir == "" {
		return name
	}
	if !filepath.IsAbs(dir) && c.sourceFile != "" {
		dir = filepath.Join(filepath.Dir(c.sourceFile), dir)
	}
	return filepath.Join(dir, name)
}
