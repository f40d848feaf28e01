// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default locations searched when no config path is given.
var defaultConfigPaths = []string{"delayset.yaml", "config.yaml"}

// LoadConfig loads configuration from a YAML file. If path is empty, the
// default locations are tried and built-in defaults apply when none exists;
// an explicit path that cannot be read is an error. Environment variables
// override file values, and the result is not yet validated: flags may still
// override it.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	explicit := path != ""
	if !explicit {
		for _, candidate := range defaultConfigPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if explicit {
				return nil, fmt.Errorf("config: reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies DELAYSET_* environment variables on top of the
// file values, mainly for containerized runs.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DELAYSET_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("DELAYSET_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("DELAYSET_LABEL_FILE"); v != "" {
		cfg.LabelFile = v
	}
	if v := os.Getenv("DELAYSET_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DELAYSET_SEGMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SegmentCount = n
		}
	}
	if v := os.Getenv("DELAYSET_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("DELAYSET_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
}
