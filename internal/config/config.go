package config

import (
	"fmt"
	"os"
)

// Core configuration constants defining the defaults for a dataset run.
const (
	DefaultInputDir     = "data/clean"             // Clean source WAV tree
	DefaultOutputDir    = "data/delayed"           // Processed audio + sidecars
	DefaultLabelFile    = "data/delay_labels.json" // Aggregated label records
	DefaultSegmentCount = 10                       // Segments per file
	DefaultSeed         = 0                        // 0 = nondeterministic
	DefaultWorkers      = 4                        // Parallel file workers
	DefaultLogLevel     = "info"
	DefaultProgress     = true // Show TTY progress UI
	DefaultKeepSidecars = false

	MinSegmentCount = 1
	MaxWorkers      = 64
)

// Config holds all runtime options for a dataset run. It is assembled from
// defaults, an optional YAML file and command line flags, in that order.
type Config struct {
	// Paths
	InputDir  string `yaml:"input_dir"`  // Directory of clean .wav sources
	OutputDir string `yaml:"output_dir"` // Destination for processed audio
	LabelFile string `yaml:"label_file"` // Aggregated label JSON path

	// Pipeline
	SegmentCount int   `yaml:"segment_count"` // Segments per source file
	Seed         int64 `yaml:"seed"`          // Run seed, 0 for nondeterministic

	// Execution
	Workers      int    `yaml:"workers"`       // Concurrent file workers
	LogLevel     string `yaml:"log_level"`     // debug|info|warn|error
	Progress     bool   `yaml:"progress"`      // Terminal progress UI
	KeepSidecars bool   `yaml:"keep_sidecars"` // Skip sidecar cleanup (debugging)
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		InputDir:     DefaultInputDir,
		OutputDir:    DefaultOutputDir,
		LabelFile:    DefaultLabelFile,
		SegmentCount: DefaultSegmentCount,
		Seed:         DefaultSeed,
		Workers:      DefaultWorkers,
		LogLevel:     DefaultLogLevel,
		Progress:     DefaultProgress,
		KeepSidecars: DefaultKeepSidecars,
	}
}

// Validate enforces startup invariants. Any failure here is fatal: nothing
// has been processed yet and a partial run would be worse than none.
func (c *Config) Validate() error {
	if c.SegmentCount < MinSegmentCount {
		return fmt.Errorf("config: segment count must be >= %d, got %d", MinSegmentCount, c.SegmentCount)
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("config: workers must be in [1, %d], got %d", MaxWorkers, c.Workers)
	}
	if c.InputDir == "" {
		return fmt.Errorf("config: input directory is required")
	}
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return fmt.Errorf("config: input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("config: input path %s is not a directory", c.InputDir)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output directory is required")
	}
	if c.LabelFile == "" {
		return fmt.Errorf("config: label file path is required")
	}
	return nil
}
