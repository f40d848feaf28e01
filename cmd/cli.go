package cmd

import (
	"os"

	"delayset/internal/config"
	"delayset/pkg/build"

	"github.com/spf13/cobra"
)

// ParseArgs builds the run configuration from defaults, an optional YAML
// config file and command line flags, in that order. It returns (nil, nil)
// when cobra fully handled the invocation (help, version).
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()

	var (
		configPath string
		options    *config.Config
	)

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Generate delay-effect transition training data from clean audio",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags win over file and environment values, but only when
			// given explicitly.
			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.InputDir, _ = flags.GetString("input")
			}
			if flags.Changed("output") {
				cfg.OutputDir, _ = flags.GetString("output")
			}
			if flags.Changed("labels") {
				cfg.LabelFile, _ = flags.GetString("labels")
			}
			if flags.Changed("segments") {
				cfg.SegmentCount, _ = flags.GetInt("segments")
			}
			if flags.Changed("seed") {
				cfg.Seed, _ = flags.GetInt64("seed")
			}
			if flags.Changed("workers") {
				cfg.Workers, _ = flags.GetInt("workers")
			}
			if flags.Changed("log-level") {
				cfg.LogLevel, _ = flags.GetString("log-level")
			}
			if flags.Changed("no-progress") {
				noProgress, _ := flags.GetBool("no-progress")
				cfg.Progress = !noProgress
			}
			if flags.Changed("keep-sidecars") {
				cfg.KeepSidecars, _ = flags.GetBool("keep-sidecars")
			}

			options = cfg
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.Flags().StringVar(&configPath, "config", "",
		"Path to a YAML config file. Defaults to delayset.yaml when present.")

	// Paths
	rootCmd.Flags().StringP("input", "i", config.DefaultInputDir,
		"Directory containing clean .wav source files")
	rootCmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory for processed audio, mirroring the input layout")
	rootCmd.Flags().StringP("labels", "l", config.DefaultLabelFile,
		"Path of the aggregated label JSON file")

	// Pipeline Configuration
	rootCmd.Flags().IntP("segments", "n", config.DefaultSegmentCount,
		"Number of segments each file is split into")
	rootCmd.Flags().Int64P("seed", "s", config.DefaultSeed,
		"Run seed for reproducible output (0 = nondeterministic)")

	// Execution Configuration
	rootCmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of files processed concurrently")
	rootCmd.Flags().String("log-level", config.DefaultLogLevel,
		"Log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("no-progress", false,
		"Disable the terminal progress view")
	rootCmd.Flags().Bool("keep-sidecars", config.DefaultKeepSidecars,
		"Keep intermediate per-file metadata instead of deleting it")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}
