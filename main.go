package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"delayset/cmd"
	"delayset/internal/dataset"
	"delayset/internal/label"
	"delayset/internal/log"
	"delayset/internal/state"
	"delayset/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// main drives one dataset run in three phases:
//
//  1. Startup: parse flags/config, validate, set up signal handling.
//     Configuration errors are fatal here, before anything is touched.
//  2. Effect pass: every clean WAV is segmented, delay-processed and written
//     out with its state-sequence sidecar (parallel across files).
//  3. Label pass: sidecars are replayed against the processed audio to
//     produce the aggregated label records, then deleted.
func main() {
	// ==================== STARTUP PHASE ====================

	cfg, err := cmd.ParseArgs()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg == nil {
		// Help or version output already handled.
		return
	}

	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ==================== EFFECT PASS ====================

	builder := &dataset.Builder{
		InputDir:     cfg.InputDir,
		OutputDir:    cfg.OutputDir,
		SegmentCount: cfg.SegmentCount,
		Workers:      cfg.Workers,
		Seed:         cfg.Seed,
		Table:        state.NewDelayTable(),
	}

	files, err := builder.Discover()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(files) == 0 {
		log.Warnf("no .wav files found under %s", cfg.InputDir)
		return
	}
	log.Infof("processing %d files from %s", len(files), cfg.InputDir)

	var result *dataset.Result
	if cfg.Progress && isatty.IsTerminal(os.Stdout.Fd()) {
		reporter := tui.NewReporter(len(files))
		builder.Reporter = reporter

		// Silence log lines while the progress view owns the terminal.
		// Per-file failures still reach the view via the reporter and the
		// summary below.
		if null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0); err == nil {
			log.SetOutput(null)
			defer null.Close()
		}

		program := tea.NewProgram(tui.NewProgressModel(len(files), reporter.Events()))
		runErr := make(chan error, 1)
		go func() {
			res, err := builder.Run(ctx, files)
			result = res
			reporter.Close()
			runErr <- err
		}()
		_, viewErr := program.Run()
		log.SetOutput(os.Stderr)
		if viewErr != nil {
			log.Warnf("progress view failed: %v", viewErr)
		}
		if err := <-runErr; err != nil {
			log.Fatalf("batch aborted: %v", err)
		}
	} else {
		builder.Reporter = &logReporter{total: len(files)}
		if result, err = builder.Run(ctx, files); err != nil {
			log.Fatalf("batch aborted: %v", err)
		}
	}
	log.Infof("delay effect applied: %d processed, %d skipped", result.Processed, result.Skipped)

	// ==================== LABEL PASS ====================

	extractor := &label.Extractor{
		AudioDir:   cfg.OutputDir,
		OutputFile: cfg.LabelFile,
	}
	records, skipped, err := extractor.Run()
	if err != nil {
		log.Fatalf("label extraction: %v", err)
	}
	log.Infof("wrote %d label records to %s (%d sidecars skipped)", len(records), cfg.LabelFile, skipped)

	if !cfg.KeepSidecars {
		extractor.Cleanup()
	}

	// Surface every per-file failure once more so dataset completeness can
	// be audited from the tail of the log.
	for rel, reason := range result.Failures {
		log.Warnf("incomplete dataset: %s: %s", rel, reason)
	}
}

// logReporter is the non-TTY progress fallback: one log line per file.
type logReporter struct {
	total int
	done  atomic.Int64
}

func (r *logReporter) FileDone(path string, err error) {
	n := r.done.Add(1)
	if err == nil {
		log.Infof("[%d/%d] %s", n, r.total, path)
	}
}
