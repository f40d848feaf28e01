// SPDX-License-Identifier: MIT

// Package dataset walks a tree of clean WAV files, runs each through the
// segmented delay pipeline and persists the processed audio plus a per-file
// state-sequence sidecar.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"delayset/internal/log"
	"delayset/internal/noise"
	"delayset/internal/pipeline"
	"delayset/internal/state"
	"delayset/internal/wave"
)

// Output naming shared with the label pass.
const (
	AudioSuffix   = "_multistate.wav"
	SidecarSuffix = "_multistate_metadata.json"
)

// FileMetadata is the per-file sidecar persisted next to the processed
// audio. It is an intermediate artifact: the label pass replays it and then
// deletes it.
type FileMetadata struct {
	File         string                 `json:"file"`
	SegmentCount int                    `json:"segment_count"`
	Sequence     pipeline.StateSequence `json:"sequence"`
}

// Reporter receives one event per finished file, successful or not.
type Reporter interface {
	FileDone(path string, err error)
}

// Result summarizes a batch run so dataset completeness can be audited.
type Result struct {
	Processed int
	Skipped   int
	Failures  map[string]string // relative path -> reason
}

// Builder processes every clean WAV under InputDir into OutputDir,
// mirroring the directory structure. Files are independent, so they run on
// a bounded worker pool; a per-file failure skips that file only.
type Builder struct {
	InputDir     string
	OutputDir    string
	SegmentCount int
	Workers      int
	Seed         int64 // 0 means nondeterministic
	Table        state.DelayTable
	Reporter     Reporter
}

// Discover returns the relative paths of all .wav files under InputDir, in
// walk order. The count feeds the progress display before processing starts.
func (b *Builder) Discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(b.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".wav") {
			return nil
		}
		rel, err := filepath.Rel(b.InputDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: scanning %s: %w", b.InputDir, err)
	}
	return files, nil
}

// Run processes the given files. Only infrastructure failures (unwritable
// output root) abort the run; per-file errors are logged, reported and
// counted as skips.
func (b *Builder) Run(ctx context.Context, files []string) (*Result, error) {
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("dataset: creating output dir: %w", err)
	}

	result := &Result{Failures: make(map[string]string)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Workers)

	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := b.processFile(rel)

			mu.Lock()
			if err != nil {
				log.Errorf("dataset: skipping %s: %v", rel, err)
				result.Skipped++
				result.Failures[rel] = err.Error()
			} else {
				result.Processed++
			}
			mu.Unlock()

			if b.Reporter != nil {
				b.Reporter.FileDone(rel, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// fileSeed derives the noise seed for one file. With a run seed set, the
// seed depends only on the run seed and the file's relative path, so results
// do not change with worker count or completion order.
func (b *Builder) fileSeed(rel string) int64 {
	h := fnv.New64a()
	h.Write([]byte(filepath.ToSlash(rel)))
	return b.Seed ^ int64(h.Sum64())
}

func (b *Builder) processFile(rel string) error {
	buf, err := wave.ReadFile(filepath.Join(b.InputDir, rel))
	if err != nil {
		return err
	}

	var gen *noise.Generator
	if b.Seed == 0 {
		if gen, err = noise.NewRandomGenerator(); err != nil {
			return err
		}
	} else {
		gen = noise.NewGenerator(b.fileSeed(rel))
	}

	pipe, err := pipeline.New(gen, b.Table, b.SegmentCount)
	if err != nil {
		return err
	}
	processed, sequence, err := pipe.Run(buf)
	if err != nil {
		return err
	}

	outDir := filepath.Join(b.OutputDir, filepath.Dir(rel))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("dataset: creating %s: %w", outDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	if err := wave.WriteFile(filepath.Join(outDir, base+AudioSuffix), processed); err != nil {
		return err
	}

	meta := FileMetadata{
		File:         filepath.ToSlash(rel),
		SegmentCount: b.SegmentCount,
		Sequence:     sequence,
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("dataset: encoding sidecar for %s: %w", rel, err)
	}
	sidecar := filepath.Join(outDir, base+SidecarSuffix)
	if err := os.WriteFile(sidecar, raw, 0o644); err != nil {
		return fmt.Errorf("dataset: writing %s: %w", sidecar, err)
	}

	log.Debugf("dataset: processed %s (%d segments)", rel, len(sequence))
	return nil
}
