// SPDX-License-Identifier: MIT

// Package label replays state-sequence sidecars against their processed
// audio and emits the final supervised-learning records, including the
// next-state transition target.
package label

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"delayset/internal/analysis"
	"delayset/internal/dataset"
	"delayset/internal/log"
	"delayset/internal/pipeline"
	"delayset/internal/state"
	"delayset/internal/wave"
)

// Record is one training-data row: identity of the segment, the state and
// delay applied to it, its acoustic features, and the following segment's
// state when there is one. The last segment of a file has no NextState.
type Record struct {
	RelativePath      string      `json:"relative_path"`
	Duration          float64     `json:"duration"`
	SampleRate        int         `json:"sample_rate"`
	Channels          int         `json:"channels"`
	State             state.State `json:"state"`
	DelayTimeMs       float64     `json:"delay_time_ms"`
	SegmentIndex      int         `json:"segment_index"`
	RMS               float64     `json:"rms"`
	ZeroCrossingRate  float64     `json:"zero_crossing_rate"`
	SpectralCentroid  float64     `json:"spectral_centroid"`
	SpectralBandwidth float64     `json:"spectral_bandwidth"`
	SpectralFlatness  float64     `json:"spectral_flatness"`
	PeakAmplitude     float64     `json:"peak_amplitude"`
	MFCCMean          []float64   `json:"mfcc_mean"`
	MFCCStd           []float64   `json:"mfcc_std"`
	NextState         state.State `json:"next_state,omitempty"`
}

// Extractor scans AudioDir for sidecars, loads the matching processed WAV
// and assembles label records. Missing or unreadable files are reported and
// skipped without emitting partial records.
type Extractor struct {
	AudioDir   string
	OutputFile string
}

// Run produces the aggregated label file and returns the records written
// along with the number of sidecars skipped.
func (e *Extractor) Run() ([]Record, int, error) {
	sidecars, err := e.findSidecars()
	if err != nil {
		return nil, 0, err
	}

	var records []Record
	skipped := 0
	for _, sidecar := range sidecars {
		recs, err := e.extractFile(sidecar)
		if err != nil {
			log.Errorf("label: skipping %s: %v", sidecar, err)
			skipped++
			continue
		}
		records = append(records, recs...)
	}

	if err := os.MkdirAll(filepath.Dir(e.OutputFile), 0o755); err != nil {
		return nil, skipped, fmt.Errorf("label: creating output dir: %w", err)
	}
	raw, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, skipped, fmt.Errorf("label: encoding records: %w", err)
	}
	if err := os.WriteFile(e.OutputFile, raw, 0o644); err != nil {
		return nil, skipped, fmt.Errorf("label: writing %s: %w", e.OutputFile, err)
	}

	return records, skipped, nil
}

// Cleanup deletes every sidecar under AudioDir. Called once the aggregated
// label file exists; failures are logged, not fatal.
func (e *Extractor) Cleanup() {
	sidecars, err := e.findSidecars()
	if err != nil {
		log.Errorf("label: cleanup scan: %v", err)
		return
	}
	for _, sidecar := range sidecars {
		if err := os.Remove(sidecar); err != nil {
			log.Errorf("label: deleting %s: %v", sidecar, err)
		}
	}
	log.Debugf("label: removed %d sidecar files", len(sidecars))
}

func (e *Extractor) findSidecars() ([]string, error) {
	var sidecars []string
	err := filepath.WalkDir(e.AudioDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), dataset.SidecarSuffix) {
			sidecars = append(sidecars, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("label: scanning %s: %w", e.AudioDir, err)
	}
	return sidecars, nil
}

// extractFile replays one sidecar against its processed audio file.
func (e *Extractor) extractFile(sidecar string) ([]Record, error) {
	raw, err := os.ReadFile(sidecar)
	if err != nil {
		return nil, err
	}
	var meta dataset.FileMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parsing sidecar: %w", err)
	}
	if meta.SegmentCount <= 0 {
		return nil, fmt.Errorf("sidecar has invalid segment count %d", meta.SegmentCount)
	}
	// A descriptor count that disagrees with segment_count would drive the
	// boundary recomputation past the buffer.
	if len(meta.Sequence) != meta.SegmentCount {
		return nil, fmt.Errorf("sidecar has %d descriptors for segment count %d", len(meta.Sequence), meta.SegmentCount)
	}

	audioPath := strings.TrimSuffix(sidecar, dataset.SidecarSuffix) + dataset.AudioSuffix
	buf, err := wave.ReadFile(audioPath)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(e.AudioDir, audioPath)
	if err != nil {
		return nil, err
	}

	extractor, err := analysis.NewExtractor(buf.SampleRate)
	if err != nil {
		return nil, err
	}

	return buildRecords(buf, filepath.ToSlash(rel), meta, extractor), nil
}

// buildRecords recomputes segment boundaries with the pipeline's rule,
// computes features on channel 0 only, and chains next_state from the
// following descriptor.
func buildRecords(buf *wave.Buffer, relPath string, meta dataset.FileMetadata, extractor *analysis.Extractor) []Record {
	mono := buf.Channels[0]
	total := len(mono)

	records := make([]Record, 0, len(meta.Sequence))
	for i, desc := range meta.Sequence {
		start, end := pipeline.Bounds(total, meta.SegmentCount, i)
		segment := mono[start:end]
		fv := extractor.Compute(segment)

		rec := Record{
			RelativePath:      relPath,
			Duration:          float64(len(segment)) / float64(buf.SampleRate),
			SampleRate:        buf.SampleRate,
			Channels:          buf.NumChannels(),
			State:             desc.State,
			DelayTimeMs:       desc.DelayTime * 1000,
			SegmentIndex:      desc.SegmentIndex,
			RMS:               fv.RMS,
			ZeroCrossingRate:  fv.ZeroCrossingRate,
			SpectralCentroid:  fv.SpectralCentroid,
			SpectralBandwidth: fv.SpectralBandwidth,
			SpectralFlatness:  fv.SpectralFlatness,
			PeakAmplitude:     fv.PeakAmplitude,
			MFCCMean:          fv.MFCCMean,
			MFCCStd:           fv.MFCCStd,
		}
		if i < len(meta.Sequence)-1 {
			rec.NextState = meta.Sequence[i+1].State
		}
		records = append(records, rec)
	}
	return records
}
