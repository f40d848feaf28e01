// SPDX-License-Identifier: MIT

// Package pipeline splits an audio buffer into a fixed number of segments
// and applies a noise-driven delay state to each one.
package pipeline

import (
	"fmt"

	"delayset/internal/effect"
	"delayset/internal/state"
	"delayset/internal/wave"
)

// Noise scales and the delay mix gain are fixed pipeline parameters, not
// user configuration: changing them changes the dataset distribution.
const (
	stateNoiseScale = 0.3
	delayNoiseScale = 0.4
	delayGain       = 0.5
)

// Source yields normalized noise sequences. Satisfied by *noise.Generator;
// tests substitute fixed sequences.
type Source interface {
	Generate(length int, scale float64) ([]float64, error)
}

// SegmentDescriptor records the state and delay time applied to one segment.
type SegmentDescriptor struct {
	SegmentIndex int         `json:"segment_index"`
	State        state.State `json:"state"`
	DelayTime    float64     `json:"delay_time"`
}

// StateSequence is the ordered per-segment descriptor list for one file.
type StateSequence []SegmentDescriptor

// Bounds returns the half-open [start, end) sample range of segment i when
// total samples split into count segments. Segments 0..count-2 get
// floor(total/count) samples each; the last absorbs the remainder, so the
// segments always cover the buffer exactly. The label pass recomputes
// boundaries from persisted audio with this same rule, so the two must not
// drift apart.
func Bounds(total, count, i int) (start, end int) {
	segLen := total / count
	start = i * segLen
	end = start + segLen
	if i == count-1 {
		end = total
	}
	return start, end
}

// Pipeline applies the segmented multi-state delay to whole buffers.
type Pipeline struct {
	src          Source
	sel          *state.Selector
	segmentCount int
}

// New builds a pipeline. The noise source and delay table are injected so
// seeded runs are a pure function of their inputs.
func New(src Source, table state.DelayTable, segmentCount int) (*Pipeline, error) {
	if segmentCount <= 0 {
		return nil, fmt.Errorf("pipeline: segment count must be positive, got %d", segmentCount)
	}
	sel, err := state.NewSelector(table)
	if err != nil {
		return nil, err
	}
	return &Pipeline{src: src, sel: sel, segmentCount: segmentCount}, nil
}

// Run processes one buffer: a single noise draw (scale 0.3) fixes every
// segment's state up front, then each segment draws a fresh independent
// sequence (scale 0.4) and reads only its own index to pick the delay time.
// The redraw per segment decouples the delay pick from the state noise and
// is part of the dataset's observable behavior. Segments shorter than the
// delay, or empty ones, pass through unchanged.
func (p *Pipeline) Run(buf *wave.Buffer) (*wave.Buffer, StateSequence, error) {
	if buf.SampleRate <= 0 {
		return nil, nil, fmt.Errorf("pipeline: invalid sample rate %d", buf.SampleRate)
	}
	if buf.NumChannels() == 0 {
		return nil, nil, fmt.Errorf("pipeline: buffer has no channels")
	}

	total := buf.NumSamples()
	stateNoise, err := p.src.Generate(p.segmentCount, stateNoiseScale)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: state noise: %w", err)
	}

	processed := &wave.Buffer{
		SampleRate: buf.SampleRate,
		Channels:   make([][]float64, buf.NumChannels()),
	}
	for c := range processed.Channels {
		processed.Channels[c] = make([]float64, 0, total)
	}
	sequence := make(StateSequence, 0, p.segmentCount)

	for i := 0; i < p.segmentCount; i++ {
		start, end := Bounds(total, p.segmentCount, i)
		st := state.Classify(stateNoise[i])

		delayNoise, err := p.src.Generate(p.segmentCount, delayNoiseScale)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: delay noise for segment %d: %w", i, err)
		}
		delayTime, err := p.sel.Select(st, delayNoise[i])
		if err != nil {
			return nil, nil, err
		}

		fx := effect.NewDelay(buf.SampleRate, delayTime, delayGain)
		for c, ch := range buf.Channels {
			processed.Channels[c] = append(processed.Channels[c], fx.Apply(ch[start:end])...)
		}

		sequence = append(sequence, SegmentDescriptor{
			SegmentIndex: i,
			State:        st,
			DelayTime:    delayTime,
		})
	}

	return processed, sequence, nil
}
