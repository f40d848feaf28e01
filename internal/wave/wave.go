// SPDX-License-Identifier: MIT

// Package wave reads and writes WAV files as channel-major float64 buffers.
package wave

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Buffer holds decoded audio as one float64 slice per channel, nominally in
// [-1, 1], plus the source sample rate. Buffers are treated as immutable;
// processing produces new buffers.
type Buffer struct {
	Channels   [][]float64
	SampleRate int
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// NumSamples returns the per-channel sample count.
func (b *Buffer) NumSamples() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// ReadFile decodes a WAV file into a Buffer, scaling integer PCM to
// [-1, 1] by the source bit depth.
func ReadFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wave: opening %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wave: decoding %s: %w", path, err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("wave: %s: missing format chunk", path)
	}
	if pcm.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("wave: %s: invalid sample rate %d", path, pcm.Format.SampleRate)
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	numCh := pcm.Format.NumChannels
	frames := len(pcm.Data) / numCh
	channels := make([][]float64, numCh)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numCh; c++ {
			channels[c][i] = float64(pcm.Data[i*numCh+c]) / scale
		}
	}

	return &Buffer{Channels: channels, SampleRate: pcm.Format.SampleRate}, nil
}

// WriteFile encodes a Buffer as 16-bit PCM WAV. Float samples outside
// [-1, 1] saturate at the integer bounds; in-memory data is never clamped.
func WriteFile(path string, b *Buffer) error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("wave: invalid sample rate %d", b.SampleRate)
	}
	if b.NumChannels() == 0 {
		return fmt.Errorf("wave: buffer has no channels")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wave: creating %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, b.SampleRate, 16, b.NumChannels(), 1)

	numCh := b.NumChannels()
	frames := b.NumSamples()
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numCh,
			SampleRate:  b.SampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, frames*numCh),
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numCh; c++ {
			ib.Data[i*numCh+c] = clampPCM16(b.Channels[c][i])
		}
	}

	if err := enc.Write(ib); err != nil {
		f.Close()
		return fmt.Errorf("wave: writing %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wave: finalizing %s: %w", path, err)
	}
	return f.Close()
}

func clampPCM16(v float64) int {
	s := int(v * 32767.0)
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return s
}
