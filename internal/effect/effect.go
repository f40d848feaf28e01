// SPDX-License-Identifier: MIT

// Package effect implements per-segment audio transforms.
package effect

// Effect transforms a single-channel segment, returning a new slice of the
// same length. Implementations must not modify the input.
type Effect interface {
	Apply(segment []float64) []float64
}

// Delay is a single-tap feed-forward delay: the input is mixed with a
// gain-scaled copy of itself offset by a fixed number of samples. There is
// no feedback path and no output clipping; mixed samples may exceed [-1, 1].
type Delay struct {
	delaySamples int
	gain         float64
}

var _ Effect = (*Delay)(nil)

// NewDelay converts delayTime (seconds) to a sample offset at sampleRate,
// truncating toward zero.
func NewDelay(sampleRate int, delayTime, gain float64) *Delay {
	d := int(delayTime * float64(sampleRate))
	if d < 0 {
		d = 0
	}
	return &Delay{delaySamples: d, gain: gain}
}

// DelaySamples returns the tap offset in samples.
func (d *Delay) DelaySamples() int {
	return d.delaySamples
}

// Apply returns a copy of segment with out[i] += gain*segment[i-delay] for
// every i >= delay. A delay of zero mixes each sample with itself; a delay
// at or beyond the segment length leaves the copy untouched.
func (d *Delay) Apply(segment []float64) []float64 {
	out := make([]float64, len(segment))
	copy(out, segment)
	for i := d.delaySamples; i < len(segment); i++ {
		out[i] += d.gain * segment[i-d.delaySamples]
	}
	return out
}
