// SPDX-License-Identifier: MIT
package effect

import (
	"math"
	"testing"
)

func almostEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestDelayExactFormula(t *testing.T) {
	// 8 samples at 8 Hz with a 2-sample delay and known gain: every output
	// sample must follow out[i] = in[i] + gain*in[i-2] exactly.
	input := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	fx := NewDelay(8, 0.25, 0.5) // 0.25s * 8Hz = 2 samples

	if fx.DelaySamples() != 2 {
		t.Fatalf("DelaySamples = %d, expected 2", fx.DelaySamples())
	}

	got := fx.Apply(input)
	expected := []float64{1, 2, 3.5, 5, 6.5, 8, 9.5, 11}
	if !almostEqual(got, expected, 1e-12) {
		t.Errorf("Apply = %v, expected %v", got, expected)
	}
}

func TestDelayZeroIsSelfMix(t *testing.T) {
	// A zero-sample offset mixes every sample with itself:
	// out[i] = in[i] + gain*in[i].
	input := []float64{1, -1, 0.5, 0}
	fx := NewDelay(100, 0, 0.5)

	got := fx.Apply(input)
	expected := []float64{1.5, -1.5, 0.75, 0}
	if !almostEqual(got, expected, 1e-12) {
		t.Errorf("Apply = %v, expected %v", got, expected)
	}
}

func TestDelayBeyondSegmentIsCopy(t *testing.T) {
	input := []float64{0.1, 0.2, 0.3}
	fx := NewDelay(1000, 1.0, 0.5) // 1000 samples >> len(input)

	got := fx.Apply(input)
	if !almostEqual(got, input, 0) {
		t.Errorf("Apply = %v, expected unmodified copy %v", got, input)
	}
}

func TestDelayEmptySegment(t *testing.T) {
	fx := NewDelay(44100, 0.1, 0.5)
	if got := fx.Apply(nil); len(got) != 0 {
		t.Errorf("Apply(nil) returned %d samples, expected 0", len(got))
	}
}

func TestDelayDoesNotModifyInput(t *testing.T) {
	input := []float64{1, 2, 3, 4}
	fx := NewDelay(4, 0.25, 0.5)

	_ = fx.Apply(input)
	if !almostEqual(input, []float64{1, 2, 3, 4}, 0) {
		t.Errorf("input modified in place: %v", input)
	}
}

func TestDelayNoClipping(t *testing.T) {
	// Mixed samples may exceed [-1, 1]; the effect must not clamp them.
	input := []float64{1, 1}
	fx := NewDelay(2, 0, 1.0)

	got := fx.Apply(input)
	if got[0] != 2 || got[1] != 2 {
		t.Errorf("Apply = %v, expected unclamped [2 2]", got)
	}
}

func TestDelayTruncatesSampleConversion(t *testing.T) {
	// floor, not round: 0.0039s at 44100 Hz is 171.99 samples -> 171.
	fx := NewDelay(44100, 0.0039, 0.5)
	if fx.DelaySamples() != 171 {
		t.Errorf("DelaySamples = %d, expected 171", fx.DelaySamples())
	}
}
