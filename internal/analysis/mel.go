// SPDX-License-Identifier: MIT
package analysis

import "math"

// HTK-style mel scale.
func hzToMel(f float64) float64 {
	return 2595.0 * math.Log10(1.0+f/700.0)
}

func melToHz(m float64) float64 {
	return 700.0 * (math.Pow(10.0, m/2595.0) - 1.0)
}

// newMelBank builds numFilters triangular filters spanning 0..sampleRate/2,
// mel-spaced, as per-bin weights over the fftSize/2+1 magnitude bins.
func newMelBank(numFilters, fftSize int, sampleRate float64) [][]float64 {
	numBins := fftSize/2 + 1
	melHi := hzToMel(sampleRate / 2)

	// numFilters+2 mel-spaced edge points, converted back to FFT bins.
	edges := make([]float64, numFilters+2)
	for i := range edges {
		hz := melToHz(melHi * float64(i) / float64(numFilters+1))
		edges[i] = hz * float64(fftSize) / sampleRate
	}

	bank := make([][]float64, numFilters)
	for f := 0; f < numFilters; f++ {
		filter := make([]float64, numBins)
		lo, center, hi := edges[f], edges[f+1], edges[f+2]
		for b := 0; b < numBins; b++ {
			x := float64(b)
			switch {
			case x <= lo || x >= hi:
				// outside the triangle
			case x < center:
				if center > lo {
					filter[b] = (x - lo) / (center - lo)
				}
			default:
				if hi > center {
					filter[b] = (hi - x) / (hi - center)
				}
			}
		}
		bank[f] = filter
	}
	return bank
}
