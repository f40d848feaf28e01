// SPDX-License-Identifier: MIT

// Package analysis computes per-segment acoustic features for label
// records: RMS, zero-crossing rate, spectral centroid/bandwidth/flatness,
// peak amplitude and 13-coefficient MFCC statistics.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"delayset/pkg/bitint"
)

const (
	// DefaultFFTSize gives good frequency resolution at typical rates; the
	// hop is a quarter frame.
	DefaultFFTSize = 2048

	// NumMFCC is the number of cepstral coefficients reported per segment.
	NumMFCC = 13

	numMelFilters = 26

	// logGuard keeps log() away from zero-energy filter outputs.
	logGuard = 1e-10
)

// FeatureVector holds the acoustic features of one audio segment. MFCC
// slices are ordered and always NumMFCC long.
type FeatureVector struct {
	RMS               float64
	ZeroCrossingRate  float64
	SpectralCentroid  float64
	SpectralBandwidth float64
	SpectralFlatness  float64
	PeakAmplitude     float64
	MFCCMean          []float64
	MFCCStd           []float64
}

// Extractor computes feature vectors over framed FFT spectra. All buffers
// are pre-allocated once; an Extractor is tied to one sample rate and is not
// safe for concurrent use.
type Extractor struct {
	sampleRate float64
	fftSize    int
	hopSize    int
	numBins    int

	fft     *fourier.FFT
	window  []float64
	melBank [][]float64
	freqs   []float64

	frame     []float64
	fftOutput []complex128
	magnitude []float64
	power     []float64
}

// NewExtractor builds an extractor with the default frame size.
func NewExtractor(sampleRate int) (*Extractor, error) {
	return NewExtractorSize(sampleRate, DefaultFFTSize)
}

// NewExtractorSize builds an extractor with an explicit frame size, rounded
// up to a power of 2 for the FFT.
func NewExtractorSize(sampleRate, fftSize int) (*Extractor, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("analysis: invalid sample rate %d", sampleRate)
	}
	if fftSize <= 1 {
		return nil, fmt.Errorf("analysis: invalid FFT size %d", fftSize)
	}
	if !bitint.IsPowerOfTwo(fftSize) {
		fftSize = bitint.NextPowerOfTwo(fftSize)
	}

	numBins := fftSize/2 + 1
	e := &Extractor{
		sampleRate: float64(sampleRate),
		fftSize:    fftSize,
		hopSize:    fftSize / 4,
		numBins:    numBins,
		fft:        fourier.NewFFT(fftSize),
		window:     make([]float64, fftSize),
		freqs:      make([]float64, numBins),
		frame:      make([]float64, fftSize),
		fftOutput:  make([]complex128, numBins),
		magnitude:  make([]float64, numBins),
		power:      make([]float64, numBins),
	}

	// Hann window.
	for i := range e.window {
		e.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}
	for i := range e.freqs {
		e.freqs[i] = e.fft.Freq(i) * e.sampleRate
	}
	e.melBank = newMelBank(numMelFilters, fftSize, e.sampleRate)

	return e, nil
}

// Compute returns the feature vector for one single-channel segment.
// Empty segments yield an all-zero vector; segments shorter than a frame
// are zero-padded.
func (e *Extractor) Compute(segment []float64) FeatureVector {
	fv := FeatureVector{
		MFCCMean: make([]float64, NumMFCC),
		MFCCStd:  make([]float64, NumMFCC),
	}
	if len(segment) == 0 {
		return fv
	}

	var sumSq float64
	crossings := 0
	for i, s := range segment {
		sumSq += s * s
		if a := math.Abs(s); a > fv.PeakAmplitude {
			fv.PeakAmplitude = a
		}
		if i > 0 && (segment[i-1] >= 0) != (s >= 0) {
			crossings++
		}
	}
	fv.RMS = math.Sqrt(sumSq / float64(len(segment)))
	fv.ZeroCrossingRate = float64(crossings) / float64(len(segment))

	var centroids, bandwidths, flatnesses []float64
	mfccFrames := make([][]float64, 0, len(segment)/e.hopSize+1)

	for start := 0; start == 0 || start < len(segment); start += e.hopSize {
		e.loadFrame(segment, start)
		_ = e.fft.Coefficients(e.fftOutput, e.frame)
		for i, c := range e.fftOutput {
			m := cmplx.Abs(c)
			e.magnitude[i] = m
			e.power[i] = m * m
		}

		centroid, bandwidth := e.centroidBandwidth()
		centroids = append(centroids, centroid)
		bandwidths = append(bandwidths, bandwidth)
		flatnesses = append(flatnesses, e.flatness())
		mfccFrames = append(mfccFrames, e.mfcc())
	}

	fv.SpectralCentroid = stat.Mean(centroids, nil)
	fv.SpectralBandwidth = stat.Mean(bandwidths, nil)
	fv.SpectralFlatness = stat.Mean(flatnesses, nil)

	coeff := make([]float64, len(mfccFrames))
	for i := 0; i < NumMFCC; i++ {
		for f, frame := range mfccFrames {
			coeff[f] = frame[i]
		}
		fv.MFCCMean[i] = stat.Mean(coeff, nil)
		fv.MFCCStd[i] = math.Sqrt(stat.PopVariance(coeff, nil))
	}

	return fv
}

// loadFrame copies a windowed frame starting at start into the workspace,
// zero-padding past the end of the segment.
func (e *Extractor) loadFrame(segment []float64, start int) {
	n := copy(e.frame, segment[start:])
	for i := n; i < e.fftSize; i++ {
		e.frame[i] = 0
	}
	for i := 0; i < n; i++ {
		e.frame[i] *= e.window[i]
	}
}

// centroidBandwidth returns the magnitude-weighted mean frequency and the
// spread around it for the current frame.
func (e *Extractor) centroidBandwidth() (centroid, bandwidth float64) {
	var magSum, weighted float64
	for i, m := range e.magnitude {
		magSum += m
		weighted += m * e.freqs[i]
	}
	if magSum == 0 {
		return 0, 0
	}
	centroid = weighted / magSum

	var spread float64
	for i, m := range e.magnitude {
		d := e.freqs[i] - centroid
		spread += m * d * d
	}
	return centroid, math.Sqrt(spread / magSum)
}

// flatness returns the geometric-to-arithmetic mean ratio of the power
// spectrum (Wiener entropy): near 1 for noise, near 0 for tones.
func (e *Extractor) flatness() float64 {
	var logSum, sum float64
	for _, p := range e.power {
		logSum += math.Log(p + logGuard)
		sum += p
	}
	n := float64(len(e.power))
	geo := math.Exp(logSum / n)
	arith := sum/n + logGuard
	return geo / arith
}

// mfcc computes NumMFCC cepstral coefficients from the current frame's
// power spectrum: mel filterbank, log compression, then a DCT-II.
func (e *Extractor) mfcc() []float64 {
	logMel := make([]float64, numMelFilters)
	for f, filter := range e.melBank {
		var energy float64
		for i, w := range filter {
			if w != 0 {
				energy += w * e.power[i]
			}
		}
		logMel[f] = math.Log(energy + logGuard)
	}

	out := make([]float64, NumMFCC)
	for i := 0; i < NumMFCC; i++ {
		var sum float64
		for j := 0; j < numMelFilters; j++ {
			sum += logMel[j] * math.Cos(math.Pi*float64(i)*(float64(j)+0.5)/float64(numMelFilters))
		}
		out[i] = sum
	}
	return out
}
