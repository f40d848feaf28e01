// SPDX-License-Identifier: MIT

// Package noise produces the normalized coherent-noise sequences that drive
// segment state and delay-parameter selection. Perlin noise keeps adjacent
// values correlated, so state transitions look organic rather than uniformly
// random.
package noise

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3

	// Each sample point is shifted by an independent uniform offset in
	// [0, offsetSpan) so repeated sequences from one generator diverge.
	offsetSpan = 100.0
)

// ErrDegenerate reports a constant raw batch, for which min-max
// normalization is undefined. Callers fail the current file, not the batch.
var ErrDegenerate = errors.New("noise: constant raw sequence, normalization undefined")

// Generator yields batches of Perlin noise normalized to [0, 1]. The seed is
// the only source of randomness: two generators built from the same seed
// produce identical call-for-call output, and independent generators never
// share state, so concurrent per-file use cannot cross-contaminate.
type Generator struct {
	perlin *perlin.Perlin
	rng    *rand.Rand
}

// NewGenerator returns a generator whose output is a pure function of seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		perlin: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// NewRandomGenerator returns a generator seeded from the OS entropy pool.
// Output is not reproducible across calls.
func NewRandomGenerator() (*Generator, error) {
	var raw [8]byte
	if _, err := cryptorand.Read(raw[:]); err != nil {
		return nil, fmt.Errorf("noise: seeding generator: %w", err)
	}
	return NewGenerator(int64(binary.LittleEndian.Uint64(raw[:]))), nil
}

// Generate returns length noise values in [0, 1]. Each value is sampled at
// index*scale plus a fresh uniform offset, then the whole batch is min-max
// scaled. A constant raw batch returns ErrDegenerate rather than NaN.
func (g *Generator) Generate(length int, scale float64) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("noise: length must be positive, got %d", length)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("noise: scale must be positive, got %g", scale)
	}

	raw := make([]float64, length)
	lo, hi := 0.0, 0.0
	for i := range raw {
		offset := g.rng.Float64() * offsetSpan
		v := g.perlin.Noise1D(float64(i)*scale + offset)
		raw[i] = v
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}

	span := hi - lo
	if span == 0 {
		return nil, ErrDegenerate
	}
	for i, v := range raw {
		raw[i] = (v - lo) / span
	}
	return raw, nil
}
