// SPDX-License-Identifier: MIT
package noise

import (
	"errors"
	"testing"
)

func TestGenerateLengthAndRange(t *testing.T) {
	gen := NewGenerator(42)

	seq, err := gen.Generate(64, 0.3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(seq) != 64 {
		t.Fatalf("len = %d, expected 64", len(seq))
	}
	for i, v := range seq {
		if v < 0 || v > 1 {
			t.Errorf("seq[%d] = %g, outside [0, 1]", i, v)
		}
	}
}

func TestGenerateNormalizesToFullRange(t *testing.T) {
	gen := NewGenerator(7)

	seq, err := gen.Generate(32, 0.3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Min-max scaling pins the batch extremes to exactly 0 and 1.
	var sawZero, sawOne bool
	for _, v := range seq {
		if v == 0 {
			sawZero = true
		}
		if v == 1 {
			sawOne = true
		}
	}
	if !sawZero || !sawOne {
		t.Errorf("normalized batch missing extremes: sawZero=%v sawOne=%v", sawZero, sawOne)
	}
}

func TestGenerateSeededReproducibility(t *testing.T) {
	a, err := NewGenerator(1234).Generate(20, 0.4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := NewGenerator(1234).Generate(20, 0.4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %g vs %g", i, a[i], b[i])
		}
	}
}

func TestGenerateSeedsDiverge(t *testing.T) {
	a, err := NewGenerator(1).Generate(20, 0.4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := NewGenerator(2).Generate(20, 0.4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical sequences")
	}
}

func TestGenerateSuccessiveCallsDiverge(t *testing.T) {
	// The pipeline relies on a second draw from the same generator being
	// independent of the first: the offsets advance the internal source.
	gen := NewGenerator(99)

	a, err := gen.Generate(20, 0.4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := gen.Generate(20, 0.4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("successive draws produced identical sequences")
	}
}

func TestGenerateSingleValueIsDegenerate(t *testing.T) {
	// One raw value means min == max, so normalization is undefined.
	_, err := NewGenerator(5).Generate(1, 0.3)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestGenerateRejectsInvalidArgs(t *testing.T) {
	gen := NewGenerator(0)

	if _, err := gen.Generate(0, 0.3); err == nil {
		t.Error("expected error for zero length")
	}
	if _, err := gen.Generate(-3, 0.3); err == nil {
		t.Error("expected error for negative length")
	}
	if _, err := gen.Generate(8, 0); err == nil {
		t.Error("expected error for zero scale")
	}
}

func TestNewRandomGenerator(t *testing.T) {
	gen, err := NewRandomGenerator()
	if err != nil {
		t.Fatalf("NewRandomGenerator: %v", err)
	}
	if _, err := gen.Generate(16, 0.3); err != nil {
		t.Errorf("Generate: %v", err)
	}
}
