// SPDX-License-Identifier: MIT
package state

import (
	"math"
	"testing"
)

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		value    float64
		expected State
	}{
		{0.0, Short},
		{0.1, Short},
		{0.329, Short},
		{0.33, Medium},
		{0.5, Medium},
		{0.659, Medium},
		{0.66, Long},
		{0.9, Long},
		{1.0, Long},
	}

	for _, tt := range tests {
		if got := Classify(tt.value); got != tt.expected {
			t.Errorf("Classify(%g) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}

func TestDelayTableSets(t *testing.T) {
	table := NewDelayTable()

	tests := []struct {
		state State
		count int
		min   float64
		max   float64
		step  float64
	}{
		{Short, 30, 0.020, 0.078, 0.002},
		{Medium, 27, 0.080, 0.340, 0.010},
		{Long, 29, 0.350, 1.470, 0.040},
	}

	const tol = 1e-9
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			times := table[tt.state]
			if len(times) != tt.count {
				t.Fatalf("%s table has %d entries, expected %d", tt.state, len(times), tt.count)
			}
			if math.Abs(times[0]-tt.min) > tol {
				t.Errorf("%s min = %g, expected %g", tt.state, times[0], tt.min)
			}
			if math.Abs(times[len(times)-1]-tt.max) > tol {
				t.Errorf("%s max = %g, expected %g", tt.state, times[len(times)-1], tt.max)
			}
			for i := 1; i < len(times); i++ {
				if math.Abs(times[i]-times[i-1]-tt.step) > tol {
					t.Errorf("%s step at %d = %g, expected %g", tt.state, i, times[i]-times[i-1], tt.step)
				}
			}
		})
	}
}

func TestSelectAlwaysReturnsTableMember(t *testing.T) {
	table := NewDelayTable()
	sel, err := NewSelector(table)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}

	for _, st := range []State{Short, Medium, Long} {
		member := make(map[float64]bool, len(table[st]))
		for _, d := range table[st] {
			member[d] = true
		}

		for v := 0.0; v <= 1.0; v += 0.01 {
			got, err := sel.Select(st, v)
			if err != nil {
				t.Fatalf("Select(%q, %g): %v", st, v, err)
			}
			if !member[got] {
				t.Errorf("Select(%q, %g) = %g, not a table member", st, v, got)
			}
		}
	}
}

func TestSelectBoundaryOne(t *testing.T) {
	table := NewDelayTable()
	sel, err := NewSelector(table)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}

	// floor(1.0*len) == len without the modulo guard.
	for _, st := range []State{Short, Medium, Long} {
		got, err := sel.Select(st, 1.0)
		if err != nil {
			t.Fatalf("Select(%q, 1.0): %v", st, err)
		}
		if got != table[st][0] {
			t.Errorf("Select(%q, 1.0) = %g, expected wrap to first entry %g", st, got, table[st][0])
		}
	}
}

func TestSelectIndexing(t *testing.T) {
	// A substituted table makes the floor(v*len) index arithmetic explicit.
	table := DelayTable{
		Short:  []float64{0.1, 0.2, 0.3, 0.4},
		Medium: []float64{0.5},
		Long:   []float64{0.6},
	}
	sel, err := NewSelector(table)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}

	tests := []struct {
		value    float64
		expected float64
	}{
		{0.0, 0.1},
		{0.24, 0.1},
		{0.25, 0.2},
		{0.5, 0.3},
		{0.99, 0.4},
		{1.0, 0.1}, // Wraps
	}
	for _, tt := range tests {
		got, err := sel.Select(Short, tt.value)
		if err != nil {
			t.Fatalf("Select(short, %g): %v", tt.value, err)
		}
		if got != tt.expected {
			t.Errorf("Select(short, %g) = %g, expected %g", tt.value, got, tt.expected)
		}
	}
}

func TestNewSelectorRejectsIncompleteTable(t *testing.T) {
	_, err := NewSelector(DelayTable{Short: []float64{0.02}})
	if err == nil {
		t.Error("expected error for table missing medium/long entries")
	}

	if _, err = NewSelector(NewDelayTable()); err != nil {
		t.Errorf("expected complete table to be accepted, got %v", err)
	}
}
