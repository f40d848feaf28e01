// SPDX-License-Identifier: MIT

// Package state maps normalized noise values onto delay-intensity states and
// concrete delay times.
package state

import "fmt"

// State is one of three discrete delay-intensity tiers assigned per segment.
type State string

const (
	Short  State = "short"
	Medium State = "medium"
	Long   State = "long"
)

// Classification thresholds. Values below shortUpper map to Short, values
// below mediumUpper to Medium, everything else to Long.
const (
	shortUpper  = 0.33
	mediumUpper = 0.66
)

// Classify maps a normalized noise value in [0, 1] to a State.
func Classify(v float64) State {
	switch {
	case v < shortUpper:
		return Short
	case v < mediumUpper:
		return Medium
	default:
		return Long
	}
}

// DelayTable holds each state's ordered set of valid delay times in seconds.
// Tables are built once and injected read-only; tests substitute their own.
type DelayTable map[State][]float64

// NewDelayTable builds the fixed production tables. Each set is generated
// from a half-open millisecond range scaled to seconds:
//
//	short:  20ms..80ms  step 2ms  (30 values)
//	medium: 80ms..350ms step 10ms (27 values)
//	long:   350ms..1501ms step 40ms (29 values)
func NewDelayTable() DelayTable {
	return DelayTable{
		Short:  delayTimes(20, 80, 2),
		Medium: delayTimes(80, 350, 10),
		Long:   delayTimes(350, 1501, 40),
	}
}

func delayTimes(startMs, endMs, stepMs int) []float64 {
	times := make([]float64, 0, (endMs-startMs+stepMs-1)/stepMs)
	for ms := startMs; ms < endMs; ms += stepMs {
		times = append(times, float64(ms)/1000.0)
	}
	return times
}

// Selector picks a concrete delay time from a state's table using a
// normalized noise value. The pick is always a table member, never
// interpolated.
type Selector struct {
	table DelayTable
}

// NewSelector wraps a delay table. Every state a caller will classify into
// must be present and non-empty.
func NewSelector(table DelayTable) (*Selector, error) {
	for _, st := range []State{Short, Medium, Long} {
		if len(table[st]) == 0 {
			return nil, fmt.Errorf("state: delay table has no entries for %q", st)
		}
	}
	return &Selector{table: table}, nil
}

// Select indexes the state's table with floor(v*len) mod len. The modulo
// guards v == 1.0, where the floor would land one past the last entry.
func (s *Selector) Select(st State, v float64) (float64, error) {
	times, ok := s.table[st]
	if !ok || len(times) == 0 {
		return 0, fmt.Errorf("state: unknown state %q", st)
	}
	idx := int(v*float64(len(times))) % len(times)
	return times[idx], nil
}
