// Package histogram builds cumulative frame counts over a threshold sweep.
package histogram

import (
	"fmt"

	"github.com/okian/framerank/internal/domain/model"
)

// ScoreCeiling is the largest score Build accepts. The threshold domain is
// allocated densely, so it bounds memory at a few megabytes per source.
const ScoreCeiling = 1 << 20

// Histogram maps a threshold (the slice index) to the number of records whose
// score is at least that threshold. Thresholds run contiguously from 0 to
// max(score)+1, so the last count is always zero.
type Histogram []int

// Point is one (threshold, count) pair in threshold order.
type Point struct {
	Threshold int `json:"threshold"`
	Count     int `json:"count"`
}

// Build computes the cumulative histogram for seq.
//
// Scores are bucketed in a single counting pass and then summed right to left,
// which keeps the cost at O(n + max) instead of re-filtering per threshold.
func Build(seq model.Sequence) (Histogram, error) {
	const op = "histogram.build"
	maxScore, ok := seq.MaxScore()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyInput)
	}

	for _, r := range seq {
		if r.Score < 0 {
			return nil, fmt.Errorf("%s: frame %d: %w", op, r.FrameNumber, ErrNegativeScore)
		}
		if r.Score > ScoreCeiling {
			return nil, fmt.Errorf("%s: frame %d score %d exceeds %d: %w", op, r.FrameNumber, r.Score, ScoreCeiling, ErrScoreTooLarge)
		}
	}

	// One extra slot holds the zero tail at max+1.
	counts := make([]int, maxScore+2)
	for _, r := range seq {
		counts[r.Score]++
	}
	for t := len(counts) - 2; t >= 0; t-- {
		counts[t] += counts[t+1]
	}
	return Histogram(counts), nil
}

// Count returns the number of records surviving threshold t. Thresholds
// outside the domain report zero above it and the total below it.
func (h Histogram) Count(t int) int {
	if len(h) == 0 {
		return 0
	}
	if t < 0 {
		return h[0]
	}
	if t >= len(h) {
		return 0
	}
	return h[t]
}

// MaxThreshold is the last threshold in the domain, i.e. max(score)+1.
func (h Histogram) MaxThreshold() int { return len(h) - 1 }

// Total is the number of records the histogram was built from.
func (h Histogram) Total() int { return h.Count(0) }

// Points returns the histogram as ordered pairs.
func (h Histogram) Points() []Point {
	out := make([]Point, len(h))
	for t, c := range h {
		out[t] = Point{Threshold: t, Count: c}
	}
	return out
}

// Map returns the histogram keyed by threshold.
func (h Histogram) Map() map[int]int {
	out := make(map[int]int, len(h))
	for t, c := range h {
		out[t] = c
	}
	return out
}
