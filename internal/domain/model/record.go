// Package model contains domain models passed between layers.
package model

// Record is one analyzed frame as produced by the upstream selection pipeline.
type Record struct {
	FrameNumber int    // frame index within the run
	Source      string // pipeline run column, informational only
	FrameName   string // image identifier without extension
	Score       int    // quality score assigned upstream
}

// Sequence is the ordered set of records loaded from one score source.
// Consumers treat it as read-only.
type Sequence []Record

// MaxScore returns the highest score in s. The second result is false for an
// empty sequence.
func (s Sequence) MaxScore() (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	maxScore := s[0].Score
	for _, r := range s[1:] {
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	return maxScore, true
}

// Clone returns a copy of s that can be reordered without touching the original.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
