// Package ranking selects the highest or lowest scoring frames of a sequence.
package ranking

import (
	"fmt"
	"slices"

	"github.com/okian/framerank/internal/domain/model"
)

// Order selects which end of the score range to take.
type Order int

const (
	// Top takes the highest scores first.
	Top Order = iota
	// Bottom takes the lowest scores first.
	Bottom
)

// Category is the label used for output directories and chart titles.
func (o Order) Category() string {
	if o == Bottom {
		return "Bottom"
	}
	return "Top"
}

func (o Order) String() string { return o.Category() }

// Entry is a selected frame together with its position in the selection.
type Entry struct {
	Rank        int    `json:"rank"`
	FrameNumber int    `json:"frame_number"`
	FrameName   string `json:"frame_name"`
	Score       int    `json:"score"`
}

// Selection is the ordered result of Rank.
type Selection struct {
	Order   Order   `json:"-"`
	Entries []Entry `json:"entries"`
}

// compare orders a before b when it returns a negative value.
//
// Ordering: score by o (desc for Top, asc for Bottom), then frame number ASC
// in both orders so equal scores always come out the same way.
func compare(o Order, a, b model.Record) int {
	if a.Score != b.Score {
		if o == Bottom {
			return cmpInt(a.Score, b.Score)
		}
		return cmpInt(b.Score, a.Score)
	}
	return cmpInt(a.FrameNumber, b.FrameNumber)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Rank returns the k best frames of seq in the given order. k must leave room
// for a strict sub-selection: 0 < k < len(seq). seq is not modified.
func Rank(seq model.Sequence, k int, o Order) (Selection, error) {
	const op = "ranking.rank"
	if len(seq) == 0 {
		return Selection{}, fmt.Errorf("%s: %w", op, ErrEmptyInput)
	}
	if k <= 0 || k >= len(seq) {
		return Selection{}, fmt.Errorf("%s: k=%d with %d frames: %w", op, k, len(seq), ErrInvalidRankSize)
	}

	sorted := seq.Clone()
	slices.SortStableFunc(sorted, func(a, b model.Record) int { return compare(o, a, b) })

	entries := make([]Entry, k)
	for i, r := range sorted[:k] {
		entries[i] = Entry{
			Rank:        i + 1,
			FrameNumber: r.FrameNumber,
			FrameName:   r.FrameName,
			Score:       r.Score,
		}
	}
	return Selection{Order: o, Entries: entries}, nil
}

// Len is the number of selected frames.
func (s Selection) Len() int { return len(s.Entries) }

// FrameNames lists the selected image identifiers in rank order.
func (s Selection) FrameNames() []string {
	names := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.FrameName
	}
	return names
}

// FrameNumbers lists the selected frame numbers in rank order.
func (s Selection) FrameNumbers() []int {
	nums := make([]int, len(s.Entries))
	for i, e := range s.Entries {
		nums[i] = e.FrameNumber
	}
	return nums
}

// Scores lists the selected scores in rank order.
func (s Selection) Scores() []int {
	scores := make([]int, len(s.Entries))
	for i, e := range s.Entries {
		scores[i] = e.Score
	}
	return scores
}
