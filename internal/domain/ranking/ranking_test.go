package ranking_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/okian/framerank/internal/domain/model"
	"github.com/okian/framerank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSequence() model.Sequence {
	return model.Sequence{
		{FrameNumber: 1, FrameName: "f1", Score: 3},
		{FrameNumber: 2, FrameName: "f2", Score: 7},
		{FrameNumber: 3, FrameName: "f3", Score: 7},
		{FrameNumber: 4, FrameName: "f4", Score: 1},
	}
}

func TestRank(t *testing.T) {
	Convey("Given the four frame example", t, func() {
		seq := sampleSequence()

		Convey("When taking the top two", func() {
			sel, err := ranking.Rank(seq, 2, ranking.Top)

			Convey("Then the tied frames should come out by frame number", func() {
				So(err, ShouldBeNil)
				So(sel.Entries, ShouldResemble, []ranking.Entry{
					{Rank: 1, FrameNumber: 2, FrameName: "f2", Score: 7},
					{Rank: 2, FrameNumber: 3, FrameName: "f3", Score: 7},
				})
				So(sel.FrameNames(), ShouldResemble, []string{"f2", "f3"})
				So(sel.Order.Category(), ShouldEqual, "Top")
			})

			Convey("And the input order should be preserved", func() {
				So(seq, ShouldResemble, sampleSequence())
			})
		})

		Convey("When taking the bottom two", func() {
			sel, err := ranking.Rank(seq, 2, ranking.Bottom)

			Convey("Then the lowest scores should come first", func() {
				So(err, ShouldBeNil)
				So(sel.FrameNumbers(), ShouldResemble, []int{4, 1})
				So(sel.Scores(), ShouldResemble, []int{1, 3})
				So(sel.Order.Category(), ShouldEqual, "Bottom")
			})
		})

		Convey("When k is zero", func() {
			_, err := ranking.Rank(seq, 0, ranking.Top)

			Convey("Then it should fail with ErrInvalidRankSize", func() {
				So(errors.Is(err, ranking.ErrInvalidRankSize), ShouldBeTrue)
			})
		})

		Convey("When k equals the sequence length", func() {
			_, err := ranking.Rank(seq, len(seq), ranking.Bottom)

			Convey("Then it should fail with ErrInvalidRankSize", func() {
				So(errors.Is(err, ranking.ErrInvalidRankSize), ShouldBeTrue)
			})
		})

		Convey("When k is negative", func() {
			_, err := ranking.Rank(seq, -1, ranking.Top)

			Convey("Then it should fail with ErrInvalidRankSize", func() {
				So(errors.Is(err, ranking.ErrInvalidRankSize), ShouldBeTrue)
			})
		})
	})

	Convey("Given two tied frames listed in reverse frame order", t, func() {
		seq := model.Sequence{
			{FrameNumber: 5, FrameName: "f5", Score: 4},
			{FrameNumber: 3, FrameName: "f3", Score: 4},
			{FrameNumber: 9, FrameName: "f9", Score: 10},
			{FrameNumber: 1, FrameName: "f1", Score: 0},
		}

		Convey("Then frame 3 should precede frame 5 in both orders", func() {
			top, err := ranking.Rank(seq, 3, ranking.Top)
			So(err, ShouldBeNil)
			So(top.FrameNumbers(), ShouldResemble, []int{9, 3, 5})

			bottom, err := ranking.Rank(seq, 3, ranking.Bottom)
			So(err, ShouldBeNil)
			So(bottom.FrameNumbers(), ShouldResemble, []int{1, 3, 5})
		})
	})

	Convey("Given an empty sequence", t, func() {
		Convey("Then rank should fail with ErrEmptyInput", func() {
			_, err := ranking.Rank(nil, 1, ranking.Top)
			So(errors.Is(err, ranking.ErrEmptyInput), ShouldBeTrue)
		})
	})
}

func TestRankProperties(t *testing.T) {
	Convey("Given shuffled sequences with distinct scores", t, func() {
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic seed for reproducible testing

		for i := 0; i < 30; i++ {
			n := 2 + rng.Intn(60)
			seq := make(model.Sequence, n)
			for j, score := range rng.Perm(n) {
				seq[j] = model.Record{FrameNumber: j, Score: score}
			}
			k := 1 + rng.Intn(n/2)

			top, err := ranking.Rank(seq, k, ranking.Top)
			So(err, ShouldBeNil)
			bottom, err := ranking.Rank(seq, k, ranking.Bottom)
			So(err, ShouldBeNil)

			So(top.Len(), ShouldEqual, k)
			So(bottom.Len(), ShouldEqual, k)

			seen := make(map[int]bool, k)
			for _, e := range top.Entries {
				seen[e.FrameNumber] = true
			}
			for _, e := range bottom.Entries {
				So(seen[e.FrameNumber], ShouldBeFalse)
			}
			for j := 1; j < k; j++ {
				So(top.Entries[j-1].Score, ShouldBeGreaterThan, top.Entries[j].Score)
				So(bottom.Entries[j-1].Score, ShouldBeLessThan, bottom.Entries[j].Score)
			}
		}
	})

	Convey("Given the same records in two different input orders", t, func() {
		a := model.Sequence{
			{FrameNumber: 1, Score: 2}, {FrameNumber: 2, Score: 2},
			{FrameNumber: 3, Score: 2}, {FrameNumber: 4, Score: 1},
		}
		b := model.Sequence{a[3], a[2], a[0], a[1]}

		Convey("Then the selections should match", func() {
			selA, err := ranking.Rank(a, 3, ranking.Top)
			So(err, ShouldBeNil)
			selB, err := ranking.Rank(b, 3, ranking.Top)
			So(err, ShouldBeNil)
			So(selA.Entries, ShouldResemble, selB.Entries)
		})
	})
}
