package histogram_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/framerank/internal/domain/histogram"
	"github.com/okian/framerank/internal/domain/model"
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

// naiveCount re-filters the sequence for one threshold.
func naiveCount(seq model.Sequence, t int) int {
	n := 0
	for _, r := range seq {
		if r.Score >= t {
			n++
		}
	}
	return n
}

func TestBuild(t *testing.T) {
	Convey("Given the four frame example", t, func() {
		seq := sampleSequence()

		Convey("When building the histogram", func() {
			h, err := histogram.Build(seq)

			Convey("Then every threshold from 0 to max+1 should be present", func() {
				So(err, ShouldBeNil)
				So(h.Map(), ShouldResemble, map[int]int{0: 4, 1: 4, 2: 3, 3: 3, 4: 2, 5: 2, 6: 2, 7: 2, 8: 0})
				So(h.MaxThreshold(), ShouldEqual, 8)
				So(h.Total(), ShouldEqual, 4)
			})

			Convey("And points should be in threshold order", func() {
				points := h.Points()
				So(len(points), ShouldEqual, 9)
				So(points[0], ShouldResemble, histogram.Point{Threshold: 0, Count: 4})
				So(points[8], ShouldResemble, histogram.Point{Threshold: 8, Count: 0})
			})

			Convey("And the input should be left untouched", func() {
				So(seq, ShouldResemble, sampleSequence())
			})
		})
	})

	Convey("Given a sequence where every score is zero", t, func() {
		seq := model.Sequence{{FrameNumber: 1, Score: 0}, {FrameNumber: 2, Score: 0}}

		Convey("Then the domain should be {0, 1}", func() {
			h, err := histogram.Build(seq)
			So(err, ShouldBeNil)
			So(h.Map(), ShouldResemble, map[int]int{0: 2, 1: 0})
		})
	})

	Convey("Given an empty sequence", t, func() {
		Convey("Then build should fail with ErrEmptyInput", func() {
			h, err := histogram.Build(model.Sequence{})
			So(h, ShouldBeNil)
			So(errors.Is(err, histogram.ErrEmptyInput), ShouldBeTrue)
		})
	})

	Convey("Given a sequence with a negative score", t, func() {
		seq := model.Sequence{{FrameNumber: 1, Score: 4}, {FrameNumber: 9, Score: -2}}

		Convey("Then build should fail with ErrNegativeScore", func() {
			_, err := histogram.Build(seq)
			So(errors.Is(err, histogram.ErrNegativeScore), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "frame 9")
		})
	})

	Convey("Given a sequence where every score is negative", t, func() {
		seq := model.Sequence{{FrameNumber: 1, Score: -7}, {FrameNumber: 2, Score: -3}}

		Convey("Then build should fail instead of panicking", func() {
			h, err := histogram.Build(seq)
			So(h, ShouldBeNil)
			So(errors.Is(err, histogram.ErrNegativeScore), ShouldBeTrue)
		})
	})

	Convey("Given a sequence with a score of math.MaxInt", t, func() {
		seq := model.Sequence{{FrameNumber: 1, Score: 3}, {FrameNumber: 2, Score: math.MaxInt}}

		Convey("Then build should fail with ErrScoreTooLarge instead of panicking", func() {
			var (
				h   histogram.Histogram
				err error
			)
			So(func() { h, err = histogram.Build(seq) }, ShouldNotPanic)
			So(h, ShouldBeNil)
			So(errors.Is(err, histogram.ErrScoreTooLarge), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "frame 2")
		})
	})

	Convey("Given a sequence with a score just above the ceiling", t, func() {
		seq := model.Sequence{{FrameNumber: 1, Score: histogram.ScoreCeiling + 1}}

		Convey("Then build should reject it", func() {
			_, err := histogram.Build(seq)
			So(errors.Is(err, histogram.ErrScoreTooLarge), ShouldBeTrue)
		})
	})

	Convey("Given a sequence whose max score is the ceiling", t, func() {
		seq := model.Sequence{{FrameNumber: 1, Score: histogram.ScoreCeiling}, {FrameNumber: 2, Score: 0}}

		Convey("Then build should cover the whole domain", func() {
			h, err := histogram.Build(seq)
			So(err, ShouldBeNil)
			So(h.MaxThreshold(), ShouldEqual, histogram.ScoreCeiling+1)
			So(h.Count(histogram.ScoreCeiling), ShouldEqual, 1)
		})
	})
}

func TestBuildProperties(t *testing.T) {
	Convey("Given random non-empty sequences", t, func() {
		rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic seed for reproducible testing

		for i := 0; i < 50; i++ {
			n := 1 + rng.Intn(200)
			seq := make(model.Sequence, n)
			for j := range seq {
				seq[j] = model.Record{FrameNumber: j, Score: rng.Intn(120)}
			}
			h, err := histogram.Build(seq)
			So(err, ShouldBeNil)

			maxScore, _ := seq.MaxScore()
			So(h.Count(0), ShouldEqual, n)
			So(h.Count(maxScore+1), ShouldEqual, 0)
			So(h.MaxThreshold(), ShouldEqual, maxScore+1)

			for th := 1; th <= h.MaxThreshold(); th++ {
				So(h.Count(th-1), ShouldBeGreaterThanOrEqualTo, h.Count(th))
			}
			for th := 0; th <= h.MaxThreshold(); th++ {
				So(h.Count(th), ShouldEqual, naiveCount(seq, th))
			}
		}
	})
}

func TestCount(t *testing.T) {
	Convey("Given a built histogram", t, func() {
		h, err := histogram.Build(sampleSequence())
		So(err, ShouldBeNil)

		Convey("Then thresholds outside the domain should clamp", func() {
			So(h.Count(-5), ShouldEqual, 4)
			So(h.Count(100), ShouldEqual, 0)
		})
	})

	Convey("Given a nil histogram", t, func() {
		var h histogram.Histogram

		Convey("Then counts should be zero", func() {
			So(h.Count(0), ShouldEqual, 0)
			So(h.Total(), ShouldEqual, 0)
		})
	})
}
