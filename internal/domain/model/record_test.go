package model_test

import (
	"testing"

	model "github.com/okian/framerank/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSequence(t *testing.T) {
	convey.Convey("Given a score sequence", t, func() {
		seq := model.Sequence{
			{FrameNumber: 1, FrameName: "f1", Score: 3},
			{FrameNumber: 2, FrameName: "f2", Score: 7},
			{FrameNumber: 3, FrameName: "f3", Score: 7},
			{FrameNumber: 4, FrameName: "f4", Score: 1},
		}

		convey.Convey("When asking for the max score", func() {
			maxScore, ok := seq.MaxScore()

			convey.Convey("Then it should return the highest score", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(maxScore, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When cloning and reordering the clone", func() {
			clone := seq.Clone()
			clone[0], clone[3] = clone[3], clone[0]

			convey.Convey("Then the original should be untouched", func() {
				convey.So(seq[0].FrameName, convey.ShouldEqual, "f1")
				convey.So(clone[0].FrameName, convey.ShouldEqual, "f4")
			})
		})
	})

	convey.Convey("Given an empty sequence", t, func() {
		var seq model.Sequence

		convey.Convey("Then max score should report absence", func() {
			_, ok := seq.MaxScore()
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(seq.Clone(), convey.ShouldBeNil)
		})
	})
}
