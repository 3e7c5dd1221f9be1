package logger

import (
	"bytes"
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "histogram built", String("label", "pdp_a"), Int("thresholds", 9))

			Convey("Then the entry should carry the fields and the caller", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "histogram built")
				So(out, ShouldContainSubstring, "label=pdp_a")
				So(out, ShouldContainSubstring, "thresholds=9")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When using a named logger with bound fields", func() {
			Named("ranking").With(String("run_id", "abc")).Warn(ctx, "missing image")

			Convey("Then both should appear on the entry", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "component=ranking")
				So(out, ShouldContainSubstring, "run_id=abc")
				So(out, ShouldContainSubstring, "level=WARN")
			})
		})

		Convey("When the level is raised above debug", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Debug(ctx, "hidden")
			Get().Info(ctx, "also hidden")

			Convey("Then nothing should be written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When setting an unknown level", func() {
			err := SetLevelString("loud")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Reset(func() { _ = SetLevelString("info") })
	})

	Convey("Given a nil writer", t, func() {
		So(InitWithWriter(nil), ShouldNotBeNil)
	})
}
