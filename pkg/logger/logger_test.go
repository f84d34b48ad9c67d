package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("json")), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("filter").Info(ctx, "applied", String("descriptor", "CATEGORY"), Int("kept", 3), Bool("cached", false))

			Convey("Then the line carries the fields, component and source", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "applied")
				So(line["descriptor"], ShouldEqual, "CATEGORY")
				So(line["kept"], ShouldEqual, float64(3))
				So(line["cached"], ShouldEqual, false)
				So(line["component"], ShouldEqual, "filter")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "dropped")

			Convey("Then info lines are suppressed", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When setting an unknown level", func() {
			Convey("Then it should fail", func() {
				So(SetLevelString("loud"), ShouldNotBeNil)
			})
		})

		Reset(func() {
			_ = SetLevelString("info")
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()

		Convey("Then logging does not panic", func() {
			So(func() {
				l.Warn(context.Background(), "ignored", Any("k", 1))
				l.Named("x").Error(context.Background(), "ignored")
			}, ShouldNotPanic)
		})
	})
}
