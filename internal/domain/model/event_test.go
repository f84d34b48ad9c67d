package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventLookup(t *testing.T) {
	convey.Convey("Given an event with mixed-case keys and a nested side channel", t, func() {
		ev := model.Event{
			"id":       "ev-1",
			"CATEGORY": "PENAL",
			"extra_data": map[string]any{
				"Game_Time": "25:10",
				"AVANCE":    []any{"POSITIVO"},
			},
		}

		convey.Convey("When looking keys up case-insensitively", func() {
			v, ok := ev.Get("category")

			convey.Convey("Then the stored spelling is found", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldEqual, "PENAL")
				convey.So(ev.ID(), convey.ShouldEqual, "ev-1")
			})
		})

		convey.Convey("When walking into extra_data", func() {
			v, ok := ev.Lookup("EXTRA_DATA", "game_time")

			convey.Convey("Then nested values resolve", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldEqual, "25:10")
			})
		})

		convey.Convey("When a path crosses a scalar", func() {
			_, ok := ev.Lookup("CATEGORY", "x")

			convey.Convey("Then it is unresolvable rather than a panic", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("Then HasCategory sees the upper-case key", func() {
			convey.So(ev.HasCategory(), convey.ShouldBeTrue)
			convey.So(model.Event{"team": "x"}.HasCategory(), convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given extra_data stored as JSON text", t, func() {
		ev := model.Event{"extra_data": `{"EQUIPO":"Pescara"}`}

		convey.Convey("Then it is decoded on access", func() {
			extra, ok := ev.Extra()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(extra["EQUIPO"], convey.ShouldEqual, "Pescara")
		})
	})

	convey.Convey("Given nil and malformed events", t, func() {
		var nilEvent model.Event

		convey.Convey("Then accessors degrade to not-found", func() {
			_, ok := nilEvent.Get("category")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = nilEvent.Lookup("extra_data", "x")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = model.Event{"extra_data": 12}.Extra()
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = model.Event{"extra_data": "{broken"}.Extra()
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestValues(t *testing.T) {
	convey.Convey("Given the value helpers", t, func() {
		convey.Convey("Then Normalize folds diacritics, case and padding", func() {
			convey.So(model.Normalize(" pénal "), convey.ShouldEqual, "PENAL")
			convey.So(model.Normalize("Melé"), convey.ShouldEqual, "MELE")
			convey.So(model.Normalize("Atlético"), convey.ShouldEqual, "ATLETICO")
		})

		convey.Convey("Then Stringify renders integral numbers without decimals", func() {
			convey.So(model.Stringify(10.0), convey.ShouldEqual, "10")
			convey.So(model.Stringify(json.Number("12")), convey.ShouldEqual, "12")
			convey.So(model.Stringify(2.5), convey.ShouldEqual, "2.5")
			convey.So(model.Stringify(true), convey.ShouldEqual, "true")
			convey.So(model.Stringify(nil), convey.ShouldEqual, "")
		})

		convey.Convey("Then IsEmpty treats blanks and empty sequences as missing", func() {
			convey.So(model.IsEmpty(nil), convey.ShouldBeTrue)
			convey.So(model.IsEmpty("  "), convey.ShouldBeTrue)
			convey.So(model.IsEmpty([]any{}), convey.ShouldBeTrue)
			convey.So(model.IsEmpty(0.0), convey.ShouldBeFalse)
		})

		convey.Convey("Then AsFloat accepts numeric strings", func() {
			f, ok := model.AsFloat("3,5")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(f, convey.ShouldEqual, 3.5)
			_, ok = model.AsFloat("abc")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then IsTruthy accepts bilingual spellings", func() {
			for _, v := range []any{true, "true", "1", "yes", "si", "Sí", 1.0} {
				convey.So(model.IsTruthy(v), convey.ShouldBeTrue)
			}
			for _, v := range []any{false, "no", "0", nil, "maybe"} {
				convey.So(model.IsTruthy(v), convey.ShouldBeFalse)
			}
		})

		convey.Convey("Then Flatten drops empty elements", func() {
			convey.So(model.Flatten([]any{"10", "", nil, "12"}), convey.ShouldResemble, []any{"10", "12"})
			convey.So(model.Flatten("9"), convey.ShouldResemble, []any{"9"})
		})
	})
}

func TestDescriptor(t *testing.T) {
	convey.Convey("Given two descriptors whose values differ only in type", t, func() {
		a := model.D("JUGADOR", 10.0)
		b := model.D("JUGADOR", "10")

		convey.Convey("Then they are equal", func() {
			convey.So(a.Equal(b), convey.ShouldBeTrue)
		})

		convey.Convey("And a different name is not", func() {
			convey.So(a.Equal(model.D("PLAYER", "10")), convey.ShouldBeFalse)
		})

		convey.Convey("And it round-trips through JSON with the wire names", func() {
			raw, err := json.Marshal(a)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldEqual, `{"descriptor":"JUGADOR","value":10}`)
		})
	})
}
