package types_test

import (
	"encoding/json"
	"testing"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	types "github.com/agustinnadalich/conexus-play-sub000/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSessionView(t *testing.T) {
	Convey("Given a SessionView", t, func() {
		view := types.SessionView{
			ID:       "s1",
			MatchID:  "m1",
			OurTeams: []string{"Pescara"},
			Filters:  []model.Descriptor{model.D("CATEGORY", "TACKLE")},
			Total:    10,
			Filtered: 4,
		}

		Convey("When encoding it as JSON", func() {
			raw, err := json.Marshal(view)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)

			Convey("Then it should use the snake_case wire names", func() {
				So(decoded["match_id"], ShouldEqual, "m1")
				So(decoded["our_teams"], ShouldResemble, []any{"Pescara"})
				So(decoded["filtered"], ShouldEqual, 4.0)
				So(decoded["filters"], ShouldResemble, []any{
					map[string]any{"descriptor": "CATEGORY", "value": "TACKLE"},
				})
			})
		})
	})
}

func TestClickResult(t *testing.T) {
	Convey("Given an ignored click", t, func() {
		res := types.ClickResult{Outcome: "ignored", Reason: "ambiguous dataset", Filters: []model.Descriptor{}}

		Convey("When encoding it", func() {
			raw, err := json.Marshal(res)
			So(err, ShouldBeNil)

			Convey("Then applied is false and filters is an empty list", func() {
				So(string(raw), ShouldContainSubstring, `"applied":false`)
				So(string(raw), ShouldContainSubstring, `"filters":[]`)
			})
		})

		Convey("When the click carries no reason", func() {
			raw, _ := json.Marshal(types.ClickResult{Applied: true, Outcome: "added"})

			Convey("Then the reason is omitted", func() {
				So(string(raw), ShouldNotContainSubstring, "reason")
			})
		})
	})
}
