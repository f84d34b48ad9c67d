package testevents

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a, b := New(3).Match(200), New(3).Match(200)

		Convey("Then they produce the same match", func() {
			ra, _ := json.Marshal(a)
			rb, _ := json.Marshal(b)
			So(string(ra), ShouldEqual, string(rb))
		})

		Convey("Then every event carries a category", func() {
			for _, e := range a {
				So(e.HasCategory(), ShouldBeTrue)
			}
		})

		Convey("Then some events lack an id", func() {
			missing := 0
			for _, e := range a {
				if e.ID() == "" {
					missing++
				}
			}
			So(missing, ShouldBeGreaterThan, 0)
			So(missing, ShouldBeLessThan, len(a))
		})
	})

	Convey("Given a non-positive size", t, func() {
		So(New(1).Match(0), ShouldBeEmpty)
	})

	Convey("Given custom team names", t, func() {
		g := New(1, WithTeams("Club A", ""))

		Convey("Then our team is replaced and the opponent keeps its default", func() {
			So(g.OurTeam(), ShouldEqual, "Club A")
			So(g.opponent, ShouldEqual, defaultOpponent)
		})

		Convey("Then descriptors are drawn from the pool", func() {
			pool := map[string]bool{}
			for _, d := range g.DescriptorPool() {
				pool[d.Key()] = true
			}
			for _, d := range g.Descriptors(25) {
				So(pool[d.Key()], ShouldBeTrue)
			}
		})
	})
}

func TestBatches(t *testing.T) {
	Convey("Given 7 events split by 3", t, func() {
		parts := batches(New(1).Match(7), 3)

		So(parts, ShouldHaveLength, 3)
		So(parts[2], ShouldHaveLength, 1)
	})

	Convey("Given a zero batch size", t, func() {
		So(batches(New(1).Match(4), 0), ShouldHaveLength, 1)
	})
}
