package service_test

import (
	"context"
	"path/filepath"
	"testing"

	repository "github.com/agustinnadalich/conexus-play-sub000/internal/adapters/repository"
	service "github.com/agustinnadalich/conexus-play-sub000/internal/app"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/filter"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/testevents"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by SQLite", t, func() {
		path := filepath.Join(t.TempDir(), "events.db")
		svc := service.New(
			service.WithStoreFactory(func(ctx context.Context) (repository.Store, error) {
				return repository.NewSQLiteStore(ctx, path)
			}, "sqlite"),
			service.WithDedupeSize(10),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		gen := testevents.New(42)
		match := gen.Match(300)

		Convey("When importing a synthetic match in two overlapping batches", func() {
			first, err := svc.ImportEvents(ctx, "synthetic", match[:200])
			So(err, ShouldBeNil)
			second, err := svc.ImportEvents(ctx, "synthetic", match[150:])
			So(err, ShouldBeNil)

			Convey("Then every event is stored once", func() {
				So(first.Accepted, ShouldEqual, 200)
				So(second.Stored, ShouldEqual, 300+missingIDs(match[150:200]))
				So(svc.GetStats(ctx).StorageDriver, ShouldEqual, "sqlite")
			})

			Convey("And a session over the match filters like the engine", func() {
				view, err := svc.CreateSession(ctx, "synthetic", nil)
				So(err, ShouldBeNil)
				So(view.OurTeams, ShouldResemble, []string{gen.OurTeam()})

				stored, err := svc.MatchEvents(ctx, "synthetic")
				So(err, ShouldBeNil)
				engine := filter.NewEngine(filter.WithOurTeams(view.OurTeams...))

				for _, d := range gen.DescriptorPool() {
					v, err := svc.ReplaceFilters(ctx, view.ID, []model.Descriptor{d})
					So(err, ShouldBeNil)
					want := engine.Apply(stored, filter.NewState(d).Filters)
					So(v.Filtered, ShouldEqual, len(want))

					got, err := svc.SessionEvents(ctx, view.ID)
					So(err, ShouldBeNil)
					So(ids(got), ShouldResemble, ids(want))
				}
			})

			Convey("And re-applying the same filters keeps the same result", func() {
				view, err := svc.CreateSession(ctx, "synthetic", nil)
				So(err, ShouldBeNil)
				descs := gen.Descriptors(2)

				a, err := svc.ReplaceFilters(ctx, view.ID, descs)
				So(err, ShouldBeNil)
				before, _ := svc.SessionEvents(ctx, view.ID)
				b, err := svc.ReplaceFilters(ctx, view.ID, descs)
				So(err, ShouldBeNil)
				after, _ := svc.SessionEvents(ctx, view.ID)

				So(b.Filtered, ShouldEqual, a.Filtered)
				So(ids(after), ShouldResemble, ids(before))
			})
		})
	})
}

// missingIDs counts events that get a fresh ID on every import and are
// therefore stored again when re-sent.
func missingIDs(events []model.Event) int {
	n := 0
	for _, e := range events {
		if e.ID() == "" {
			n++
		}
	}
	return n
}

func ids(events []model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID()
	}
	return out
}
