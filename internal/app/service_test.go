package service_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/agustinnadalich/conexus-play-sub000/internal/adapters/repository"
	service "github.com/agustinnadalich/conexus-play-sub000/internal/app"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() { //nolint:gochecknoinits // test logger setup
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func startedService(opts ...service.Option) (*service.Service, context.Context) {
	svc := service.New(opts...)
	ctx := context.Background()
	So(svc.Start(ctx), ShouldBeNil)
	return svc, ctx
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(
			service.WithDedupeSize(100),
			service.WithMaxImportBatch(50),
			service.WithMaxSessions(4),
		)
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then calls before Start fail with ErrNotStarted", func() {
			_, err := svc.Matches(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats(ctx).Started, ShouldBeFalse)
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats(ctx)
				So(stats.Started, ShouldBeTrue)
				So(stats.StorageDriver, ShouldEqual, "memory")
				So(stats.MaxSessions, ShouldEqual, 4)
			})

			Convey("And stopping it marks it as stopped", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats(ctx).Started, ShouldBeFalse)
			})
		})
	})
}

func TestService_ImportEvents(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, ctx := startedService(service.WithMaxImportBatch(5))
		defer svc.Stop()

		Convey("When importing a mixed batch", func() {
			res, err := svc.ImportEvents(ctx, "m1", []model.Event{
				{"id": "e1", "category": "TACKLE", "team": "Pescara"},
				{"category": "PENALTY", "team": "RIVAL"},
				{"id": "e2", "team": "Pescara"},
				{"id": "e1", "category": "TACKLE"},
				{"id": "e3", "extra_data": map[string]any{"event_type": "SCRUM"}},
			})

			Convey("Then events are accepted, deduplicated and rejected per event", func() {
				So(err, ShouldBeNil)
				So(res.MatchID, ShouldEqual, "m1")
				So(res.Accepted, ShouldEqual, 3)
				So(res.Duplicates, ShouldEqual, 1)
				So(res.Rejected, ShouldEqual, 1)
				So(res.Stored, ShouldEqual, 3)
			})

			Convey("And events lacking an id receive one", func() {
				events, err := svc.MatchEvents(ctx, "m1")
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(events[0].ID(), ShouldEqual, "e1")
				So(events[1].ID(), ShouldHaveLength, 36)
				So(events[2].ID(), ShouldEqual, "e3")
			})

			Convey("And re-sending the batch only counts duplicates", func() {
				again, err := svc.ImportEvents(ctx, "m1", []model.Event{
					{"id": "e1", "category": "TACKLE"},
					{"id": "e3", "category": "SCRUM"},
				})
				So(err, ShouldBeNil)
				So(again.Accepted, ShouldEqual, 0)
				So(again.Duplicates, ShouldEqual, 2)
				So(again.Stored, ShouldEqual, 3)
			})

			Convey("And the match is listed", func() {
				matches, err := svc.Matches(ctx)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].ID, ShouldEqual, "m1")
				So(matches[0].Events, ShouldEqual, 3)
			})
		})

		Convey("When the batch exceeds the limit", func() {
			batch := make([]model.Event, 6)
			for i := range batch {
				batch[i] = model.Event{"category": "TACKLE"}
			}
			_, err := svc.ImportEvents(ctx, "m1", batch)

			Convey("Then it is rejected as a whole", func() {
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
			})
		})

		Convey("When the match id is blank or the batch empty", func() {
			_, errID := svc.ImportEvents(ctx, "  ", []model.Event{{"category": "TACKLE"}})
			_, errEmpty := svc.ImportEvents(ctx, "m1", nil)

			Convey("Then the import fails", func() {
				So(errors.Is(errID, repository.ErrInvalidMatchID), ShouldBeTrue)
				So(errors.Is(errEmpty, service.ErrEmptyBatch), ShouldBeTrue)
			})
		})

		Convey("When reading an unknown match", func() {
			_, err := svc.MatchEvents(ctx, "nope")

			Convey("Then ErrMatchNotFound is returned", func() {
				So(errors.Is(err, repository.ErrMatchNotFound), ShouldBeTrue)
			})
		})
	})
}

func matchFixture() []model.Event {
	return []model.Event{
		{"id": "1", "category": "PENALTY", "team": "Pescara", "extra_data": map[string]any{"Game_Time": "05:00"}},
		{"id": "2", "category": "PENALTY", "team": "RIVAL", "extra_data": map[string]any{"Game_Time": "25:10"}},
		{"id": "3", "category": "TACKLE", "team": "Pescara", "players": []any{"10", "12"}, "extra_data": map[string]any{"Game_Time": "45:00"}},
		{"id": "4", "category": "TACKLE", "team": "OPPONENT", "extra_data": map[string]any{"Game_Time": "65:00"}},
		{"id": "5", "category": "SCRUM", "team": "Pescara", "extra_data": map[string]any{"Game_Time": "70:00"}},
	}
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a service holding one match", t, func() {
		svc, ctx := startedService(service.WithMaxSessions(2))
		defer svc.Stop()
		_, err := svc.ImportEvents(ctx, "m1", matchFixture())
		So(err, ShouldBeNil)

		Convey("When creating a session without naming our teams", func() {
			view, err := svc.CreateSession(ctx, "m1", nil)

			Convey("Then our teams are detected and nothing is filtered", func() {
				So(err, ShouldBeNil)
				So(view.ID, ShouldNotBeEmpty)
				So(view.MatchID, ShouldEqual, "m1")
				So(view.OurTeams, ShouldResemble, []string{"Pescara"})
				So(view.Filters, ShouldBeEmpty)
				So(view.Total, ShouldEqual, 5)
				So(view.Filtered, ShouldEqual, 5)
			})

			Convey("And toggling descriptors narrows the events", func() {
				v, err := svc.ToggleFilters(ctx, view.ID, []model.Descriptor{
					model.D("CATEGORY", "PENALTY"),
					model.D("TEAM_SIDE", "OPPONENT"),
				})
				So(err, ShouldBeNil)
				So(v.Filtered, ShouldEqual, 1)

				events, err := svc.SessionEvents(ctx, view.ID)
				So(err, ShouldBeNil)
				So(events[0].ID(), ShouldEqual, "2")

				Convey("And toggling the same group again restores the list", func() {
					v, err := svc.ToggleFilters(ctx, view.ID, []model.Descriptor{
						model.D("CATEGORY", "PENALTY"),
						model.D("TEAM_SIDE", "OPPONENT"),
					})
					So(err, ShouldBeNil)
					So(v.Filters, ShouldBeEmpty)
					So(v.Filtered, ShouldEqual, 5)
				})
			})

			Convey("And replacing then clearing the filters", func() {
				v, err := svc.ReplaceFilters(ctx, view.ID, []model.Descriptor{
					model.D("Quarter_Group", "1st"),
				})
				So(err, ShouldBeNil)
				So(v.Filters, ShouldResemble, []model.Descriptor{model.D("Time_Group", "0'-20'")})
				So(v.Filtered, ShouldEqual, 1)

				v, err = svc.ClearFilters(ctx, view.ID)
				So(err, ShouldBeNil)
				So(v.Filters, ShouldBeEmpty)
				So(v.Filtered, ShouldEqual, 5)
			})

			Convey("And a player filter matches by membership", func() {
				v, err := svc.ReplaceFilters(ctx, view.ID, []model.Descriptor{model.D("JUGADOR", "12")})
				So(err, ShouldBeNil)
				So(v.Filtered, ShouldEqual, 1)
			})

			Convey("And the summary covers the filtered events", func() {
				_, err := svc.ReplaceFilters(ctx, view.ID, []model.Descriptor{model.D("CATEGORY", "TACKLE")})
				So(err, ShouldBeNil)
				report, err := svc.SessionSummary(ctx, view.ID)
				So(err, ShouldBeNil)
				So(report.Total, ShouldEqual, 2)
				So(report.Sides.Ours, ShouldEqual, 1)
				So(report.Sides.Opponent, ShouldEqual, 1)
			})

			Convey("And closing it makes it unknown", func() {
				So(svc.CloseSession(ctx, view.ID), ShouldBeNil)
				_, err := svc.Session(ctx, view.ID)
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
				So(errors.Is(svc.CloseSession(ctx, view.ID), service.ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When the request names our teams", func() {
			view, err := svc.CreateSession(ctx, "m1", []string{" Other "})

			Convey("Then the request wins over detection", func() {
				So(err, ShouldBeNil)
				So(view.OurTeams, ShouldResemble, []string{"Other"})
			})
		})

		Convey("When more sessions are opened than allowed", func() {
			first, _ := svc.CreateSession(ctx, "m1", nil)
			second, _ := svc.CreateSession(ctx, "m1", nil)
			third, err := svc.CreateSession(ctx, "m1", nil)
			So(err, ShouldBeNil)

			Convey("Then the oldest session is evicted", func() {
				_, err := svc.Session(ctx, first.ID)
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
				_, err = svc.Session(ctx, second.ID)
				So(err, ShouldBeNil)
				_, err = svc.Session(ctx, third.ID)
				So(err, ShouldBeNil)
				So(svc.GetStats(ctx).ActiveSessions, ShouldEqual, 2)
			})
		})

		Convey("When the match does not exist", func() {
			_, err := svc.CreateSession(ctx, "missing", nil)

			Convey("Then ErrMatchNotFound is returned", func() {
				So(errors.Is(err, repository.ErrMatchNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service configured with our teams", t, func() {
		svc, ctx := startedService(service.WithOurTeams("Configured"))
		defer svc.Stop()
		_, err := svc.ImportEvents(ctx, "m1", matchFixture())
		So(err, ShouldBeNil)

		Convey("Then sessions use the configured set unless the request names one", func() {
			view, err := svc.CreateSession(ctx, "m1", nil)
			So(err, ShouldBeNil)
			So(view.OurTeams, ShouldResemble, []string{"Configured"})

			view, err = svc.CreateSession(ctx, "m1", []string{"Pescara"})
			So(err, ShouldBeNil)
			So(view.OurTeams, ShouldResemble, []string{"Pescara"})
		})
	})
}

func TestService_Click(t *testing.T) {
	Convey("Given a session over one match", t, func() {
		svc, ctx := startedService()
		defer svc.Stop()
		_, err := svc.ImportEvents(ctx, "m1", matchFixture())
		So(err, ShouldBeNil)
		view, err := svc.CreateSession(ctx, "m1", nil)
		So(err, ShouldBeNil)

		Convey("When a simple click arrives", func() {
			res, err := svc.Click(ctx, view.ID, []byte(`{"kind":"simple","value":"SCRUM","descriptor":"CATEGORY"}`))

			Convey("Then the descriptor is toggled in", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldBeTrue)
				So(res.Outcome, ShouldEqual, "added")
				So(res.Filters, ShouldResemble, []model.Descriptor{model.D("CATEGORY", "SCRUM")})

				v, _ := svc.Session(ctx, view.ID)
				So(v.Filtered, ShouldEqual, 1)
			})

			Convey("And the same click removes it again", func() {
				res, err := svc.Click(ctx, view.ID, []byte(`{"kind":"simple","value":"SCRUM","descriptor":"CATEGORY"}`))
				So(err, ShouldBeNil)
				So(res.Outcome, ShouldEqual, "removed")
				So(res.Filters, ShouldBeEmpty)
			})
		})

		Convey("When a native click hits an ambiguous chart", func() {
			res, err := svc.Click(ctx, view.ID, []byte(`{"kind":"native","elements":[{"datasetIndex":2,"index":0}],"chart":{"type":"bar","labels":["TACKLE"],"datasets":[{"label":"A"},{"label":"B"},{"label":"C"}]}}`))

			Convey("Then nothing changes", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldBeFalse)
				So(res.Filters, ShouldBeEmpty)
			})
		})

		Convey("When the payload kind is unknown", func() {
			_, err := svc.Click(ctx, view.ID, []byte(`{"kind":"hover"}`))

			Convey("Then a decode error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_Filter(t *testing.T) {
	Convey("Given a stateless filter request", t, func() {
		svc := service.New()
		events := []model.Event{
			{"category": "PENALTY", "team": "RIVAL"},
			{"category": "PENALTY", "team": "HOME"},
		}

		Convey("When filtering by category and opponent side", func() {
			out := svc.Filter(context.Background(), events, []model.Descriptor{
				model.D("CATEGORY", "PENALTY"),
				model.D("TEAM_SIDE", "OPPONENT"),
			}, nil)

			Convey("Then only the rival event remains", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0]["team"], ShouldEqual, "RIVAL")
			})
		})

		Convey("When no descriptors are given", func() {
			out := svc.Filter(context.Background(), events, nil, nil)

			Convey("Then the events come back unchanged", func() {
				So(out, ShouldResemble, events)
			})
		})
	})
}
