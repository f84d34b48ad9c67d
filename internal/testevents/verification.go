package testevents

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/filter"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
)

// verifyFilters opens a session over the imported match and checks that the
// service filters every descriptor to the same events as a local engine.
func verifyFilters(ctx context.Context, client *HTTPClient, config *Config, events []model.Event, ourTeam string, pool []model.Descriptor, stats *Stats) error {
	log := logger.Get()

	var session SessionView
	if _, err := client.Do(ctx, http.MethodPost, "/sessions",
		map[string]any{"match_id": config.MatchID, "our_teams": []string{ourTeam}}, &session); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if _, err := client.Do(context.Background(), http.MethodDelete, "/sessions/"+url.PathEscape(session.ID), nil, nil); err != nil {
			log.Warn(ctx, "failed to close session", logger.Error(err))
		}
	}()

	if session.Total != len(events) {
		return fmt.Errorf("session holds %d events, generated %d", session.Total, len(events))
	}

	engine := filter.NewEngine(filter.WithOurTeams(ourTeam))
	base := "/sessions/" + url.PathEscape(session.ID)

	for _, d := range pool {
		want := sortedIDs(engine.Apply(events, []model.Descriptor{d}))

		if _, err := client.Do(ctx, http.MethodPut, base+"/filters",
			map[string]any{"filters": []model.Descriptor{d}}, nil); err != nil {
			return fmt.Errorf("replace filters with %s: %w", d.Name, err)
		}
		var got []model.Event
		if _, err := client.Do(ctx, http.MethodGet, base+"/events", nil, &got); err != nil {
			return fmt.Errorf("read filtered events: %w", err)
		}

		stats.FiltersChecked++
		if !equalIDs(want, sortedIDs(got)) {
			stats.FiltersMismatch++
			log.Warn(ctx, "filter mismatch",
				logger.String("descriptor", d.Name),
				logger.Any("value", d.Value),
				logger.Int("expected", len(want)),
				logger.Int("got", len(got)))
			continue
		}
		if config.Verbose {
			log.Info(ctx, "filter verified",
				logger.String("descriptor", d.Name),
				logger.Any("value", d.Value),
				logger.Int("events", len(got)))
		}
	}

	if stats.FiltersMismatch > 0 {
		return fmt.Errorf("%d of %d descriptors disagreed with the local engine", stats.FiltersMismatch, stats.FiltersChecked)
	}
	return nil
}

func sortedIDs(events []model.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID())
	}
	sort.Strings(ids)
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
