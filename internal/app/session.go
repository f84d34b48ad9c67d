package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/chartclick"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/classify"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/filter"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/summary"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/types"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/metrics"
)

// session owns the filter state of one analysis over a snapshot of a match.
type session struct {
	id         string
	matchID    string
	ourTeams   []string
	events     []model.Event
	engine     *filter.Engine
	translator *chartclick.Translator

	mu       sync.Mutex
	state    filter.State
	computed bool
	key      string
	indices  []int
	filtered []model.Event
}

// view renders the session; callers hold mu.
func (ss *session) view() types.SessionView {
	return types.SessionView{
		ID:       ss.id,
		MatchID:  ss.matchID,
		OurTeams: append([]string{}, ss.ourTeams...),
		Filters:  ss.state.Descriptors(),
		Total:    len(ss.events),
		Filtered: len(ss.filtered),
	}
}

// recompute refreshes the filtered set after a state change; callers hold mu.
// An unchanged descriptor list, or a result selecting the same events, keeps
// the previous slice.
func (ss *session) recompute() {
	key := ss.state.Key()
	if ss.computed && key == ss.key {
		metrics.RecordFilterCacheHit()
		return
	}

	start := time.Now()
	indices := ss.engine.Indices(ss.events, ss.state.Filters)
	ss.key = key
	if ss.computed && slices.Equal(indices, ss.indices) {
		metrics.RecordFilterCacheHit()
		return
	}

	filtered := make([]model.Event, len(indices))
	for i, idx := range indices {
		filtered[i] = ss.events[idx]
	}
	ss.indices = indices
	ss.filtered = filtered
	ss.computed = true
	metrics.RecordFilterApplication(float64(time.Since(start).Microseconds())/1000, len(filtered))
}

// CreateSession snapshots the events of matchID into a new analysis session.
// The "our teams" set comes from ourTeams, else the configured override, else
// the most frequent team in the match.
func (s *Service) CreateSession(ctx context.Context, matchID string, ourTeams []string) (types.SessionView, error) {
	store, _, err := s.components()
	if err != nil {
		return types.SessionView{}, err
	}
	events, err := store.Events(ctx, matchID)
	if err != nil {
		return types.SessionView{}, err
	}

	teams := compactNames(ourTeams)
	if len(teams) == 0 {
		teams = append([]string{}, s.ourTeams...)
	}
	if len(teams) == 0 {
		teams = classify.DetectOurTeams(events)
	}

	ss := &session{
		id:       uuid.NewString(),
		matchID:  matchID,
		ourTeams: teams,
		events:   events,
		engine:   filter.NewEngine(filter.WithOurTeams(teams...)),
		translator: chartclick.NewTranslator(
			chartclick.WithLogger(s.logger.Named("chartclick")),
			chartclick.WithOurTeams(teams...),
		),
		state: filter.NewState(),
	}
	ss.recompute()

	s.sessMu.Lock()
	for len(s.order) >= s.maxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
		s.logger.Info(ctx, "session evicted", logger.String("sessionID", oldest))
	}
	s.sessions[ss.id] = ss
	s.order = append(s.order, ss.id)
	active := len(s.sessions)
	s.sessMu.Unlock()
	metrics.UpdateActiveSessions(active)

	s.logger.Info(ctx, "session created",
		logger.String("sessionID", ss.id),
		logger.String("matchID", matchID),
		logger.Any("ourTeams", teams),
		logger.Int("events", len(events)),
	)

	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.view(), nil
}

func (s *Service) session(id string) (*session, error) {
	if _, _, err := s.components(); err != nil {
		return nil, err
	}
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	ss, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ss, nil
}

// Session returns the current view of a session.
func (s *Service) Session(_ context.Context, id string) (types.SessionView, error) {
	ss, err := s.session(id)
	if err != nil {
		return types.SessionView{}, err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.view(), nil
}

// SessionEvents returns the events passing the session filters, in match
// order.
func (s *Service) SessionEvents(_ context.Context, id string) ([]model.Event, error) {
	ss, err := s.session(id)
	if err != nil {
		return nil, err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return append([]model.Event{}, ss.filtered...), nil
}

// SessionSummary aggregates the filtered events of a session.
func (s *Service) SessionSummary(ctx context.Context, id string) (summary.Report, error) {
	events, err := s.SessionEvents(ctx, id)
	if err != nil {
		return summary.Report{}, err
	}
	return s.Summarize(events), nil
}

// Click decodes a chart click payload and toggles its descriptors into the
// session. Payloads that decode but cannot be interpreted leave the filters
// unchanged and report applied=false.
func (s *Service) Click(ctx context.Context, id string, raw []byte) (types.ClickResult, error) {
	ss, err := s.session(id)
	if err != nil {
		return types.ClickResult{}, err
	}
	payload, err := chartclick.Decode(raw)
	if err != nil {
		metrics.RecordChartClick("invalid", string(chartclick.OutcomeIgnored))
		return types.ClickResult{}, err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	next, res := ss.translator.Handle(ctx, ss.state, payload)
	ss.state = next
	if res.Applied {
		ss.recompute()
	}
	metrics.RecordChartClick(string(chartclick.KindOf(payload)), string(res.Outcome))

	return types.ClickResult{
		Applied: res.Applied,
		Outcome: string(res.Outcome),
		Reason:  res.Reason,
		Filters: ss.state.Descriptors(),
	}, nil
}

// ToggleFilters toggles a descriptor group into the session filters.
func (s *Service) ToggleFilters(ctx context.Context, id string, group []model.Descriptor) (types.SessionView, error) {
	return s.transition(ctx, id, "toggle", func(st filter.State) filter.State { return st.Toggle(group...) })
}

// ReplaceFilters swaps the session filters for ds.
func (s *Service) ReplaceFilters(ctx context.Context, id string, ds []model.Descriptor) (types.SessionView, error) {
	return s.transition(ctx, id, "replace", func(st filter.State) filter.State { return st.Replace(ds) })
}

// ClearFilters removes every session filter.
func (s *Service) ClearFilters(ctx context.Context, id string) (types.SessionView, error) {
	return s.transition(ctx, id, "clear", filter.State.Clear)
}

func (s *Service) transition(ctx context.Context, id, op string, fn func(filter.State) filter.State) (types.SessionView, error) {
	ss, err := s.session(id)
	if err != nil {
		return types.SessionView{}, err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.state = fn(ss.state)
	ss.recompute()
	s.logger.Debug(ctx, "session filters updated",
		logger.String("sessionID", id),
		logger.String("op", op),
		logger.Int("filters", ss.state.Len()),
		logger.Int("filtered", len(ss.filtered)),
	)
	return ss.view(), nil
}

// CloseSession discards a session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if _, _, err := s.components(); err != nil {
		return err
	}
	s.sessMu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.sessMu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	active := len(s.sessions)
	s.sessMu.Unlock()

	metrics.UpdateActiveSessions(active)
	s.logger.Info(ctx, "session closed", logger.String("sessionID", id))
	return nil
}
