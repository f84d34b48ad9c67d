package repository

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/metrics"
)

type matchLog struct {
	events []model.Event
	ids    map[string]struct{}
}

// MemoryStore is an in-process Store. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string]*matchLog
	closed  bool
	gauges  gaugeUpdater
}

// NewMemoryStore constructs a memory store with configuration options. The
// gauge updater stops when ctx is done or on Close.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	cfg := newSettings(opts)
	s := &MemoryStore{matches: make(map[string]*matchLog)}
	s.gauges.start(ctx, cfg.metricsUpdateInterval, s.Matches)
	return s
}

// Append implements Store.Append. Events are shallow-copied so later changes
// by the caller do not leak into the store.
func (s *MemoryStore) Append(_ context.Context, matchID string, events []model.Event) (int, error) {
	if strings.TrimSpace(matchID) == "" {
		return 0, ErrInvalidMatchID
	}
	for _, e := range events {
		if e.ID() == "" {
			return 0, ErrMissingEventID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	m, ok := s.matches[matchID]
	if !ok {
		m = &matchLog{ids: make(map[string]struct{})}
		s.matches[matchID] = m
	}
	added := 0
	for _, e := range events {
		id := e.ID()
		if _, dup := m.ids[id]; dup {
			continue
		}
		m.ids[id] = struct{}{}
		m.events = append(m.events, maps.Clone(e))
		added++
	}
	metrics.UpdateStoredEvents(matchID, len(m.events))
	return added, nil
}

// Events implements Store.Events.
func (s *MemoryStore) Events(_ context.Context, matchID string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return append([]model.Event(nil), m.events...), nil
}

// Matches implements Store.Matches.
func (s *MemoryStore) Matches(_ context.Context) ([]MatchInfo, error) {
	s.mu.RLock()
	out := make([]MatchInfo, 0, len(s.matches))
	for id, m := range s.matches {
		out = append(out, MatchInfo{ID: id, Events: len(m.events)})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context, matchID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[matchID]
	if !ok {
		return 0, ErrMatchNotFound
	}
	return len(m.events), nil
}

// Close stops the gauge updater. Further appends fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.gauges.stop()
	return nil
}
