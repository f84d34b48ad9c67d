// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/agustinnadalich/conexus-play-sub000/internal/adapters/repository"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/classify"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/dedupe"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/filter"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/summary"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/types"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/metrics"
)

// StoreFactory opens the event store when the service starts.
type StoreFactory func(ctx context.Context) (repository.Store, error)

// Service imports match events and owns the analysis sessions filtering them.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	openStore  StoreFactory
	deduper    dedupe.Deduper
	summarizer *summary.Summarizer

	// Configuration
	storageDriver  string
	dedupeSize     int
	maxImportBatch int
	maxSessions    int
	ourTeams       []string
	aliases        classify.Aliases

	// Sessions
	sessMu   sync.Mutex
	sessions map[string]*session
	order    []string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the event store. The service closes it on Stop.
func WithStore(store repository.Store, driver string) Option {
	return func(s *Service) {
		if store != nil {
			s.openStore = func(context.Context) (repository.Store, error) { return store, nil }
			s.storageDriver = driver
		}
	}
}

// WithStoreFactory defers opening the event store until Start.
func WithStoreFactory(open StoreFactory, driver string) Option {
	return func(s *Service) {
		if open != nil {
			s.openStore = open
			s.storageDriver = driver
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache. Zero keeps every
// imported ID.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxImportBatch caps the events accepted by one import.
func WithMaxImportBatch(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImportBatch = n
		}
	}
}

// WithMaxSessions bounds live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithOurTeams fixes the "our teams" set for sessions that do not name one.
func WithOurTeams(names ...string) Option {
	return func(s *Service) {
		s.ourTeams = compactNames(names)
	}
}

// WithCategoryAliases extends the alias table used by summaries.
func WithCategoryAliases(aliases map[string][]string) Option {
	return func(s *Service) {
		s.aliases = classify.Aliases(aliases)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storageDriver:  "memory",
		dedupeSize:     50_000,
		maxImportBatch: 10_000,
		maxSessions:    256,
		sessions:       make(map[string]*session),
		logger:         nil, // Will be replaced when service starts
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting match analysis service...")

	if s.openStore == nil {
		s.openStore = func(ctx context.Context) (repository.Store, error) {
			return repository.NewMemoryStore(ctx), nil
		}
	}
	store, err := s.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open %s store: %w", s.storageDriver, err)
	}
	s.store = store
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.summarizer = summary.NewSummarizer(summary.WithAliases(s.aliases))

	s.started = true
	s.logger.Info(ctx, "match analysis service started",
		logger.String("storage", s.storageDriver),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxImportBatch", s.maxImportBatch),
		logger.Int("maxSessions", s.maxSessions),
	)
	return nil
}

// Stop drops every session and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping match analysis service...")

	s.sessMu.Lock()
	s.sessions = make(map[string]*session)
	s.order = nil
	s.sessMu.Unlock()
	metrics.UpdateActiveSessions(0)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "match analysis service stopped")
}

// components returns the store and deduper of a started service.
func (s *Service) components() (repository.Store, dedupe.Deduper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.deduper, nil
}

// ImportEvents stores a batch of events for a match. Events without an id get
// a random UUID; events already imported for the match count as duplicates;
// events carrying neither category nor event_type are rejected individually.
func (s *Service) ImportEvents(ctx context.Context, matchID string, events []model.Event) (types.ImportResult, error) {
	store, deduper, err := s.components()
	if err != nil {
		return types.ImportResult{}, err
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return types.ImportResult{}, repository.ErrInvalidMatchID
	}
	if len(events) == 0 {
		return types.ImportResult{}, ErrEmptyBatch
	}
	if len(events) > s.maxImportBatch {
		return types.ImportResult{}, fmt.Errorf("%w: %d events, limit %d", ErrBatchTooLarge, len(events), s.maxImportBatch)
	}

	res := types.ImportResult{MatchID: matchID}
	fresh := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e == nil || !e.HasCategory() {
			res.Rejected++
			continue
		}
		ev := maps.Clone(e)
		if ev.ID() == "" {
			ev[model.KeyID] = uuid.NewString()
		}
		if deduper.SeenAndRecord(ctx, matchID, ev.ID()) {
			res.Duplicates++
			continue
		}
		fresh = append(fresh, ev)
	}

	if len(fresh) > 0 {
		added, err := store.Append(ctx, matchID, fresh)
		if err != nil {
			for _, ev := range fresh {
				deduper.Unrecord(ctx, matchID, ev.ID())
			}
			return types.ImportResult{}, fmt.Errorf("store events of match %q: %w", matchID, err)
		}
		res.Accepted = added
		// IDs the deduper had already evicted are caught by the store.
		res.Duplicates += len(fresh) - added
	}

	if n, err := store.Count(ctx, matchID); err == nil {
		res.Stored = n
	}

	metrics.RecordEventsImported(res.Accepted)
	metrics.RecordEventsDuplicate(res.Duplicates)
	metrics.RecordEventsRejected(res.Rejected)
	s.logger.Info(ctx, "events imported",
		logger.String("matchID", matchID),
		logger.Int("accepted", res.Accepted),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("rejected", res.Rejected),
	)
	return res, nil
}

// MatchEvents returns every stored event of a match in import order.
func (s *Service) MatchEvents(ctx context.Context, matchID string) ([]model.Event, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.Events(ctx, matchID)
}

// Matches lists the stored matches.
func (s *Service) Matches(ctx context.Context) ([]types.MatchInfo, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	matches, err := store.Matches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.MatchInfo, len(matches))
	for i, m := range matches {
		out[i] = types.MatchInfo{ID: m.ID, Events: m.Events}
	}
	return out, nil
}

// Filter applies descriptors to events without a session. An empty ourTeams
// is detected from events.
func (s *Service) Filter(ctx context.Context, events []model.Event, descs []model.Descriptor, ourTeams []string) []model.Event {
	teams := compactNames(ourTeams)
	if len(teams) == 0 {
		teams = classify.DetectOurTeams(events)
	}
	engine := filter.NewEngine(filter.WithOurTeams(teams...))

	start := time.Now()
	out := engine.Apply(events, filter.NewState(descs...).Filters)
	metrics.RecordFilterApplication(float64(time.Since(start).Microseconds())/1000, len(out))

	if s.logger != nil {
		s.logger.Debug(ctx, "stateless filter applied",
			logger.Int("events", len(events)),
			logger.Int("filters", len(descs)),
			logger.Int("matched", len(out)),
		)
	}
	return out
}

// Summarize aggregates events with the configured alias table.
func (s *Service) Summarize(events []model.Event) summary.Report {
	s.mu.RLock()
	sum := s.summarizer
	s.mu.RUnlock()
	if sum == nil {
		sum = summary.NewSummarizer(summary.WithAliases(s.aliases))
	}
	return sum.Summarize(events)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started:       s.started,
		StorageDriver: s.storageDriver,
		MaxSessions:   s.maxSessions,
	}
	if !s.started {
		return stats
	}

	if matches, err := s.store.Matches(ctx); err == nil {
		stats.Matches = len(matches)
		for _, m := range matches {
			stats.StoredEvents += m.Events
		}
	}
	stats.DedupeSize = s.deduper.Size()

	s.sessMu.Lock()
	stats.ActiveSessions = len(s.sessions)
	s.sessMu.Unlock()

	metrics.UpdateActiveSessions(stats.ActiveSessions)
	return stats
}

func compactNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
