package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/metrics"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS match_events (
    match_id TEXT NOT NULL,
    event_id TEXT NOT NULL,
    seq      INTEGER NOT NULL,
    payload  TEXT NOT NULL,
    PRIMARY KEY (match_id, event_id)
)`,
	`CREATE INDEX IF NOT EXISTS match_events_seq ON match_events (match_id, seq)`,
}

// SQLiteStore persists events as JSON rows in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	gauges gaugeUpdater
}

// NewSQLiteStore opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	cfg := newSettings(opts)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// A single connection serialises writers and keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	s.gauges.start(ctx, cfg.metricsUpdateInterval, s.Matches)
	return s, nil
}

// Append implements Store.Append inside one transaction.
func (s *SQLiteStore) Append(ctx context.Context, matchID string, events []model.Event) (int, error) {
	if strings.TrimSpace(matchID) == "" {
		return 0, ErrInvalidMatchID
	}
	payloads := make([][]byte, len(events))
	for i, e := range events {
		if e.ID() == "" {
			return 0, ErrMissingEventID
		}
		raw, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("encode event %q: %w", e.ID(), err)
		}
		payloads[i] = raw
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.wrap("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) + 1 FROM match_events WHERE match_id = ?`, matchID,
	).Scan(&next); err != nil {
		return 0, s.wrap("next seq", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO match_events (match_id, event_id, seq, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, s.wrap("prepare insert", err)
	}
	defer stmt.Close()

	added := 0
	for i, e := range events {
		res, err := stmt.ExecContext(ctx, matchID, e.ID(), next, string(payloads[i]))
		if err != nil {
			return 0, s.wrap("insert", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
			next++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, s.wrap("commit", err)
	}

	if total, err := s.Count(ctx, matchID); err == nil {
		metrics.UpdateStoredEvents(matchID, total)
	}
	return added, nil
}

// Events implements Store.Events.
func (s *SQLiteStore) Events(ctx context.Context, matchID string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM match_events WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, s.wrap("query events", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, s.wrap("scan event", err)
		}
		var e model.Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("decode stored event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("iterate events", err)
	}
	if len(out) == 0 {
		return nil, ErrMatchNotFound
	}
	return out, nil
}

// Matches implements Store.Matches.
func (s *SQLiteStore) Matches(ctx context.Context) ([]MatchInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, COUNT(*) FROM match_events GROUP BY match_id ORDER BY match_id`)
	if err != nil {
		return nil, s.wrap("query matches", err)
	}
	defer rows.Close()

	out := []MatchInfo{}
	for rows.Next() {
		var m MatchInfo
		if err := rows.Scan(&m.ID, &m.Events); err != nil {
			return nil, s.wrap("scan match", err)
		}
		out = append(out, m)
	}
	return out, s.wrap("iterate matches", rows.Err())
}

// Count implements Store.Count.
func (s *SQLiteStore) Count(ctx context.Context, matchID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_events WHERE match_id = ?`, matchID,
	).Scan(&n); err != nil {
		return 0, s.wrap("count", err)
	}
	if n == 0 {
		return 0, ErrMatchNotFound
	}
	return n, nil
}

// Close stops the gauge updater and closes the database.
func (s *SQLiteStore) Close() error {
	s.gauges.stop()
	return s.db.Close()
}

func (s *SQLiteStore) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return fmt.Errorf("sqlite %s: %w", op, err)
}
