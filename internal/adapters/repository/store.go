// Package repository stores imported match events.
package repository

import (
	"context"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// MatchInfo summarises one stored match.
type MatchInfo struct {
	ID     string `json:"id"`
	Events int    `json:"events"`
}

// Store keeps the events of each match in import order.
type Store interface {
	// Append stores events under matchID and returns how many were new.
	// Events whose ID is already stored for the match are skipped. Every
	// event must carry an ID.
	Append(ctx context.Context, matchID string, events []model.Event) (int, error)

	// Events returns the events of a match in import order.
	// Returns ErrMatchNotFound if nothing was imported for matchID.
	Events(ctx context.Context, matchID string) ([]model.Event, error)

	// Matches lists stored matches ordered by ID.
	Matches(ctx context.Context) ([]MatchInfo, error)

	// Count returns the number of events stored for a match.
	Count(ctx context.Context, matchID string) (int, error)

	Close() error
}
