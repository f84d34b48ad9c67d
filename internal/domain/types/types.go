// Package types contains the read shapes returned by the service and API.
package types

import (
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// SessionView is the externally visible state of an analysis session.
type SessionView struct {
	ID       string             `json:"id"`
	MatchID  string             `json:"match_id"`
	OurTeams []string           `json:"our_teams"`
	Filters  []model.Descriptor `json:"filters"`
	Total    int                `json:"total"`
	Filtered int                `json:"filtered"`
}

// ImportResult reports how an imported batch was handled.
type ImportResult struct {
	MatchID    string `json:"match_id"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
	Rejected   int    `json:"rejected"`
	// Stored is the match size after the import.
	Stored int `json:"stored"`
}

// ClickResult is the answer to a chart click.
type ClickResult struct {
	Applied bool               `json:"applied"`
	Outcome string             `json:"outcome"`
	Reason  string             `json:"reason,omitempty"`
	Filters []model.Descriptor `json:"filters"`
}

// MatchInfo lists a stored match.
type MatchInfo struct {
	ID     string `json:"id"`
	Events int    `json:"events"`
}

// Stats is a snapshot of service counters for monitoring.
type Stats struct {
	Started        bool   `json:"started"`
	StorageDriver  string `json:"storage_driver"`
	Matches        int    `json:"matches"`
	StoredEvents   int    `json:"stored_events"`
	ActiveSessions int    `json:"active_sessions"`
	MaxSessions    int    `json:"max_sessions"`
	DedupeSize     int64  `json:"dedupe_size"`
}
