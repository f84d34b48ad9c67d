package testevents

import "time"

// Config holds configuration for a replay run against a live service.
type Config struct {
	BaseURL    string        // Base URL of the service
	MatchID    string        // Match the events are imported into
	NumEvents  int           // Number of events to generate
	BatchSize  int           // Events per import request
	Workers    int           // Number of concurrent import workers
	Seed       int64         // Generator seed
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file receiving the generated events
	Verbose    bool          // Log every batch and descriptor check
}

// ImportResult mirrors the service's import response.
type ImportResult struct {
	MatchID    string `json:"match_id"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
	Rejected   int    `json:"rejected"`
	Stored     int    `json:"stored"`
}

// SessionView mirrors the service's session response.
type SessionView struct {
	ID       string   `json:"id"`
	MatchID  string   `json:"match_id"`
	OurTeams []string `json:"our_teams"`
	Total    int      `json:"total"`
	Filtered int      `json:"filtered"`
}

// Stats holds replay statistics.
type Stats struct {
	EventsGenerated  int
	BatchesSubmitted int
	BatchesFailed    int
	EventsAccepted   int
	EventsDuplicate  int
	EventsRejected   int
	FiltersChecked   int
	FiltersMismatch  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
