package testevents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run replays a synthetic match against a live service: it imports the
// events, then checks every descriptor kind through an analysis session.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting conexus replay",
		logger.String("baseURL", config.BaseURL),
		logger.String("match", config.MatchID),
		logger.Int("events", config.NumEvents),
		logger.Int("batch", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.Any("seed", config.Seed))

	client := newHTTPClient(config)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate events
	gen := New(config.Seed)
	events := gen.Match(config.NumEvents)
	stats.EventsGenerated = len(events)
	// The service assigns IDs to events lacking one; fixing them here keeps
	// the local and remote filter results comparable.
	assignIDs(events, config.Seed)

	if config.OutputFile != "" {
		if err := saveEventsToFile(ctx, config.OutputFile, events); err != nil {
			log.Warn(ctx, "failed to save events to file", logger.Error(err))
		}
	}

	// Step 3: Import events concurrently
	if err := submitEvents(ctx, client, config, events, stats); err != nil {
		return stats, fmt.Errorf("event submission failed: %w", err)
	}

	// Step 4: Verify filters through a session
	if err := verifyFilters(ctx, client, config, events, gen.OurTeam(), gen.DescriptorPool(), stats); err != nil {
		return stats, fmt.Errorf("filter verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "replay completed successfully")
	return stats, nil
}

func assignIDs(events []model.Event, seed int64) {
	for i, e := range events {
		if e.ID() == "" {
			e[model.KeyID] = fmt.Sprintf("replay-%d-%d", seed, i)
		}
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	var body struct {
		Status string `json:"status"`
	}
	if _, err := client.Do(ctx, http.MethodGet, "/healthz", nil, &body); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", body.Status)
	}
	return nil
}

// saveEventsToFile writes the generated events as a JSON array.
func saveEventsToFile(ctx context.Context, filename string, events []model.Event) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "events saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final replay statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var eventsPerSecond float64
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("eventsAccepted", stats.EventsAccepted),
		logger.Int("eventsDuplicate", stats.EventsDuplicate),
		logger.Int("eventsRejected", stats.EventsRejected),
		logger.Int("filtersChecked", stats.FiltersChecked),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
