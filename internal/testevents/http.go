package testevents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
)

// HTTPClient wraps http.Client for JSON calls against the service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(config *Config) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: config.BaseURL,
	}
}

// Do sends body as JSON (when non-nil) and decodes the response into out
// (when non-nil). It returns the status code.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func batches(events []model.Event, size int) [][]model.Event {
	if size <= 0 {
		size = len(events)
	}
	var out [][]model.Event
	for start := 0; start < len(events); start += size {
		end := min(start+size, len(events))
		out = append(out, events[start:end])
	}
	return out
}

// submitEvents imports events in batches using a worker pool. Batches may
// land out of order; the replay only checks counts and filter results.
func submitEvents(ctx context.Context, client *HTTPClient, config *Config, events []model.Event, stats *Stats) error {
	log := logger.Get()
	parts := batches(events, config.BatchSize)
	path := "/matches/" + url.PathEscape(config.MatchID) + "/events"

	log.Info(ctx, "submitting events",
		logger.Int("events", len(events)),
		logger.Int("batches", len(parts)),
		logger.Int("workers", config.Workers))

	var (
		submitted, failed             int64
		accepted, duplicate, rejected int64
	)

	batchChan := make(chan []model.Event, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < max(config.Workers, 1); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for batch := range batchChan {
				var res ImportResult
				_, err := client.Do(ctx, http.MethodPost, path, batch, &res)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "batch failed", logger.Int("worker", workerID), logger.Error(err))
					continue
				}
				atomic.AddInt64(&accepted, int64(res.Accepted))
				atomic.AddInt64(&duplicate, int64(res.Duplicates))
				atomic.AddInt64(&rejected, int64(res.Rejected))
				if config.Verbose {
					log.Info(ctx, "batch imported",
						logger.Int("worker", workerID),
						logger.Int("accepted", res.Accepted),
						logger.Int("stored", res.Stored))
				}
			}
		}(i)
	}

	go func() {
		defer close(batchChan)
		for _, batch := range parts {
			select {
			case <-ctx.Done():
				return
			case batchChan <- batch:
			}
		}
	}()

	wg.Wait()

	stats.BatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.BatchesFailed = int(atomic.LoadInt64(&failed))
	stats.EventsAccepted = int(atomic.LoadInt64(&accepted))
	stats.EventsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.EventsRejected = int(atomic.LoadInt64(&rejected))

	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.BatchesFailed > 0 {
		return fmt.Errorf("%d of %d batches failed", stats.BatchesFailed, stats.BatchesSubmitted)
	}
	return nil
}
