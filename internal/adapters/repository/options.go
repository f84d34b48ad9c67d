package repository

import (
	"context"
	"sync"
	"time"

	"github.com/agustinnadalich/conexus-play-sub000/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

type settings struct {
	metricsUpdateInterval time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{metricsUpdateInterval: defaultMetricsUpdateInterval}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithMetricsUpdateInterval sets how often per-match gauges are refreshed.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// gaugeUpdater periodically republishes per-match event counts.
type gaugeUpdater struct {
	wg       sync.WaitGroup
	stopChan chan struct{}
	once     sync.Once
}

func (g *gaugeUpdater) start(ctx context.Context, interval time.Duration, list func(context.Context) ([]MatchInfo, error)) {
	g.stopChan = make(chan struct{})
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-g.stopChan:
				return
			case <-ticker.C:
				matches, err := list(ctx)
				if err != nil {
					continue
				}
				for _, m := range matches {
					metrics.UpdateStoredEvents(m.ID, m.Events)
				}
			}
		}
	}()
}

func (g *gaugeUpdater) stop() {
	g.once.Do(func() {
		if g.stopChan != nil {
			close(g.stopChan)
		}
	})
	g.wg.Wait()
}
