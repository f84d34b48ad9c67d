package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/agustinnadalich/conexus-play-sub000/internal/testevents"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEvents   = 5000
	defaultBatchSize   = 250
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		matchID    = flag.String("match", "", "Match ID to import into (default: replay-TIMESTAMP)")
		numEvents  = flag.Int("events", defaultNumEvents, "Number of events to generate and import")
		batchSize  = flag.Int("batch", defaultBatchSize, "Events per import request")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent import workers")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Generator seed")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Optional file for the generated events")
		verbose    = flag.Bool("verbose", false, "Log every batch and descriptor check")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	if *matchID == "" {
		*matchID = "replay-" + time.Now().Format("20060102_150405")
	}

	config := &testevents.Config{
		BaseURL:    *baseURL,
		MatchID:    *matchID,
		NumEvents:  *numEvents,
		BatchSize:  *batchSize,
		Workers:    *workers,
		Seed:       *seed,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := testevents.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "replay failed", logger.Error(err))
		os.Exit(1)
	}
}
