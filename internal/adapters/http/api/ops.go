package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/types"
	"github.com/agustinnadalich/conexus-play-sub000/pkg/metrics"
)

// StatsProvider reports service counters.
type StatsProvider interface {
	GetStats(ctx context.Context) types.Stats
}

// OpsHandler serves liveness, statistics and the Prometheus exposition.
type OpsHandler struct {
	stats   StatsProvider
	metrics http.Handler
}

// NewOpsHandler creates the operational endpoints handler.
func NewOpsHandler(stats StatsProvider) *OpsHandler {
	return &OpsHandler{
		stats:   stats,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz. A stopped service answers 503 so load
// balancers drain it during shutdown.
func (h *OpsHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.stats.GetStats(r.Context()).Started {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "stopped"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStats handles GET /stats.
func (h *OpsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.GetStats(r.Context()))
}

// HandleMetrics handles GET /metrics.
func (h *OpsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
