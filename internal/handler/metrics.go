package handler

import (
	"fmt"
	"net/http"

	"github.com/cashcard/cashcard/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "cashcard_cache_hits_total %d\n", snap.CacheHits)
	writeMetric(w, "cashcard_cache_misses_total %d\n", snap.CacheMisses)

	writeMetric(w, "cashcard_created_total %d\n", snap.CashCardsCreated)
	writeMetric(w, "cashcard_updated_total %d\n", snap.CashCardsUpdated)
	writeMetric(w, "cashcard_deleted_total %d\n", snap.CashCardsDeleted)
	writeMetric(w, "cashcard_not_found_total %d\n", snap.CashCardsNotFound)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
