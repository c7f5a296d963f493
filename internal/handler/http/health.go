package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/analytics"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"go.uber.org/zap"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	storage   repository.Storage
	processor *analytics.Processor
	log       *zap.Logger
}

func NewHealthHandler(storage repository.Storage, processor *analytics.Processor, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage:   storage,
		processor: processor,
		log:       log,
	}
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health reports overall service health, including database reachability
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// A lookup for a code that cannot exist exercises the full query path;
	// only a non-ErrLinkNotFound failure indicates trouble.
	dbStatus := "healthy"
	_, err := h.storage.GetLinkByShortCode(ctx, "health-check-non-existent")
	if err != nil && !errors.Is(err, repository.ErrLinkNotFound) {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbStatus == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, HealthResponse{
		Status:         status,
		Timestamp:      time.Now(),
		Version:        "1.0.0",
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(startTime).String(),
	}, statusCode)
}

// Ready is the readiness probe
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
	}, http.StatusOK)
}

// Metrics exposes basic runtime counters including the click queue
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": time.Since(startTime).Seconds(),
		"timestamp":      time.Now(),
		"version":        "1.0.0",
	}
	if h.processor != nil {
		metrics["analytics"] = h.processor.GetStats()
	}

	writeJSON(w, metrics, http.StatusOK)
}
