package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/IANDYI/care-log/internal/core/growth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check endpoints
// OpenShift compatible: /health, /health/ready, /health/live
type HealthHandler struct {
	db         Pinger
	references *growth.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, references *growth.Store) *HealthHandler {
	return &HealthHandler{
		db:         db,
		references: references,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Reference string    `json:"reference,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /health - general health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready handles GET /health/ready - readiness probe
// Requires database connectivity and a loaded growth reference table
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("Readiness check failed: database: %v", err)
		writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Timestamp: time.Now()})
		return
	}
	table := h.references.Table()
	if table == nil {
		log.Printf("Readiness check failed: no growth reference table loaded")
		writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Timestamp: time.Now()})
		return
	}

	writeHealth(w, http.StatusOK, HealthResponse{Status: "ready", Reference: table.Source(), Timestamp: time.Now()})
}

// Live handles GET /health/live - liveness probe
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, HealthResponse{Status: "alive", Timestamp: time.Now()})
}

func writeHealth(w http.ResponseWriter, statusCode int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
	}
}

// Metrics handles GET /metrics - Prometheus metrics endpoint
func Metrics() http.Handler {
	return promhttp.Handler()
}
