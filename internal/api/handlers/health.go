package handlers

import (
	"context"
	"net/http"

	"github.com/opsatya/ved/pkg/database"
)

// HealthChecker reports database health
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// HealthHandler reports service status
type HealthHandler struct {
	db        HealthChecker
	stocks    int
	rulesHash string
}

// NewHealthHandler creates a health handler; db may be nil for file-backed data
func NewHealthHandler(db HealthChecker, stocks int, rulesHash string) *HealthHandler {
	return &HealthHandler{db: db, stocks: stocks, rulesHash: rulesHash}
}

// Health returns service status
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":     "ok",
		"service":    "stockbot",
		"stocks":     h.stocks,
		"rules_hash": h.rulesHash,
	}
	if h.db == nil {
		respondJSON(w, http.StatusOK, body)
		return
	}

	status, err := h.db.HealthCheck(r.Context())
	body["database"] = status
	if err != nil {
		body["status"] = "degraded"
		respondJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	respondJSON(w, http.StatusOK, body)
}
