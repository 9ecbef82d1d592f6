package handlers

import (
	"context"
	"net/http"

	"github.com/opsatya/ved/pkg/logger"
)

// Flusher empties the completion cache
type Flusher interface {
	Clear(ctx context.Context) error
}

// CacheHandler manages the completion cache
type CacheHandler struct {
	cache  Flusher
	logger *logger.Logger
}

// NewCacheHandler creates a cache handler
func NewCacheHandler(cache Flusher, log *logger.Logger) *CacheHandler {
	return &CacheHandler{cache: cache, logger: log}
}

// Clear flushes the completion cache
// DELETE /api/cache
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to clear completion cache")
		respondError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
