package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/opsatya/ved/pkg/logger"
)

// ChatHandler serves one-shot chat queries
type ChatHandler struct {
	bot    Answerer
	logger *logger.Logger
}

// NewChatHandler creates a chat handler
func NewChatHandler(bot Answerer, log *logger.Logger) *ChatHandler {
	return &ChatHandler{bot: bot, logger: log}
}

// ChatRequest is the POST /chat body
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the POST /chat reply
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat answers a query
// POST /chat {"query": "..."}
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Debug("Malformed chat request")
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		respondError(w, http.StatusBadRequest, "No query provided")
		return
	}
	if IsExit(query) {
		respondJSON(w, http.StatusOK, ChatResponse{Response: GoodbyeMessage})
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{Response: h.bot.Process(r.Context(), query)})
}
