package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Answerer answers one chat query
type Answerer interface {
	Process(ctx context.Context, text string) string
}

// GoodbyeMessage ends a chat session
const GoodbyeMessage = "Goodbye! 👋"

// IsExit reports a session-ending query
func IsExit(query string) bool {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
