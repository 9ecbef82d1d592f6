package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opsatya/ved/internal/render"
	"github.com/opsatya/ved/pkg/logger"
)

const (
	writeWait    = 10 * time.Second
	maxQuerySize = 4096
)

// doneFrame terminates every streamed answer
type doneFrame struct {
	Done bool `json:"done"`
}

// StreamHandler serves chat over a WebSocket, one text frame per answer line
type StreamHandler struct {
	bot      Answerer
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a streaming chat handler.
// With no allowed origins only same-origin browsers may connect; "*" allows any.
func NewStreamHandler(bot Answerer, allowedOrigins []string, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		bot: bot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log,
	}
}

// originChecker returns nil for the upgrader's same-origin default
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.ToLower(strings.TrimSuffix(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// Serve upgrades the connection and answers queries until the client leaves
// GET /ws/chat
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxQuerySize)

	ctx := r.Context()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("WebSocket closed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		query := string(data)
		if IsExit(query) {
			if err := h.send(conn, GoodbyeMessage); err != nil {
				h.logger.WithError(err).Debug("WebSocket write failed")
				return
			}
			closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
				h.logger.WithError(err).Debug("WebSocket close failed")
			}
			return
		}

		if err := h.send(conn, h.bot.Process(ctx, query)); err != nil {
			h.logger.WithError(err).Debug("WebSocket write failed")
			return
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, answer string) error {
	for _, line := range render.Lines(answer) {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return err
		}
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(doneFrame{Done: true})
}
