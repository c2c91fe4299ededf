package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/geometry"
	"github.com/ayusman/airtext/internal/overlay"
)

// SessionIDHeader carries the id assigned to a websocket session.
const SessionIDHeader = "X-Airtext-Session"

// Client message types.
const (
	MessageFrame = "frame"
	MessageReset = "reset"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// clientMessage is one message from the browser. Landmarks is null when no
// hand was detected.
type clientMessage struct {
	Type      string             `json:"type"`
	Timestamp int64              `json:"timestamp"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Landmarks detector.Landmarks `json:"landmarks"`
}

type errorMessage struct {
	Error string `json:"error"`
}

// SessionHandler gives every websocket connection its own overlay session.
// The browser runs the detector and sends landmarks; each accepted frame is
// answered with the settled overlay state.
type SessionHandler struct {
	config   func() overlay.Config
	measurer geometry.TextMeasurer
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[string]*overlay.Session
}

// NewSessionHandler creates a SessionHandler. config is called for every new
// connection so settings changes apply to the next session.
func NewSessionHandler(config func() overlay.Config, m geometry.TextMeasurer, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SessionHandler{
		config:   config,
		measurer: m,
		logger:   logger,
		clients:  make(map[string]*overlay.Session),
	}
}

// Clients returns the number of connected sessions.
func (h *SessionHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()

	conn, err := upgrader.Upgrade(w, r, http.Header{SessionIDHeader: []string{id}})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	session := overlay.NewSession(h.config(), h.measurer, h.logger.With(slog.String("session", id)))

	h.mu.Lock()
	h.clients[id] = session
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		h.logger.Info("client disconnected", slog.String("session", id))
	}()

	h.logger.Info("client connected", slog.String("session", id), slog.String("remote", r.RemoteAddr))
	h.serve(conn, session)
}

// serve runs the read loop of one connection. Frames whose timestamp does
// not increase are dropped without a reply.
func (h *SessionHandler) serve(conn *websocket.Conn, session *overlay.Session) {
	var (
		last          int64
		haveLast      bool
		width, height float64
	)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if conn.WriteJSON(errorMessage{Error: "invalid message"}) != nil {
				return
			}
			continue
		}

		var reply interface{}
		switch msg.Type {
		case MessageFrame:
			if haveLast && msg.Timestamp <= last {
				continue
			}
			last, haveLast = msg.Timestamp, true
			width, height = msg.Width, msg.Height

			reply = session.Step(overlay.FrameInput{
				Timestamp: msg.Timestamp,
				Width:     msg.Width,
				Height:    msg.Height,
				Landmarks: msg.Landmarks,
			})
		case MessageReset:
			session.Reset()
			reply = session.Snapshot(width, height)
		default:
			reply = errorMessage{Error: "unknown message type " + msg.Type}
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("websocket write failed", slog.Any("error", err))
			return
		}
	}
}
