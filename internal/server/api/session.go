package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/airtext/internal/overlay"
)

// SessionSource is a session whose state can be read and reset, such as
// the camera pipeline.
type SessionSource interface {
	Snapshot() overlay.Frame
	Reset()
}

// SessionHandler exposes a SessionSource over HTTP.
type SessionHandler struct {
	source SessionSource
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(source SessionSource) *SessionHandler {
	return &SessionHandler{source: source}
}

// ServeHTTP routes /api/session and /api/session/reset.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, h.source.Snapshot())
	case "reset":
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.source.Reset()
		writeJSON(w, http.StatusOK, h.source.Snapshot())
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
