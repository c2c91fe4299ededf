package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ayusman/airtext/internal/config"
	"github.com/ayusman/airtext/internal/store"
)

// ApplyFunc receives the merged configuration after an update has been
// validated and persisted.
type ApplyFunc func(config.Config) error

// SettingsHandler serves and updates the runtime-editable settings.
type SettingsHandler struct {
	store *store.Store
	apply ApplyFunc

	mu     sync.RWMutex
	config config.Config
}

// NewSettingsHandler creates a handler starting from cfg, which should
// already include any stored overrides. apply may be nil.
func NewSettingsHandler(s *store.Store, cfg config.Config, apply ApplyFunc) *SettingsHandler {
	return &SettingsHandler{store: s, config: cfg, apply: apply}
}

// Current returns the configuration with all accepted updates applied.
func (h *SettingsHandler) Current() config.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// ServeHTTP handles GET and PUT on /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.Current().Settings())
	case http.MethodPut:
		h.update(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// update handles PUT /api/settings with a partial map of editable keys.
// Values may be JSON strings, numbers or booleans.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req) == 0 {
		WriteError(w, http.StatusBadRequest, "No settings given")
		return
	}

	values := make(map[string]string, len(req))
	for k, v := range req {
		switch v.(type) {
		case string, float64, bool:
			values[k] = fmt.Sprint(v)
		default:
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Setting %s must be a string, number or boolean", k))
			return
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.config
	if err := next.ApplySettings(values); err != nil {
		switch {
		case errors.Is(err, config.ErrUnknownSetting):
			WriteError(w, http.StatusNotFound, err.Error())
		default:
			WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if h.store != nil {
		if err := h.store.Settings().SetMany(values); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
	}

	if h.apply != nil {
		if err := h.apply(next); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to apply settings")
			return
		}
	}

	h.config = next
	writeJSON(w, http.StatusOK, next.Settings())
}
