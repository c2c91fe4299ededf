// Package server provides the HTTP server for airtext: JSON settings and
// session endpoints, the MJPEG stream of the camera pipeline and websocket
// sessions for browser-side detection.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayusman/airtext/internal/config"
	"github.com/ayusman/airtext/internal/overlay"
	"github.com/ayusman/airtext/internal/render"
	"github.com/ayusman/airtext/internal/server/api"
	"github.com/ayusman/airtext/internal/store"
)

// Pipeline is the server-side camera pipeline.
type Pipeline interface {
	api.SessionSource
	FrameSource
	Reconfigure(cfg overlay.Config, style render.Style) error
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	// Settings is the starting configuration, stored overrides included.
	Settings config.Config
	// Pipeline enables the session and stream endpoints.
	Pipeline       Pipeline
	StreamInterval time.Duration
	Logger         *slog.Logger
}

// Server represents the HTTP server for the airtext application.
type Server struct {
	config   Config
	mux      *http.ServeMux
	start    time.Time
	logger   *slog.Logger
	settings *api.SettingsHandler
	sessions *SessionHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	s.settings = api.NewSettingsHandler(s.config.Store, s.config.Settings, s.applySettings)
	s.mux.Handle("/api/settings", s.settings)

	s.sessions = NewSessionHandler(func() overlay.Config {
		return s.settings.Current().Session()
	}, render.NewFontMeasurer(), s.logger)
	s.mux.Handle("/api/ws", s.sessions)

	if s.config.Pipeline != nil {
		sessionHandler := api.NewSessionHandler(s.config.Pipeline)
		s.mux.Handle("/api/session", sessionHandler)
		s.mux.Handle("/api/session/", sessionHandler)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Pipeline, s.config.StreamInterval))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// applySettings pushes accepted settings into the pipeline. Websocket
// sessions pick them up on their next connection.
func (s *Server) applySettings(cfg config.Config) error {
	s.logger.Info("settings updated", slog.Any("settings", cfg.Settings()))
	if s.config.Pipeline == nil {
		return nil
	}
	return s.config.Pipeline.Reconfigure(cfg.Session(), cfg.Style())
}

// Settings returns the current configuration.
func (s *Server) Settings() config.Config {
	return s.settings.Current()
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	response := map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"clients": s.sessions.Clients(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
