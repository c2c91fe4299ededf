// Package app runs the local camera pipeline: frames are read from the
// camera, hands detected, the overlay session stepped and the result drawn
// and published as JPEG for the stream.
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ayusman/airtext/internal/capture"
	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/overlay"
	"github.com/ayusman/airtext/internal/render"
)

// Config holds configuration options for the application.
type Config struct {
	// Camera overrides the device camera built from CameraOptions.
	Camera        capture.Camera
	CameraOptions capture.Options
	// Detector overrides the MediaPipe detector built from DetectorConfig.
	Detector       detector.Detector
	DetectorConfig detector.Config
	Session        overlay.Config
	Style          render.Style
	Logger         *slog.Logger
}

// App owns the camera pipeline and the session it drives.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	session  *overlay.Session
	renderer *render.Renderer
	logger   *slog.Logger

	mu      sync.RWMutex
	enabled bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	frameMu sync.RWMutex
	latest  overlay.Frame
	jpeg    []byte
	seq     uint64
}

// New creates an App. Without an explicit detector it tries MediaPipe and
// falls back to the mock detector.
func New(config Config) (*App, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	renderer, err := render.NewRenderer(config.Style)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   config,
		camera:   config.Camera,
		detector: config.Detector,
		session:  overlay.NewSession(config.Session, render.NewFontMeasurer(), logger),
		renderer: renderer,
		logger:   logger,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(config.CameraOptions)
	}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig, logger); err == nil {
			a.detector = mp
			logger.Info("using MediaPipe hand detection")
		} else {
			logger.Warn("MediaPipe not available, using mock detector; the camera pipeline will never see a hand",
				slog.Any("error", err))
			a.detector = detector.NewMockDetector()
		}
	}

	return a, nil
}

// SetEnabled enables or disables frame processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frame processing is enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Start opens the camera and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("opening camera: %w", err)
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.logger.Info("pipeline started", slog.Int("fps", a.camera.FPS()))
	return nil
}

// Stop halts the pipeline and releases the camera. The detector stays
// usable so the pipeline can be restarted.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		a.logger.Warn("closing camera", slog.Any("error", err))
	}
	a.logger.Info("pipeline stopped")
}

// Close stops the pipeline and the detector.
func (a *App) Close() error {
	a.Stop()
	return a.detector.Close()
}

// Session returns the session driven by the camera pipeline.
func (a *App) Session() *overlay.Session {
	return a.session
}

// Reconfigure applies new overlay settings and style. The session state is
// cleared.
func (a *App) Reconfigure(cfg overlay.Config, style render.Style) error {
	renderer, err := render.NewRenderer(style)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.renderer = renderer
	a.config.Session = cfg
	a.config.Style = style
	a.mu.Unlock()

	a.session.Reconfigure(cfg)
	a.publish(a.session.Snapshot(a.canvasSize()), nil)
	return nil
}

// Reset clears the session state.
func (a *App) Reset() {
	a.session.Reset()
	a.publish(a.session.Snapshot(a.canvasSize()), nil)
}

// Snapshot returns the most recent frame produced by the pipeline, or the
// idle session state when nothing has been processed yet.
func (a *App) Snapshot() overlay.Frame {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()

	if a.seq == 0 {
		return a.session.Snapshot(a.canvasSize())
	}
	return a.latest
}

// LatestJPEG returns the most recent rendered frame and its sequence number.
// The sequence is 0 until the first frame has been rendered.
func (a *App) LatestJPEG() ([]byte, uint64) {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.jpeg, a.seq
}

func (a *App) canvasSize() (float64, float64) {
	opts := a.config.CameraOptions
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = capture.DefaultWidth
	}
	if h <= 0 {
		h = capture.DefaultHeight
	}
	return float64(w), float64(h)
}

// publish stores the latest frame. A nil jpeg keeps the previous image.
func (a *App) publish(f overlay.Frame, jpeg []byte) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()

	a.latest = f
	if jpeg != nil {
		a.jpeg = jpeg
		a.seq++
	}
}
