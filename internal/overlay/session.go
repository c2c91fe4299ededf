package overlay

import (
	"log/slog"
	"sync"

	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/geometry"
	"github.com/ayusman/airtext/internal/gesture"
)

// Default overlay settings.
const (
	DefaultTargetWord = "Hi"
	DefaultFont       = "bold 80px Arial"
)

// Config holds the overlay behaviour of a session.
type Config struct {
	TargetWord string
	Font       string
	RevealMode RevealMode
	// GateVisibility hides the text while the palm is closed.
	GateVisibility bool
	// Mirror flips the fingertip X used for the reveal trigger and the
	// marker, matching a mirrored camera preview.
	Mirror     bool
	Thresholds gesture.Thresholds
}

// DefaultConfig returns the standard overlay configuration.
func DefaultConfig() Config {
	return Config{
		TargetWord:     DefaultTargetWord,
		Font:           DefaultFont,
		RevealMode:     RevealByPosition,
		GateVisibility: true,
		Mirror:         true,
		Thresholds:     gesture.DefaultThresholds(),
	}
}

// FrameInput is one already de-duplicated detector result together with the
// canvas it should be mapped onto. Nil Landmarks means no hand.
type FrameInput struct {
	Timestamp int64              `json:"timestamp"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Landmarks detector.Landmarks `json:"landmarks"`
}

// Frame is the settled overlay state after a frame, ready for rendering.
type Frame struct {
	Timestamp int64              `json:"timestamp"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Gesture   gesture.State      `json:"gesture"`
	Pinch     *gesture.PinchInfo `json:"pinch"`
	Text      string             `json:"text"`
	Visible   bool               `json:"visible"`
	Anchor    geometry.Point     `json:"anchor"`
	Dragging  bool               `json:"dragging"`
	Reveal    RevealState        `json:"reveal"`
	Skeleton  []geometry.Point   `json:"skeleton,omitempty"`
	Marker    *geometry.Point    `json:"marker,omitempty"`
	Font      string             `json:"font"`
}

// Session owns the reveal state, the text anchor and the drag session of one
// viewer. Step, Snapshot and Reset are serialized, so Reset is safe to call
// from another goroutine at any time, including mid-drag.
type Session struct {
	mu         sync.Mutex
	config     Config
	classifier *gesture.Classifier
	measurer   geometry.TextMeasurer
	reveal     *Reveal
	drag       *Drag
	visible    bool
	logger     *slog.Logger
}

// NewSession creates a session. The measurer is used to hit-test pinches
// against the text; without one, dragging never starts.
func NewSession(cfg Config, m geometry.TextMeasurer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		measurer: m,
		logger:   logger,
		drag:     NewDrag(),
	}
	s.apply(cfg)
	return s
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Reconfigure replaces the configuration and clears all state.
func (s *Session) Reconfigure(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(cfg)
	s.drag.Reset()
}

func (s *Session) apply(cfg Config) {
	if cfg.Font == "" {
		cfg.Font = DefaultFont
	}
	s.config = cfg
	s.classifier = gesture.NewClassifier(cfg.Thresholds)
	s.config.Thresholds = s.classifier.Thresholds()
	s.reveal = NewReveal(cfg.TargetWord, cfg.RevealMode)
	s.visible = true
}

// Step advances every state machine by one frame and returns the settled
// state. Gesture classification happens before the reveal and drag machines
// consume it. A frame without a usable canvas causes no transition.
func (s *Session) Step(in FrameInput) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	lm := in.Landmarks
	state := s.classifier.State(lm)

	if in.Width <= 0 || in.Height <= 0 {
		return s.snapshot(in, state, nil, nil)
	}

	if s.config.GateVisibility && !s.drag.Dragging() {
		switch state {
		case gesture.StateOpen:
			s.visible = true
		case gesture.StateClosed:
			s.visible = false
		}
	}

	var marker *geometry.Point
	if lm.Complete() {
		tip := s.fingertip(lm, in.Width, in.Height)
		marker = &tip
		if s.reveal.Process(tip.X, in.Width) {
			s.logger.Debug("letter revealed",
				slog.Int("index", s.reveal.NextIndex()-1),
				slog.String("text", s.reveal.Text()))
		}
	}

	pinch := s.classifier.DetectPinch(lm, in.Width, in.Height)
	s.stepDrag(pinch, in.Width, in.Height)

	return s.snapshot(in, state, pinch, marker)
}

func (s *Session) stepDrag(pinch *gesture.PinchInfo, width, height float64) {
	pinching := pinch != nil && pinch.IsPinching

	switch {
	case pinching && s.drag.Dragging():
		s.drag.Update(pinch.Point)
	case pinching && s.visible:
		anchor := s.drag.Anchor(width, height)
		if geometry.IsPointInTextBounds(&pinch.Point, s.reveal.Text(), &anchor, s.measurer, s.config.Font) {
			s.drag.Start(pinch.Point, width, height)
			s.logger.Debug("drag started", slog.Float64("x", pinch.Point.X), slog.Float64("y", pinch.Point.Y))
		}
	case s.drag.Dragging():
		s.drag.Stop()
		anchor := s.drag.Anchor(width, height)
		s.logger.Debug("drag stopped", slog.Float64("x", anchor.X), slog.Float64("y", anchor.Y))
	}
}

// fingertip returns the index fingertip in canvas pixels, mirrored on X
// when configured.
func (s *Session) fingertip(lm detector.Landmarks, width, height float64) geometry.Point {
	tip := lm[detector.IndexTip]
	x := tip.X
	if s.config.Mirror {
		x = 1 - x
	}
	return geometry.Point{X: x * width, Y: tip.Y * height}
}

// Snapshot returns the current state for a canvas of the given size without
// advancing any state machine.
func (s *Session) Snapshot(width, height float64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(FrameInput{Width: width, Height: height}, gesture.StateUnknown, nil, nil)
}

func (s *Session) snapshot(in FrameInput, state gesture.State, pinch *gesture.PinchInfo, marker *geometry.Point) Frame {
	f := Frame{
		Timestamp: in.Timestamp,
		Width:     in.Width,
		Height:    in.Height,
		Gesture:   state,
		Pinch:     pinch,
		Text:      s.reveal.Text(),
		Visible:   s.visible,
		Anchor:    s.drag.Anchor(in.Width, in.Height),
		Dragging:  s.drag.Dragging(),
		Reveal:    s.reveal.State(),
		Marker:    marker,
		Font:      s.config.Font,
	}
	if in.Landmarks.Complete() {
		f.Skeleton = in.Landmarks.Pixels(in.Width, in.Height)
	}
	return f
}

// Reset clears the reveal state, the anchor and the drag session in one step.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveal.Reset()
	s.drag.Reset()
	s.visible = true
	s.logger.Debug("session reset")
}
