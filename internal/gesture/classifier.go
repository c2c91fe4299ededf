// Package gesture turns one frame of hand landmarks into discrete gesture
// signals: open or closed palm, and thumb-index pinch.
package gesture

import (
	"math"

	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/geometry"
)

// State is the palm classification of a single frame.
type State string

const (
	// StateOpen means at least MinExtendedFingers fingers are extended.
	StateOpen State = "open"
	// StateClosed means a full hand was seen but too few fingers are extended.
	StateClosed State = "closed"
	// StateUnknown means no hand was seen.
	StateUnknown State = "unknown"
)

// Default thresholds.
const (
	DefaultExtensionRatio     = 1.5
	DefaultMinExtendedFingers = 3
	DefaultPinchThreshold     = 40.0
)

// palmBase is the reference landmark every finger distance is measured from.
const palmBase = detector.MiddleMCP

// fingers pairs each non-thumb fingertip with its base joint.
var fingers = [4]struct{ tip, base int }{
	{detector.IndexTip, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddleMCP},
	{detector.RingTip, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyMCP},
}

// Thresholds configures the classifier.
type Thresholds struct {
	// ExtensionRatio is the tip-to-palm over base-to-palm ratio a finger must
	// strictly exceed to count as extended.
	ExtensionRatio float64 `json:"extension_ratio"`
	// MinExtendedFingers is how many of the four fingers must be extended
	// for the hand to be open.
	MinExtendedFingers int `json:"min_extended_fingers"`
	// PinchDistance is the pixel distance between thumb and index tips below
	// which the hand is pinching.
	PinchDistance float64 `json:"pinch_distance"`
}

// DefaultThresholds returns the standard classifier thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExtensionRatio:     DefaultExtensionRatio,
		MinExtendedFingers: DefaultMinExtendedFingers,
		PinchDistance:      DefaultPinchThreshold,
	}
}

// PinchInfo describes the thumb-index relationship in one frame.
// Point and Distance are always filled so callers can add their own hysteresis.
type PinchInfo struct {
	IsPinching bool           `json:"is_pinching"`
	Point      geometry.Point `json:"point"`
	Distance   float64        `json:"distance"`
}

// Classifier evaluates landmarks against a fixed set of thresholds.
// It holds no per-frame state and is safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier. Zero, negative or non-finite fields fall
// back to the defaults.
func NewClassifier(t Thresholds) *Classifier {
	d := DefaultThresholds()
	if !positive(t.ExtensionRatio) {
		t.ExtensionRatio = d.ExtensionRatio
	}
	if t.MinExtendedFingers <= 0 {
		t.MinExtendedFingers = d.MinExtendedFingers
	}
	if !positive(t.PinchDistance) {
		t.PinchDistance = d.PinchDistance
	}
	return &Classifier{thresholds: t}
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}

// Thresholds returns the thresholds in effect.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// ExtendedFingers counts the non-thumb fingers whose extension ratio exceeds
// the threshold. Fewer than 21 landmarks yield 0.
//
// The middle finger's base joint is the palm reference itself, so its ratio
// is +Inf whenever its tip is off the palm base and NaN when it is on it.
func (c *Classifier) ExtendedFingers(lm detector.Landmarks) int {
	if !lm.Complete() {
		return 0
	}

	palm := point2D(lm[palmBase])
	extended := 0
	for _, f := range fingers {
		ratio := geometry.Distance(point2D(lm[f.tip]), palm) / geometry.Distance(point2D(lm[f.base]), palm)
		if ratio > c.thresholds.ExtensionRatio {
			extended++
		}
	}
	return extended
}

// IsHandOpen reports whether enough fingers are extended. It returns false
// when fewer than 21 landmarks are supplied.
func (c *Classifier) IsHandOpen(lm detector.Landmarks) bool {
	if !lm.Complete() {
		return false
	}
	return c.ExtendedFingers(lm) >= c.thresholds.MinExtendedFingers
}

// State classifies the palm. A nil landmark sequence is StateUnknown.
func (c *Classifier) State(lm detector.Landmarks) State {
	if lm == nil {
		return StateUnknown
	}
	if c.IsHandOpen(lm) {
		return StateOpen
	}
	return StateClosed
}

// DetectPinch measures the thumb and index tips in canvas pixels.
// No axis is mirrored. Returns nil when fewer than 21 landmarks are supplied.
func (c *Classifier) DetectPinch(lm detector.Landmarks, width, height float64) *PinchInfo {
	return detectPinch(lm, width, height, c.thresholds.PinchDistance)
}

var defaultClassifier = NewClassifier(DefaultThresholds())

// IsHandOpen classifies lm with the default thresholds.
func IsHandOpen(lm detector.Landmarks) bool {
	return defaultClassifier.IsHandOpen(lm)
}

// GestureState classifies lm with the default thresholds.
func GestureState(lm detector.Landmarks) State {
	return defaultClassifier.State(lm)
}

// DetectPinch measures the pinch against an explicit pixel threshold.
func DetectPinch(lm detector.Landmarks, width, height, threshold float64) *PinchInfo {
	return detectPinch(lm, width, height, threshold)
}

func detectPinch(lm detector.Landmarks, width, height, threshold float64) *PinchInfo {
	if !lm.Complete() {
		return nil
	}

	index := lm.Pixel(detector.IndexTip, width, height)
	thumb := lm.Pixel(detector.ThumbTip, width, height)
	distance := geometry.Distance(index, thumb)

	return &PinchInfo{
		IsPinching: distance < threshold,
		Point:      geometry.Midpoint(index, thumb),
		Distance:   distance,
	}
}

func point2D(p detector.Point3D) geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}
