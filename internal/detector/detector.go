package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinDetectionConf is the minimum hand detection confidence (0.0-1.0).
	MinDetectionConf float64

	// MinPresenceConf is the minimum hand presence confidence (0.0-1.0).
	MinPresenceConf float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig tracks a single hand with lowered confidence thresholds so a
// partially visible hand still drives the overlay.
func DefaultConfig() Config {
	return Config{
		MaxHands:         1,
		MinDetectionConf: 0.3,
		MinPresenceConf:  0.3,
		MinTrackingConf:  0.3,
	}
}

// First returns the landmarks of the first detected hand, or nil.
func First(hands []HandLandmarks) Landmarks {
	if len(hands) == 0 {
		return nil
	}
	return hands[0].Landmarks()
}
