// Package detector provides hand landmark types and the hand detection
// collaborators that produce them.
package detector

import "github.com/ayusman/airtext/internal/geometry"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Connections is the fixed skeleton topology of a 21 point hand.
var Connections = [][2]int{
	// thumb
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	// index
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	// middle
	{Wrist, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	// ring
	{Wrist, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	// pinky
	{Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
	// palm
	{IndexMCP, MiddleMCP}, {MiddleMCP, RingMCP}, {RingMCP, PinkyMCP},
}

// Point3D is a normalized landmark coordinate. X and Y are in [0,1] relative
// to the frame; Z is relative depth and is ignored by the 2D classifiers.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Landmarks is one frame's landmark sequence as delivered by a detector.
// It may be shorter than NumLandmarks; consumers must check the length.
// A nil Landmarks means no hand was seen.
type Landmarks []Point3D

// Complete reports whether the sequence holds a full hand pose.
func (l Landmarks) Complete() bool {
	return len(l) >= NumLandmarks
}

// Pixel converts landmark i to canvas pixel space without mirroring.
func (l Landmarks) Pixel(i int, width, height float64) geometry.Point {
	return geometry.Point{X: l[i].X * width, Y: l[i].Y * height}
}

// Pixels converts every landmark to canvas pixel space.
func (l Landmarks) Pixels(width, height float64) []geometry.Point {
	points := make([]geometry.Point, len(l))
	for i := range l {
		points[i] = l.Pixel(i, width, height)
	}
	return points
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmarks returns the points as a Landmarks sequence. A nil hand yields nil.
func (h *HandLandmarks) Landmarks() Landmarks {
	if h == nil {
		return nil
	}
	out := make(Landmarks, NumLandmarks)
	copy(out, h.Points[:])
	return out
}
