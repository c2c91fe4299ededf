package detector

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"
)

const epsilon = 1e-9

func TestLandmarks_Complete(t *testing.T) {
	t.Run("nil is incomplete", func(t *testing.T) {
		var l Landmarks
		if l.Complete() {
			t.Error("expected nil landmarks to be incomplete")
		}
	})

	t.Run("20 points are incomplete", func(t *testing.T) {
		l := make(Landmarks, NumLandmarks-1)
		if l.Complete() {
			t.Error("expected 20 landmarks to be incomplete")
		}
	})

	t.Run("21 points are complete", func(t *testing.T) {
		l := make(Landmarks, NumLandmarks)
		if !l.Complete() {
			t.Error("expected 21 landmarks to be complete")
		}
	})
}

func TestLandmarks_Pixels(t *testing.T) {
	hand := OpenPalmLandmarks()
	l := hand.Landmarks()

	points := l.Pixels(800, 600)
	if len(points) != NumLandmarks {
		t.Fatalf("expected %d points, got %d", NumLandmarks, len(points))
	}

	tip := points[IndexTip]
	if math.Abs(tip.X-0.58*800) > epsilon {
		t.Errorf("expected index tip X %f, got %f", 0.58*800, tip.X)
	}
	if math.Abs(tip.Y-0.35*600) > epsilon {
		t.Errorf("expected index tip Y %f, got %f", 0.35*600, tip.Y)
	}
}

func TestHandLandmarks_Landmarks(t *testing.T) {
	t.Run("nil hand returns nil", func(t *testing.T) {
		var hand *HandLandmarks
		if hand.Landmarks() != nil {
			t.Error("expected nil landmarks for nil hand")
		}
	})

	t.Run("copy is independent", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		l := hand.Landmarks()
		l[Wrist].X = 42

		if hand.Points[Wrist].X == 42 {
			t.Error("mutating the slice must not change the hand")
		}
	})
}

func TestFirst(t *testing.T) {
	if First(nil) != nil {
		t.Error("expected nil for no hands")
	}

	hands := []HandLandmarks{PinchLandmarks(0.5, 0.5), FistLandmarks()}
	first := First(hands)
	if first[ThumbTip].X != hands[0].Points[ThumbTip].X {
		t.Error("expected the first hand to be returned")
	}
}

func TestConnections(t *testing.T) {
	if len(Connections) != 23 {
		t.Fatalf("expected 23 connections, got %d", len(Connections))
	}
	for _, c := range Connections {
		if c[0] < 0 || c[0] >= NumLandmarks || c[1] < 0 || c[1] >= NumLandmarks {
			t.Errorf("connection %v out of range", c)
		}
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{FistLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPinchLandmarks(t *testing.T) {
	hand := PinchLandmarks(0.5, 0.4)

	thumb := hand.Points[ThumbTip]
	index := hand.Points[IndexTip]

	if math.Abs(index.X-thumb.X-0.01) > epsilon {
		t.Errorf("expected tips 0.01 apart, got %f", index.X-thumb.X)
	}
	if thumb.Y != 0.4 || index.Y != 0.4 {
		t.Errorf("expected both tips at y=0.4, got %f and %f", thumb.Y, index.Y)
	}
}

func TestOpenPalmLandmarks(t *testing.T) {
	landmarks := OpenPalmLandmarks()

	t.Run("fingers are properly ordered left to right", func(t *testing.T) {
		if landmarks.Points[PinkyMCP].X >= landmarks.Points[RingMCP].X {
			t.Error("pinky should be to the left of ring finger")
		}
		if landmarks.Points[RingMCP].X >= landmarks.Points[MiddleMCP].X {
			t.Error("ring should be to the left of middle finger")
		}
		if landmarks.Points[MiddleMCP].X >= landmarks.Points[IndexMCP].X {
			t.Error("middle should be to the left of index finger")
		}
	})
}

func TestServiceScript_AcceptsFlags(t *testing.T) {
	path := findFile(landmarkerScript, "scripts")
	if path == "" {
		t.Fatalf("expected %s to be found under scripts/", landmarkerScript)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}

	args := serviceArgs(DefaultConfig())
	for i := 0; i < len(args); i += 2 {
		if !strings.Contains(string(src), `"`+args[i]+`"`) {
			t.Errorf("script does not declare flag %s", args[i])
		}
	}
	if args[1] != "1" {
		t.Errorf("expected --num-hands 1, got %s", args[1])
	}
}
