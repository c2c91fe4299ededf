package app

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airtext/internal/capture"
	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/overlay"
	"github.com/ayusman/airtext/internal/render"
)

// jpegMagic is the SOI marker every JPEG starts with.
var jpegMagic = []byte{0xFF, 0xD8}

func newTestApp(t *testing.T, hands ...detector.HandLandmarks) (*App, *detector.MockDetector) {
	t.Helper()

	frame := capture.BlankFrame(640, 480)
	t.Cleanup(func() { frame.Close() })

	det := detector.NewMockDetector()
	det.SetHands(hands)

	a, err := New(Config{
		Camera:   capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Detector: det,
		Session:  overlay.DefaultConfig(),
		Style:    render.DefaultStyle(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })

	return a, det
}

func TestNew_InvalidStyle(t *testing.T) {
	style := render.DefaultStyle()
	style.FontColor = "nope"

	_, err := New(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
		Style:    style,
	})
	if err == nil {
		t.Error("New() should reject an invalid style")
	}
}

func TestApp_SnapshotBeforeFirstFrame(t *testing.T) {
	a, _ := newTestApp(t)

	f := a.Snapshot()
	if f.Width != capture.DefaultWidth || f.Height != capture.DefaultHeight {
		t.Errorf("canvas = %vx%v, want default camera size", f.Width, f.Height)
	}
	if f.Anchor.X != 320 || f.Anchor.Y != 240 {
		t.Errorf("anchor = %+v, want canvas center", f.Anchor)
	}
	if _, seq := a.LatestJPEG(); seq != 0 {
		t.Errorf("seq = %d, want 0 before any frame", seq)
	}
}

func TestApp_ProcessFrame(t *testing.T) {
	a, det := newTestApp(t, detector.OpenPalmLandmarks())
	a.camera.Open()

	if err := a.tick(time.UnixMilli(1000)); err != nil {
		t.Fatalf("tick() error = %v", err)
	}

	if det.Calls() != 1 {
		t.Errorf("detector calls = %d, want 1", det.Calls())
	}

	f := a.Snapshot()
	if f.Text != "H" {
		t.Errorf("Text = %q, want %q", f.Text, "H")
	}
	if f.Timestamp != 1000 {
		t.Errorf("Timestamp = %d, want 1000", f.Timestamp)
	}
	if len(f.Skeleton) != detector.NumLandmarks {
		t.Errorf("skeleton has %d points, want %d", len(f.Skeleton), detector.NumLandmarks)
	}

	img, seq := a.LatestJPEG()
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	if !bytes.HasPrefix(img, jpegMagic) {
		t.Error("latest frame is not a JPEG")
	}
}

func TestApp_DetectionErrorIsNoHand(t *testing.T) {
	a, det := newTestApp(t, detector.OpenPalmLandmarks())
	det.SetError(errors.New("subprocess died"))
	a.camera.Open()

	if err := a.tick(time.UnixMilli(1)); err != nil {
		t.Fatalf("tick() error = %v", err)
	}
	if f := a.Snapshot(); f.Text != "" || f.Skeleton != nil {
		t.Errorf("frame after detection error = %+v, want no hand", f)
	}
}

func TestApp_TickCameraClosed(t *testing.T) {
	a, _ := newTestApp(t)

	err := a.tick(time.Now())
	if !errors.Is(err, capture.ErrCameraNotOpen) {
		t.Errorf("tick() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestApp_ResetAndReconfigure(t *testing.T) {
	a, _ := newTestApp(t, detector.OpenPalmLandmarks())
	a.camera.Open()
	a.tick(time.UnixMilli(1))
	a.tick(time.UnixMilli(2))

	if f := a.Snapshot(); f.Text != "Hi" {
		t.Fatalf("Text = %q, want %q", f.Text, "Hi")
	}

	a.Reset()
	if f := a.Snapshot(); f.Text != "" {
		t.Errorf("Text after Reset = %q, want empty", f.Text)
	}

	cfg := overlay.DefaultConfig()
	cfg.TargetWord = "Yo"
	style := render.DefaultStyle()
	style.FontColor = "#00ff00"
	if err := a.Reconfigure(cfg, style); err != nil {
		t.Fatalf("Reconfigure() error = %v", err)
	}
	a.tick(time.UnixMilli(3))
	if f := a.Snapshot(); f.Text != "Y" {
		t.Errorf("Text after Reconfigure = %q, want %q", f.Text, "Y")
	}

	style.LineColor = "bogus"
	if err := a.Reconfigure(cfg, style); err == nil {
		t.Error("Reconfigure() should reject an invalid style")
	}
}

func TestApp_StartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pipeline test in short mode")
	}

	a, det := newTestApp(t, detector.OpenPalmLandmarks())
	a.camera.SetFPS(50)
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !a.Running() {
		t.Error("Running() should be true after Start()")
	}

	deadline := time.Now().Add(2 * time.Second)
	for det.Calls() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if det.Calls() < 2 {
		t.Fatalf("pipeline processed %d frames, want at least 2", det.Calls())
	}

	a.Stop()
	if a.Running() {
		t.Error("Running() should be false after Stop()")
	}
	if a.camera.IsOpen() {
		t.Error("camera should be closed after Stop()")
	}

	if f := a.Snapshot(); f.Text != "Hi" {
		t.Errorf("Text = %q, want %q", f.Text, "Hi")
	}
}

func TestApp_DisabledSkipsFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pipeline test in short mode")
	}

	a, det := newTestApp(t, detector.OpenPalmLandmarks())
	a.camera.SetFPS(50)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	a.Stop()

	if det.Calls() != 0 {
		t.Errorf("disabled pipeline ran detection %d times", det.Calls())
	}
}
