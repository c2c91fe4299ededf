package app

import (
	"fmt"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/overlay"
)

// runPipeline reads a frame every camera tick while enabled. Errors on one
// frame are logged and the loop moves on to the next.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			if err := a.tick(now); err != nil {
				a.logger.Warn("frame skipped", slog.Any("error", err))
			}
		}
	}
}

// tick processes one camera frame.
func (a *App) tick(now time.Time) error {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return fmt.Errorf("reading frame: %w", err)
	}
	defer frame.Close()

	return a.processFrame(frame, now.UnixMilli())
}

// processFrame runs detection on img, steps the session, draws the overlay
// onto img and publishes the encoded result.
func (a *App) processFrame(img *gocv.Mat, timestamp int64) error {
	hands, err := a.detector.Detect(img)
	if err != nil {
		// Treat a failed detection as a frame without a hand.
		a.logger.Warn("detection failed", slog.Any("error", err))
		hands = nil
	}

	f := a.session.Step(overlay.FrameInput{
		Timestamp: timestamp,
		Width:     float64(img.Cols()),
		Height:    float64(img.Rows()),
		Landmarks: detector.First(hands),
	})

	a.mu.RLock()
	renderer := a.renderer
	a.mu.RUnlock()
	renderer.Draw(img, f)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *img)
	if err != nil {
		a.publish(f, nil)
		return fmt.Errorf("encoding frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory released by Close.
	jpeg := append([]byte(nil), buf.GetBytes()...)
	a.publish(f, jpeg)
	return nil
}
