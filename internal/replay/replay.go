// Package replay reads recorded landmark sessions and steps them through an
// overlay session. A recording is JSON Lines, one overlay.FrameInput per
// line; blank lines are skipped.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ayusman/airtext/internal/overlay"
)

// maxLineSize bounds a single recorded frame.
const maxLineSize = 1 << 20

// ErrOutOfOrder is returned for a frame whose timestamp does not increase.
var ErrOutOfOrder = errors.New("timestamp does not increase")

// Reader decodes frames from a recording.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	last    int64
	started bool
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: sc}
}

// Next returns the next frame, or io.EOF at the end of the recording.
func (r *Reader) Next() (overlay.FrameInput, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}

		var in overlay.FrameInput
		if err := json.Unmarshal([]byte(text), &in); err != nil {
			return overlay.FrameInput{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if r.started && in.Timestamp <= r.last {
			return overlay.FrameInput{}, fmt.Errorf("line %d: %w", r.line, ErrOutOfOrder)
		}
		r.last, r.started = in.Timestamp, true
		return in, nil
	}

	if err := r.scanner.Err(); err != nil {
		return overlay.FrameInput{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return overlay.FrameInput{}, io.EOF
}

// ReadAll decodes every frame of a recording.
func ReadAll(r io.Reader) ([]overlay.FrameInput, error) {
	rd := NewReader(r)

	var frames []overlay.FrameInput
	for {
		in, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, in)
	}
}

// Run steps every frame through s and returns the resulting snapshots.
func Run(s *overlay.Session, inputs []overlay.FrameInput) []overlay.Frame {
	out := make([]overlay.Frame, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, s.Step(in))
	}
	return out
}
