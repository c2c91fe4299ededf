// Package render measures and draws the AR overlay: text metrics from the Go
// font family and gocv drawing of the skeleton, marker and text.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ayusman/airtext/internal/geometry"
)

// defaultFontSize matches the canvas default of "10px sans-serif".
const defaultFontSize = 10.0

// FontSpec is a parsed CSS-style font shorthand such as "bold 80px Arial".
type FontSpec struct {
	Bold   bool
	Italic bool
	Size   float64
	Family string
}

// ParseFont parses a font shorthand. Unknown keywords are ignored; the first
// token with a px or pt suffix is the size and everything after it is the
// family.
func ParseFont(spec string) (FontSpec, error) {
	fs := FontSpec{Size: defaultFontSize}
	fields := strings.Fields(spec)

	for i, tok := range fields {
		lower := strings.ToLower(tok)
		switch lower {
		case "bold", "bolder", "600", "700", "800", "900":
			fs.Bold = true
			continue
		case "italic", "oblique":
			fs.Italic = true
			continue
		}

		unit := ""
		switch {
		case strings.HasSuffix(lower, "px"):
			unit = "px"
		case strings.HasSuffix(lower, "pt"):
			unit = "pt"
		default:
			continue
		}

		size, err := strconv.ParseFloat(strings.TrimSuffix(lower, unit), 64)
		if err != nil || size <= 0 {
			return FontSpec{}, fmt.Errorf("invalid font size %q", tok)
		}
		if unit == "pt" {
			size = size * 96 / 72
		}
		fs.Size = size
		fs.Family = strings.Join(fields[i+1:], " ")
		return fs, nil
	}

	return fs, nil
}

// FontMeasurer measures text with the Go font family as a stand-in for the
// requested family. Faces are cached per spec.
type FontMeasurer struct {
	mu    sync.Mutex
	faces map[string]font.Face
}

// NewFontMeasurer creates an empty FontMeasurer.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{faces: make(map[string]font.Face)}
}

// MeasureText implements geometry.TextMeasurer. An unparseable font reports
// zero metrics.
func (m *FontMeasurer) MeasureText(text, spec string) geometry.TextMetrics {
	face, err := m.face(spec)
	if err != nil {
		return geometry.TextMetrics{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bounds, advance := font.BoundString(face, text)
	return geometry.TextMetrics{
		Width:   fixedToFloat(advance),
		Ascent:  -fixedToFloat(bounds.Min.Y),
		Descent: fixedToFloat(bounds.Max.Y),
	}
}

func (m *FontMeasurer) face(spec string) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.faces[spec]; ok {
		return f, nil
	}

	fs, err := ParseFont(spec)
	if err != nil {
		return nil, err
	}

	ttf := goregular.TTF
	switch {
	case fs.Bold && fs.Italic:
		ttf = gobolditalic.TTF
	case fs.Bold:
		ttf = gobold.TTF
	case fs.Italic:
		ttf = goitalic.TTF
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    fs.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	m.faces[spec] = face
	return face, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
