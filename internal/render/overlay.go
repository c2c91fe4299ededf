package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/geometry"
	"github.com/ayusman/airtext/internal/overlay"
)

// hersheyPixelsPerScale approximates the glyph height of the Hershey simplex
// font at scale 1.0, used to map CSS pixel sizes onto gocv font scales.
const hersheyPixelsPerScale = 30.0

// Style holds the drawing options for the overlay.
type Style struct {
	FontColor    string
	PointColor   string
	PointRadius  int
	LineColor    string
	LineWidth    int
	MarkerColor  string
	MarkerRadius int
}

// DefaultStyle returns the standard overlay style.
func DefaultStyle() Style {
	return Style{
		FontColor:    "purple",
		PointColor:   "#00BFFF",
		PointRadius:  4,
		LineColor:    "#FFFFFF",
		LineWidth:    2,
		MarkerColor:  "red",
		MarkerRadius: 10,
	}
}

// Renderer draws overlay frames onto camera images.
type Renderer struct {
	font   color.RGBA
	point  color.RGBA
	line   color.RGBA
	marker color.RGBA
	style  Style
}

// NewRenderer validates the style colors and returns a Renderer.
func NewRenderer(style Style) (*Renderer, error) {
	r := &Renderer{style: style}

	for _, c := range []struct {
		name string
		dst  *color.RGBA
	}{
		{style.FontColor, &r.font},
		{style.PointColor, &r.point},
		{style.LineColor, &r.line},
		{style.MarkerColor, &r.marker},
	} {
		parsed, err := ParseColor(c.name)
		if err != nil {
			return nil, fmt.Errorf("overlay style: %w", err)
		}
		*c.dst = parsed
	}

	return r, nil
}

// Draw renders the skeleton, the index fingertip marker and, when visible,
// the revealed text centered on the anchor. img must match the frame's
// canvas size.
func (r *Renderer) Draw(img *gocv.Mat, f overlay.Frame) {
	if img == nil || img.Empty() {
		return
	}

	if len(f.Skeleton) >= detector.NumLandmarks {
		for _, c := range detector.Connections {
			gocv.Line(img, toImagePoint(f.Skeleton[c[0]]), toImagePoint(f.Skeleton[c[1]]), r.line, r.style.LineWidth)
		}
		for _, p := range f.Skeleton {
			gocv.Circle(img, toImagePoint(p), r.style.PointRadius, r.point, -1)
		}
		gocv.Circle(img, toImagePoint(f.Skeleton[detector.IndexTip]), r.style.MarkerRadius, r.marker, -1)
	}

	if f.Visible && f.Text != "" {
		r.drawText(img, f.Text, f.Anchor, f.Font)
	}
}

func (r *Renderer) drawText(img *gocv.Mat, text string, at geometry.Point, spec string) {
	fs, err := ParseFont(spec)
	if err != nil {
		fs = FontSpec{Size: defaultFontSize}
	}

	scale := fs.Size / hersheyPixelsPerScale
	thickness := 2
	if fs.Bold {
		thickness = 4
	}
	face := gocv.FontHersheySimplex
	if fs.Italic {
		face |= gocv.FontItalic
	}

	// textAlign center, textBaseline middle.
	size := gocv.GetTextSize(text, face, scale, thickness)
	origin := image.Point{
		X: int(at.X) - size.X/2,
		Y: int(at.Y) + size.Y/2,
	}
	gocv.PutText(img, text, origin, face, scale, r.font, thickness)
}

func toImagePoint(p geometry.Point) image.Point {
	return image.Point{X: int(p.X), Y: int(p.Y)}
}
