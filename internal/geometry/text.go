package geometry

// Text hit-testing constants.
const (
	// HitPadding is added on every side of the text box before testing containment.
	HitPadding = 20.0
	// FallbackAscent is used when a measurement reports no ascent.
	FallbackAscent = 40.0
	// FallbackDescent is used when a measurement reports no descent.
	FallbackDescent = 20.0
)

// TextMetrics describes the rendered extent of a string.
// Zero Ascent or Descent means the measurer could not supply bounding-box
// metrics and the fallback values apply.
type TextMetrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// TextMeasurer measures a string rendered in the given font.
type TextMeasurer interface {
	MeasureText(text, font string) TextMetrics
}

// TextBounds returns the box of text drawn centered horizontally and
// vertically (middle baseline) around pos.
func TextBounds(text string, pos Point, m TextMeasurer, font string) Rect {
	metrics := m.MeasureText(text, font)

	ascent := metrics.Ascent
	if ascent == 0 {
		ascent = FallbackAscent
	}
	descent := metrics.Descent
	if descent == 0 {
		descent = FallbackDescent
	}
	height := ascent + descent

	return Rect{
		Min: Point{X: pos.X - metrics.Width/2, Y: pos.Y - height/2},
		Max: Point{X: pos.X + metrics.Width/2, Y: pos.Y + height/2},
	}
}

// IsPointInTextBounds reports whether point falls on the padded bounding box
// of text drawn at pos. Any missing argument yields false.
func IsPointInTextBounds(point *Point, text string, pos *Point, m TextMeasurer, font string) bool {
	if point == nil || text == "" || pos == nil || m == nil {
		return false
	}
	return TextBounds(text, *pos, m, font).Expand(HitPadding).Contains(*point)
}
