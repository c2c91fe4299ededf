package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedMeasurer struct {
	metrics TextMetrics
}

func (f fixedMeasurer) MeasureText(text, font string) TextMetrics {
	return f.metrics
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{1, 1}, Point{1, 1}, 0},
		{"horizontal", Point{100, 100}, Point{110, 100}, 10},
		{"3-4-5 triangle", Point{0, 0}, Point{3, 4}, 5},
		{"negative coordinates", Point{-3, 0}, Point{0, -4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.want, Distance(tt.b, tt.a), 1e-12, "distance must be symmetric")
		})
	}
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, Point{X: 105, Y: 100}, Midpoint(Point{100, 100}, Point{110, 100}))
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 10, Y: 20}
	q := Point{X: 3, Y: 5}

	assert.Equal(t, Point{X: 7, Y: 15}, p.Sub(q))
	assert.Equal(t, p, p.Sub(q).Add(q))
}

func TestRect_Expand(t *testing.T) {
	r := Rect{Min: Point{X: 10, Y: 20}, Max: Point{X: 30, Y: 40}}

	grown := r.Expand(5)
	assert.Equal(t, Rect{Min: Point{X: 5, Y: 15}, Max: Point{X: 35, Y: 45}}, grown)
	assert.True(t, grown.Contains(Point{X: 6, Y: 16}))
	assert.False(t, r.Contains(Point{X: 6, Y: 16}))

	assert.Equal(t, Rect{Min: Point{X: 12, Y: 22}, Max: Point{X: 28, Y: 38}}, r.Expand(-2))
}

func TestTextBounds(t *testing.T) {
	t.Run("uses measured metrics", func(t *testing.T) {
		m := fixedMeasurer{TextMetrics{Width: 100, Ascent: 30, Descent: 10}}
		r := TextBounds("Hi", Point{X: 400, Y: 300}, m, "bold 80px Arial")

		assert.Equal(t, Rect{Min: Point{350, 280}, Max: Point{450, 320}}, r)
	})

	t.Run("falls back to 40px ascent and 20px descent", func(t *testing.T) {
		m := fixedMeasurer{TextMetrics{Width: 100}}
		r := TextBounds("Hi", Point{X: 400, Y: 300}, m, "bold 80px Arial")

		assert.Equal(t, 270.0, r.Min.Y)
		assert.Equal(t, 330.0, r.Max.Y)
	})
}

func TestIsPointInTextBounds(t *testing.T) {
	m := fixedMeasurer{TextMetrics{Width: 100, Ascent: 30, Descent: 10}}
	pos := &Point{X: 400, Y: 300}

	t.Run("center is inside", func(t *testing.T) {
		assert.True(t, IsPointInTextBounds(&Point{400, 300}, "Hi", pos, m, ""))
	})

	t.Run("padding edge is inside", func(t *testing.T) {
		assert.True(t, IsPointInTextBounds(&Point{330, 260}, "Hi", pos, m, ""))
		assert.True(t, IsPointInTextBounds(&Point{470, 340}, "Hi", pos, m, ""))
	})

	t.Run("just past padding is outside", func(t *testing.T) {
		assert.False(t, IsPointInTextBounds(&Point{329.9, 300}, "Hi", pos, m, ""))
		assert.False(t, IsPointInTextBounds(&Point{400, 340.1}, "Hi", pos, m, ""))
	})

	t.Run("missing arguments fail closed", func(t *testing.T) {
		assert.False(t, IsPointInTextBounds(nil, "Hi", pos, m, ""))
		assert.False(t, IsPointInTextBounds(&Point{400, 300}, "", pos, m, ""))
		assert.False(t, IsPointInTextBounds(&Point{400, 300}, "Hi", nil, m, ""))
		assert.False(t, IsPointInTextBounds(&Point{400, 300}, "Hi", pos, nil, ""))
	})

	t.Run("NaN point is outside", func(t *testing.T) {
		assert.False(t, IsPointInTextBounds(&Point{math.NaN(), 300}, "Hi", pos, m, ""))
	})
}
