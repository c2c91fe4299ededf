package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReveal_HiScenario(t *testing.T) {
	r := NewReveal("Hi", RevealByPosition)

	assert.True(t, r.Process(10, 800))
	assert.Equal(t, []int{0}, r.State().Revealed)
	assert.Equal(t, "H", r.Text())

	assert.True(t, r.Process(10, 800))
	assert.Equal(t, []int{0, 1}, r.State().Revealed)
	assert.Equal(t, "Hi", r.Text())
	assert.True(t, r.Complete())

	assert.False(t, r.Process(10, 800), "a complete word takes no more reveals")
	assert.Equal(t, "Hi", r.Text())
	assert.Equal(t, 2, r.NextIndex())
}

func TestReveal_Trigger(t *testing.T) {
	tests := []struct {
		name   string
		handX  float64
		reveal bool
	}{
		{"far left", 0, true},
		{"left half", 399.9, true},
		{"exact center", 400, false},
		{"right half", 600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReveal("Hi", RevealByPosition)
			assert.Equal(t, tt.reveal, r.Process(tt.handX, 800))
		})
	}
}

func TestReveal_AtMostOnePerCall(t *testing.T) {
	r := NewReveal("Hello", RevealByPosition)

	for i := 1; i <= 5; i++ {
		r.Process(10, 800)
		assert.Equal(t, i, r.NextIndex())
		assert.Len(t, r.State().Revealed, i)
	}
}

func TestReveal_Monotonic(t *testing.T) {
	r := NewReveal("Hello", RevealByPosition)
	xs := []float64{10, 700, 10, 500, 500, 10, 10, 10, 10}

	last := 0
	for _, x := range xs {
		r.Process(x, 800)
		require.GreaterOrEqual(t, r.NextIndex(), last)
		last = r.NextIndex()

		// NextIndex equals the count of contiguous reveals from 0.
		s := r.State()
		for i, idx := range s.Revealed {
			require.Equal(t, i, idx)
		}
		require.Equal(t, len(s.Revealed), s.NextIndex)
	}
	assert.Equal(t, "Hello", r.Text())
}

func TestReveal_Reset(t *testing.T) {
	r := NewReveal("Hi", RevealByPosition)
	r.Process(10, 800)
	r.Reset()

	assert.Equal(t, 0, r.NextIndex())
	assert.Empty(t, r.State().Revealed)
	assert.Equal(t, "", r.Text())

	assert.True(t, r.Process(10, 800))
	assert.Equal(t, "H", r.Text())
}

func TestReveal_EmptyWord(t *testing.T) {
	r := NewReveal("", RevealByPosition)

	assert.True(t, r.Complete())
	assert.False(t, r.Process(10, 800))
	assert.Equal(t, "", r.Text())
}

func TestReveal_Unicode(t *testing.T) {
	r := NewReveal("你好", RevealByPosition)
	r.Process(10, 800)

	assert.Equal(t, "你", r.Text())
}

func TestReveal_LetterMode(t *testing.T) {
	r := NewReveal("Hello", RevealByLetter)

	for i := 0; i < 10; i++ {
		r.Process(10, 800)
	}

	assert.True(t, r.Complete())
	assert.Equal(t, "Helo", r.Text(), "repeated letters collapse to their first position")
	assert.Equal(t, []int{0, 1, 2, 4}, r.State().Revealed)
}

func TestParseRevealMode(t *testing.T) {
	m, err := ParseRevealMode("")
	require.NoError(t, err)
	assert.Equal(t, RevealByPosition, m)

	m, err = ParseRevealMode("letter")
	require.NoError(t, err)
	assert.Equal(t, RevealByLetter, m)

	_, err = ParseRevealMode("random")
	assert.Error(t, err)
}
