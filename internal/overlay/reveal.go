// Package overlay holds the per-session state machines that drive the AR text
// overlay: letter reveal, pinch drag, and the per-frame composition of both.
package overlay

import (
	"fmt"
	"sort"
	"strings"
)

// RevealMode selects how revealed characters are keyed.
type RevealMode string

const (
	// RevealByPosition keys reveals by index into the target word.
	RevealByPosition RevealMode = "position"
	// RevealByLetter keys reveals by letter value. Repeated letters render
	// once, at their first position in the word.
	RevealByLetter RevealMode = "letter"
)

// ParseRevealMode validates a mode name. The empty string is RevealByPosition.
func ParseRevealMode(s string) (RevealMode, error) {
	switch RevealMode(s) {
	case "", RevealByPosition:
		return RevealByPosition, nil
	case RevealByLetter:
		return RevealByLetter, nil
	}
	return "", fmt.Errorf("unknown reveal mode %q", s)
}

// RevealState is a snapshot of the reveal machine.
type RevealState struct {
	Revealed  []int `json:"revealed"`
	NextIndex int   `json:"next_index"`
	Complete  bool  `json:"complete"`
}

// Reveal advances through a target word one character per triggering frame.
// NextIndex only grows until Reset.
type Reveal struct {
	word     []rune
	mode     RevealMode
	revealed map[int]bool
	letters  map[rune]bool
	next     int
}

// NewReveal creates a Reveal for word.
func NewReveal(word string, mode RevealMode) *Reveal {
	if mode == "" {
		mode = RevealByPosition
	}
	r := &Reveal{
		word: []rune(word),
		mode: mode,
	}
	r.Reset()
	return r
}

// Process runs one frame. The trigger holds when handX lies in the left half
// of the canvas. It returns true when a character was newly revealed.
func (r *Reveal) Process(handX, canvasWidth float64) bool {
	if r.next >= len(r.word) {
		return false
	}
	if !(handX < canvasWidth/2) {
		return false
	}

	switch r.mode {
	case RevealByLetter:
		ch := r.word[r.next]
		r.next++
		if r.letters[ch] {
			// Consumed without a new reveal so the word can still complete.
			return false
		}
		r.letters[ch] = true
		r.revealed[r.next-1] = true
		return true
	default:
		if r.revealed[r.next] {
			return false
		}
		r.revealed[r.next] = true
		r.next++
		return true
	}
}

// Text concatenates the revealed characters in word order.
func (r *Reveal) Text() string {
	var b strings.Builder
	for i, ch := range r.word {
		if r.revealed[i] {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// NextIndex returns the index of the next character to reveal.
func (r *Reveal) NextIndex() int {
	return r.next
}

// Complete reports whether the whole word has been processed.
func (r *Reveal) Complete() bool {
	return r.next >= len(r.word)
}

// State returns a snapshot of the revealed indices in ascending order.
func (r *Reveal) State() RevealState {
	revealed := make([]int, 0, len(r.revealed))
	for i := range r.revealed {
		revealed = append(revealed, i)
	}
	sort.Ints(revealed)

	return RevealState{
		Revealed:  revealed,
		NextIndex: r.next,
		Complete:  r.Complete(),
	}
}

// Reset clears every reveal.
func (r *Reveal) Reset() {
	r.revealed = make(map[int]bool)
	r.letters = make(map[rune]bool)
	r.next = 0
}
