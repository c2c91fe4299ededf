package overlay

import "github.com/ayusman/airtext/internal/geometry"

// DragState is a snapshot of the drag machine.
// Anchor is nil while the text sits at the default canvas center.
type DragState struct {
	Dragging bool            `json:"dragging"`
	Anchor   *geometry.Point `json:"anchor"`
	Offset   geometry.Point  `json:"offset"`
}

// Drag moves the text anchor rigidly with the pinch point. The offset
// captured at drag start keeps the text from jumping onto the fingers.
type Drag struct {
	anchor   *geometry.Point
	dragging bool
	offset   geometry.Point
}

// NewDrag creates an idle Drag with no anchor.
func NewDrag() *Drag {
	return &Drag{}
}

// Start enters the dragging state. An unset anchor is first pinned to the
// canvas center.
func (d *Drag) Start(pinch geometry.Point, canvasWidth, canvasHeight float64) {
	if d.anchor == nil {
		center := canvasCenter(canvasWidth, canvasHeight)
		d.anchor = &center
	}
	d.offset = pinch.Sub(*d.anchor)
	d.dragging = true
}

// Update moves the anchor to follow pinch. It is a no-op when idle.
func (d *Drag) Update(pinch geometry.Point) {
	if !d.dragging {
		return
	}
	anchor := pinch.Sub(d.offset)
	d.anchor = &anchor
}

// Stop leaves the dragging state without moving the anchor.
func (d *Drag) Stop() {
	d.dragging = false
}

// Dragging reports whether a drag is in progress.
func (d *Drag) Dragging() bool {
	return d.dragging
}

// Anchor returns the stored anchor, or the center of the given canvas when
// none has been set. The fallback is computed on every call.
func (d *Drag) Anchor(canvasWidth, canvasHeight float64) geometry.Point {
	if d.anchor == nil {
		return canvasCenter(canvasWidth, canvasHeight)
	}
	return *d.anchor
}

// State returns a snapshot of the drag machine.
func (d *Drag) State() DragState {
	s := DragState{Dragging: d.dragging, Offset: d.offset}
	if d.anchor != nil {
		anchor := *d.anchor
		s.Anchor = &anchor
	}
	return s
}

// Reset returns to idle with no anchor and a zero offset.
func (d *Drag) Reset() {
	d.anchor = nil
	d.dragging = false
	d.offset = geometry.Point{}
}

func canvasCenter(width, height float64) geometry.Point {
	return geometry.Point{X: width / 2, Y: height / 2}
}
