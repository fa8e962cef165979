// Package selector turns a pointer drag in logical (DPI-scaled) coordinates
// into a rectangle of physical screen pixels.
package selector

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// MinSpan is the logical size a selection must exceed on both axes.
const MinSpan = 10

// ErrTooSmall is reported when a drag ends with a width or height of at
// most MinSpan logical units.
var ErrTooSmall = errors.New("region too small")

// State is the phase of a selection interaction.
type State int

const (
	Idle State = iota
	Selecting
	Committed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Committed:
		return "committed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Point is a position in logical UI coordinates.
type Point struct {
	X, Y float64
}

// Rect is a normalized rectangle in logical UI coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Scale is the logical to physical factor per axis.
type Scale struct {
	X, Y float64
}

// Transform maps a logical point to physical screen coordinates.
type Transform interface {
	ToScreen(p Point) image.Point
}

// Offset is a Transform for an overlay whose logical origin sits at Origin
// on the physical screen.
type Offset struct {
	Origin image.Point
	Scale  Scale
}

// ToScreen implements Transform.
func (o Offset) ToScreen(p Point) image.Point {
	return image.Point{
		X: o.Origin.X + int(math.Floor(p.X*o.Scale.X)),
		Y: o.Origin.Y + int(math.Floor(p.Y*o.Scale.Y)),
	}
}

// Outcome describes what a PointerUp did.
type Outcome int

const (
	// Ignored means no drag was in progress.
	Ignored Outcome = iota
	// Rejected means the drag was below MinSpan and the selector is idle again.
	Rejected
	// Accepted means the region was committed.
	Accepted
)

// Selector is the drag state machine. The zero value is not usable; create
// one with New.
type Selector struct {
	transform Transform
	scale     Scale

	state   State
	anchor  Point
	current Point
	result  image.Rectangle
}

// New returns an idle Selector. transform converts the top-left corner and
// scale converts the width and height.
func New(transform Transform, scale Scale) *Selector {
	if scale.X <= 0 {
		scale.X = 1
	}
	if scale.Y <= 0 {
		scale.Y = 1
	}
	return &Selector{transform: transform, scale: scale}
}

// State reports the current phase.
func (s *Selector) State() State { return s.state }

// PointerDown anchors a new drag.
func (s *Selector) PointerDown(p Point) {
	if s.state == Committed {
		return
	}
	s.anchor = p
	s.current = p
	s.state = Selecting
}

// PointerMove updates the preview and reports whether one is active.
func (s *Selector) PointerMove(p Point) (Rect, bool) {
	if s.state != Selecting {
		return Rect{}, false
	}
	s.current = p
	return normalize(s.anchor, p), true
}

// Preview returns the draft rectangle while a drag is in progress.
func (s *Selector) Preview() (Rect, bool) {
	if s.state != Selecting {
		return Rect{}, false
	}
	return normalize(s.anchor, s.current), true
}

// PointerUp finishes the drag. A rejected drag returns ErrTooSmall and
// leaves the selector idle so a new drag can start.
func (s *Selector) PointerUp(p Point) (Outcome, error) {
	if s.state != Selecting {
		return Ignored, nil
	}
	r := normalize(s.anchor, p)
	if r.Width <= MinSpan || r.Height <= MinSpan {
		s.reset()
		return Rejected, fmt.Errorf("%w: %.0f x %.0f", ErrTooSmall, r.Width, r.Height)
	}
	origin := s.transform.ToScreen(Point{X: r.X, Y: r.Y})
	w := int(r.Width * s.scale.X)
	h := int(r.Height * s.scale.Y)
	s.result = image.Rect(origin.X, origin.Y, origin.X+w, origin.Y+h)
	s.state = Committed
	return Accepted, nil
}

// Cancel aborts any drag in progress. It has no effect after a commit.
func (s *Selector) Cancel() {
	if s.state == Committed {
		return
	}
	s.reset()
}

// Result returns the committed physical rectangle.
func (s *Selector) Result() (image.Rectangle, bool) {
	if s.state != Committed {
		return image.Rectangle{}, false
	}
	return s.result, true
}

// Status is the one-line hint shown by the overlay.
func (s *Selector) Status() string {
	switch s.state {
	case Selecting:
		r, _ := s.Preview()
		return fmt.Sprintf("Region: %.0f x %.0f (release to confirm)", r.Width, r.Height)
	case Committed:
		return fmt.Sprintf("Selected %d x %d", s.result.Dx(), s.result.Dy())
	}
	return IdlePrompt
}

// IdlePrompt is shown while waiting for a drag.
const IdlePrompt = "Drag to select a region (Esc to cancel)"

func (s *Selector) reset() {
	s.state = Idle
	s.anchor = Point{}
	s.current = Point{}
}

func normalize(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}
