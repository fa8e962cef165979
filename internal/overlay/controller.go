package overlay

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/regionshot/internal/selector"
)

var tooSmallMessage = fmt.Sprintf("Region too small (more than %d x %d required), drag again", selector.MinSpan, selector.MinSpan)

// controller turns window events into selector calls. It holds no window
// resources so it can be driven directly in tests.
type controller struct {
	screen image.Rectangle
	width  int
	height int

	sel       *selector.Selector
	message   string
	done      bool
	cancelled bool
}

func newController(screen image.Rectangle) *controller {
	return &controller{screen: screen}
}

// resize records the window size in pixels and rebuilds the selector with
// the matching scale. A drag in progress keeps its selector.
func (c *controller) resize(w, h int) {
	c.width, c.height = w, h
	if c.sel != nil && c.sel.State() != selector.Idle {
		return
	}
	c.sel = selector.New(selector.Offset{Origin: c.screen.Min, Scale: c.scale()}, c.scale())
}

// scale is backdrop pixels per window pixel on each axis.
func (c *controller) scale() selector.Scale {
	if c.width <= 0 || c.height <= 0 {
		return selector.Scale{X: 1, Y: 1}
	}
	return selector.Scale{
		X: float64(c.screen.Dx()) / float64(c.width),
		Y: float64(c.screen.Dy()) / float64(c.height),
	}
}

// mouse handles a pointer event and reports whether a repaint is needed.
func (c *controller) mouse(e mouse.Event) bool {
	if c.sel == nil || c.done {
		return false
	}
	p := selector.Point{X: float64(e.X), Y: float64(e.Y)}
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		c.message = ""
		c.sel.PointerDown(p)
		return true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		outcome, err := c.sel.PointerUp(p)
		switch outcome {
		case selector.Rejected:
			if errors.Is(err, selector.ErrTooSmall) {
				c.message = tooSmallMessage
			}
			return true
		case selector.Accepted:
			c.done = true
			return true
		}
		return false
	case e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress:
		c.cancel()
		return true
	case e.Direction == mouse.DirNone:
		_, moved := c.sel.PointerMove(p)
		return moved
	}
	return false
}

// key handles a key event. Escape cancels and closes the overlay.
func (c *controller) key(e key.Event) bool {
	if e.Direction != key.DirPress || e.Code != key.CodeEscape {
		return false
	}
	c.cancel()
	return true
}

func (c *controller) cancel() {
	if c.sel != nil {
		c.sel.Cancel()
	}
	c.cancelled = true
}

// selection is the live rectangle in window pixels, empty when idle.
func (c *controller) selection() image.Rectangle {
	if c.sel == nil {
		return image.Rectangle{}
	}
	r, ok := c.sel.Preview()
	if !ok {
		return image.Rectangle{}
	}
	return image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
}

// status is the text for the status bar.
func (c *controller) status() string {
	if c.message != "" {
		return c.message
	}
	if c.sel == nil {
		return selector.IdlePrompt
	}
	if c.sel.State() == selector.Selecting {
		r, _ := c.sel.Preview()
		s := c.scale()
		return fmt.Sprintf("%s  [%d x %d px]", c.sel.Status(), int(r.Width*s.X), int(r.Height*s.Y))
	}
	return c.sel.Status()
}

// result returns the committed physical rectangle.
func (c *controller) result() (image.Rectangle, bool) {
	if c.sel == nil {
		return image.Rectangle{}, false
	}
	return c.sel.Result()
}
