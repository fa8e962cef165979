package overlay

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/selector"
	"github.com/example/regionshot/internal/theme"
)

func press(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func move(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Direction: mouse.DirNone}
}

func release(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func TestControllerDragCommitsScaledRegion(t *testing.T) {
	// A 3840x2160 screen shown in a 1920x1080 window, offset left of the primary.
	c := newController(image.Rect(-3840, 0, 0, 2160))
	c.resize(1920, 1080)

	if !c.mouse(press(100, 50)) {
		t.Fatalf("press should repaint")
	}
	if !c.mouse(move(300, 150)) {
		t.Fatalf("move during drag should repaint")
	}
	if got := c.selection(); got != image.Rect(100, 50, 300, 150) {
		t.Fatalf("selection = %v", got)
	}
	if !strings.Contains(c.status(), "400 x 200 px") {
		t.Fatalf("status = %q", c.status())
	}
	c.mouse(release(300, 150))
	if !c.done {
		t.Fatalf("expected commit")
	}
	r, ok := c.result()
	if !ok {
		t.Fatalf("expected result")
	}
	if want := image.Rect(-3640, 100, -3240, 300); r != want {
		t.Fatalf("result = %v, want %v", r, want)
	}
}

func TestControllerRejectsSmallDrag(t *testing.T) {
	c := newController(image.Rect(0, 0, 800, 600))
	c.resize(800, 600)
	c.mouse(press(10, 10))
	c.mouse(release(15, 200))
	if c.done {
		t.Fatalf("small drag must not commit")
	}
	if c.status() != tooSmallMessage {
		t.Fatalf("status = %q", c.status())
	}
	if !c.selection().Empty() {
		t.Fatalf("selection should be cleared after rejection")
	}

	// A fresh drag clears the message and can still commit.
	c.mouse(press(10, 10))
	if c.status() == tooSmallMessage {
		t.Fatalf("message should clear on new drag")
	}
	c.mouse(release(110, 110))
	if !c.done {
		t.Fatalf("expected commit after retry")
	}
}

func TestControllerMoveWithoutDrag(t *testing.T) {
	c := newController(image.Rect(0, 0, 800, 600))
	c.resize(800, 600)
	if c.mouse(move(10, 10)) {
		t.Fatalf("hover should not repaint")
	}
	if c.status() != selector.IdlePrompt {
		t.Fatalf("status = %q", c.status())
	}
}

func TestControllerEscapeCancels(t *testing.T) {
	c := newController(image.Rect(0, 0, 800, 600))
	c.resize(800, 600)
	c.mouse(press(10, 10))
	if c.key(key.Event{Code: key.CodeA, Direction: key.DirPress}) {
		t.Fatalf("other keys should be ignored")
	}
	if !c.key(key.Event{Code: key.CodeEscape, Direction: key.DirPress}) {
		t.Fatalf("escape should be handled")
	}
	if !c.cancelled {
		t.Fatalf("expected cancel")
	}
	if _, ok := c.result(); ok {
		t.Fatalf("cancelled selection has no result")
	}
}

func TestControllerRightClickCancels(t *testing.T) {
	c := newController(image.Rect(0, 0, 800, 600))
	c.resize(800, 600)
	c.mouse(mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress})
	if !c.cancelled {
		t.Fatalf("expected cancel")
	}
}

func TestControllerResizeKeepsDrag(t *testing.T) {
	c := newController(image.Rect(0, 0, 800, 600))
	c.resize(800, 600)
	c.mouse(press(10, 10))
	c.resize(400, 300)
	c.mouse(release(110, 110))
	r, ok := c.result()
	if !ok {
		t.Fatalf("expected commit")
	}
	// The drag started at the original scale and keeps it.
	if r != image.Rect(10, 10, 110, 110) {
		t.Fatalf("result = %v", r)
	}

	c = newController(image.Rect(0, 0, 800, 600))
	c.resize(400, 300)
	c.mouse(press(10, 10))
	c.mouse(release(110, 110))
	if r, _ := c.result(); r != image.Rect(20, 20, 220, 220) {
		t.Fatalf("result after idle resize = %v", r)
	}
}

func TestRenderFrameDimsOutsideSelection(t *testing.T) {
	backdrop := image.NewRGBA(image.Rect(0, 0, 100, 80))
	for i := range backdrop.Pix {
		backdrop.Pix[i] = 0xFF
	}
	dst := image.NewRGBA(backdrop.Bounds())
	th := theme.Default()
	renderFrame(dst, backdrop, image.Rect(40, 40, 90, 70), "", th)

	if got := dst.RGBAAt(5, 60); got.R == 0xFF {
		t.Fatalf("outside pixel should be dimmed, got %v", got)
	}
	if got := dst.RGBAAt(60, 55); got != (color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Fatalf("inside pixel = %v, want backdrop", got)
	}
	if got := dst.RGBAAt(46, 40); got != color.RGBAModel.Convert(th.DashDark) {
		t.Fatalf("border pixel = %v, want dark dash", got)
	}
	if got := dst.RGBAAt(40, 40); got != color.RGBAModel.Convert(th.DashLight) {
		t.Fatalf("corner pixel = %v, want light dash", got)
	}
}

func TestDrawStatusBox(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 400, 100))
	box := drawStatus(dst, "hello", theme.Default())
	if box.Min != image.Pt(statusPad, statusPad) || box.Dx() <= 5*7 {
		t.Fatalf("box = %v", box)
	}
	if got := dst.RGBAAt(box.Min.X, box.Min.Y); got != (color.RGBA{A: 0xFF}) {
		t.Fatalf("border = %v", got)
	}
}

func TestWindowSize(t *testing.T) {
	screenRect := image.Rect(0, 0, 1920, 1080)
	if w, h := windowSize(Options{Screen: screenRect}); w != 1920 || h != 1080 {
		t.Fatalf("default size = %dx%d", w, h)
	}
	fw, fh := 800.0, 600.0
	opts := Options{Screen: screenRect, Window: config.Window{Width: &fw, Height: &fh}}
	if w, h := windowSize(opts); w != 800 || h != 600 {
		t.Fatalf("remembered size = %dx%d", w, h)
	}
	big := 4000.0
	opts.Window.Width = &big
	if w, h := windowSize(opts); w != 1920 || h != 1080 {
		t.Fatalf("oversized window = %dx%d", w, h)
	}
}

func TestSelectRequiresBackdrop(t *testing.T) {
	if _, err := Select(Options{}); err == nil {
		t.Fatalf("expected error without backdrop")
	}
}

func TestSelectWithoutDriverIsCancelled(t *testing.T) {
	prev := mainFn
	mainFn = func(func(screen.Screen)) {}
	t.Cleanup(func() { mainFn = prev })

	_, err := Select(Options{Backdrop: image.NewRGBA(image.Rect(0, 0, 10, 10))})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}
