// Package overlay shows a captured screen in a window and lets the user drag
// out the capture region on top of it.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/imageio"
	"github.com/example/regionshot/internal/theme"
)

// ErrCancelled is returned when the overlay closes without a selection.
var ErrCancelled = errors.New("selection cancelled")

const defaultTitle = "RegionShot - select region"

// Options configure Select.
type Options struct {
	// Backdrop is a capture of Screen in physical pixels.
	Backdrop *image.RGBA
	// Screen is the virtual screen the backdrop covers.
	Screen image.Rectangle
	// Window is the remembered overlay geometry.
	Window config.Window
	Title  string
	// Theme colours the overlay; nil uses theme.Default.
	Theme *theme.Theme
	// Geometry, if set, receives the overlay size when it closes.
	Geometry func(config.Window)
}

var mainFn = driver.Main

// Select opens the overlay and blocks until a region is committed or the
// user cancels. The region is in physical screen coordinates.
func Select(opts Options) (config.Region, error) {
	if opts.Backdrop == nil {
		return config.Region{}, fmt.Errorf("overlay: no backdrop")
	}
	if opts.Screen.Empty() {
		opts.Screen = opts.Backdrop.Bounds()
	}
	if opts.Theme == nil {
		opts.Theme = theme.Default()
	}
	var (
		region config.Region
		err    = ErrCancelled
	)
	mainFn(func(s screen.Screen) {
		region, err = run(s, opts)
	})
	return region, err
}

// windowSize picks the initial overlay size: the remembered size if it fits
// on screen, otherwise the whole screen.
func windowSize(opts Options) (int, int) {
	sw, sh := opts.Screen.Dx(), opts.Screen.Dy()
	w, h, ok := opts.Window.Clamp(opts.Screen).Size()
	if !ok || w > sw || h > sh {
		return sw, sh
	}
	return w, h
}

func run(s screen.Screen, opts Options) (config.Region, error) {
	width, height := windowSize(opts)
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: title})
	if err != nil {
		return config.Region{}, fmt.Errorf("overlay window: %w", err)
	}
	defer w.Release()

	c := newController(opts.Screen)
	var scaled *image.RGBA
	finish := func() {
		if opts.Geometry == nil || c.width == 0 {
			return
		}
		win := opts.Window.Clamp(opts.Screen)
		fw, fh := float64(c.width), float64(c.height)
		win.Width, win.Height = &fw, &fh
		opts.Geometry(win)
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				finish()
				return config.Region{}, ErrCancelled
			}
		case size.Event:
			if e.WidthPx <= 0 || e.HeightPx <= 0 {
				continue
			}
			c.resize(e.WidthPx, e.HeightPx)
			scaled = nil
			w.Send(paint.Event{})
		case paint.Event:
			if c.width == 0 {
				continue
			}
			if scaled == nil {
				scaled = imageio.Scale(opts.Backdrop, c.width, c.height)
			}
			if err := paintFrame(s, w, c, scaled, opts.Theme); err != nil {
				log.Printf("overlay paint: %v", err)
			}
		case mouse.Event:
			if c.mouse(e) {
				w.Send(paint.Event{})
			}
			if c.done {
				finish()
				r, _ := c.result()
				return config.RegionFromRect(r), nil
			}
			if c.cancelled {
				finish()
				return config.Region{}, ErrCancelled
			}
		case key.Event:
			if c.key(e) && c.cancelled {
				finish()
				return config.Region{}, ErrCancelled
			}
		case error:
			log.Printf("overlay: %v", e)
		}
	}
}

func paintFrame(s screen.Screen, w screen.Window, c *controller, backdrop *image.RGBA, th *theme.Theme) error {
	b, err := s.NewBuffer(image.Pt(c.width, c.height))
	if err != nil {
		return err
	}
	defer b.Release()
	renderFrame(b.RGBA(), backdrop, c.selection(), c.status(), th)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return nil
}
