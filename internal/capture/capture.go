package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/kbinani/screenshot"
)

var errNoDisplay = errors.New("no active displays found")

// Backends are package variables so tests can substitute them.
var (
	rectCaptureFn      = screenshot.CaptureRect
	displayCountFn     = screenshot.NumActiveDisplays
	displayBoundsFn    = screenshot.GetDisplayBounds
	x11ScreenshotFn    = x11Screenshot
	portalScreenshotFn = portalScreenshot
)

// VirtualScreen returns the union of all active display bounds in global
// physical coordinates.
func VirtualScreen() (image.Rectangle, error) {
	n := displayCountFn()
	if n <= 0 {
		return image.Rectangle{}, errNoDisplay
	}
	union := displayBoundsFn(0)
	for i := 1; i < n; i++ {
		union = union.Union(displayBoundsFn(i))
	}
	if union.Empty() {
		return image.Rectangle{}, errNoDisplay
	}
	return union, nil
}

// CaptureScreen captures the whole virtual screen. The returned image starts
// at (0,0); its top-left pixel is the top-left of VirtualScreen.
func CaptureScreen() (*image.RGBA, image.Rectangle, error) {
	bounds, err := VirtualScreen()
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	img, err := CaptureRegionRect(bounds)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return img, bounds, nil
}

// CaptureRegionRect captures a specific rectangle in global screen
// coordinates. It tries a direct capture first and falls back to a
// full-desktop screenshot cropped to rect.
func CaptureRegionRect(rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Canon()
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	img, directErr := rectCaptureFn(rect)
	if directErr == nil && img != nil {
		return rebase(img), nil
	}
	if directErr == nil {
		directErr = fmt.Errorf("no image returned")
	}
	log.Printf("direct capture of %v failed: %v; trying desktop screenshot", rect, directErr)

	shot, err := fallbackScreenshot()
	if err != nil {
		return nil, fmt.Errorf("capture %v: %v; fallback screenshot failed: %w", rect, directErr, err)
	}
	origin := image.Point{}
	if vs, err := VirtualScreen(); err == nil {
		origin = vs.Min
	}
	img, err = cropToRect(shot, rect.Sub(origin))
	if err != nil {
		return nil, fmt.Errorf("capture %v: %v; fallback crop failed: %w", rect, directErr, err)
	}
	return img, nil
}

func fallbackScreenshot() (*image.RGBA, error) {
	if !runningOnWayland() {
		img, err := x11ScreenshotFn()
		if err == nil {
			return img, nil
		}
		log.Printf("x11 screenshot failed: %v", err)
	}
	return portalScreenshotFn()
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

func rebase(img *image.RGBA) *image.RGBA {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
