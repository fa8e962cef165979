package session

import (
	"image"

	"github.com/example/regionshot/internal/imageio"
)

// ScreenFunc adapts a capture function to Screen.
type ScreenFunc func(image.Rectangle) (*image.RGBA, error)

func (f ScreenFunc) CaptureRect(r image.Rectangle) (*image.RGBA, error) { return f(r) }

// Files writes captures with imageio.
type Files struct{}

func (Files) Save(path string, img image.Image, format string) error {
	return imageio.Save(path, img, format)
}

func (Files) Exists(path string) bool { return imageio.Exists(path) }
