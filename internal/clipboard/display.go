// Package clipboard publishes captures and templates to the system clipboard.
package clipboard

import (
	"errors"
	"image"
	"os"
	"runtime"
	"sync"
)

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

var (
	initOnce sync.Once
	initErr  error
)

// ensureInit opens the clipboard once per process. Later calls repeat the
// first result.
func ensureInit() error {
	initOnce.Do(func() {
		initErr = displayAvailable()
		if initErr == nil {
			initErr = openClipboard()
		}
	})
	return initErr
}

func displayAvailable() error {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return nil
	}
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return errNoDisplay
	}
	return nil
}

// System is the desktop clipboard as a value, for callers that take the
// clipboard as a dependency.
type System struct{}

func (System) WriteImage(img image.Image) error { return WriteImage(img) }

func (System) WriteText(text string) error { return WriteText(text) }
