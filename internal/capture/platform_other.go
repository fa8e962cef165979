//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"errors"
	"image"
)

// errNoX11 is returned where neither X11 nor the desktop portal exists. The
// capture library's own per-display path still works there.
var errNoX11 = errors.New("x11 and the screenshot portal are unavailable on this platform")

type noBackend struct{}

func newBackend() platformBackend { return noBackend{} }

func (noBackend) ListMonitors() ([]MonitorInfo, error) { return nil, errNoX11 }

func x11Screenshot() (*image.RGBA, error)    { return nil, errNoX11 }
func portalScreenshot() (*image.RGBA, error) { return nil, errNoX11 }
func runningOnWayland() bool                 { return false }
