package capture

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
}

var backend = newBackend()

var errNoMonitors = errors.New("no monitors available")

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

func (m MonitorInfo) String() string {
	primary := ""
	if m.Primary {
		primary = " (primary)"
	}
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("display-%d", m.Index)
	}
	return fmt.Sprintf("%d: %s %dx%d+%d+%d%s", m.Index, name, m.Rect.Dx(), m.Rect.Dy(), m.Rect.Min.X, m.Rect.Min.Y, primary)
}

// ListMonitors retrieves all monitors using the platform backend. When the
// backend cannot enumerate outputs, the display bounds reported by the
// capture library are used instead.
func ListMonitors() ([]MonitorInfo, error) {
	monitors, err := backend.ListMonitors()
	if err == nil && len(monitors) > 0 {
		return monitors, nil
	}
	fallback := displayMonitors()
	if len(fallback) > 0 {
		return fallback, nil
	}
	if err == nil {
		err = errNoMonitors
	}
	return nil, err
}

func displayMonitors() []MonitorInfo {
	n := displayCountFn()
	monitors := make([]MonitorInfo, 0, n)
	for i := 0; i < n; i++ {
		monitors = append(monitors, MonitorInfo{
			Index:   i,
			Name:    fmt.Sprintf("display-%d", i),
			Rect:    displayBoundsFn(i),
			Primary: i == 0,
		})
	}
	return monitors
}

// Describe lists monitors one per line.
func Describe(monitors []MonitorInfo) string {
	var b strings.Builder
	for _, m := range monitors {
		b.WriteString(m.String())
		b.WriteByte('\n')
	}
	return b.String()
}
