//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

type x11Backend struct{}

func newBackend() platformBackend { return x11Backend{} }

// runningOnWayland reports whether the session is Wayland, where X11 root
// reads return black or fail and the portal must be used.
func runningOnWayland() bool {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")), "wayland")
}

// x11Display is an open connection plus the default screen.
type x11Display struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen *xproto.ScreenInfo
}

func openX11() (*x11Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	d := &x11Display{conn: conn, setup: xproto.Setup(conn)}
	if d.setup != nil {
		d.screen = d.setup.DefaultScreen(conn)
	}
	if d.screen == nil {
		conn.Close()
		return nil, errors.New("X server reported no default screen")
	}
	return d, nil
}

func (d *x11Display) Close() { d.conn.Close() }

// grabRoot reads the whole root window. Root coordinates are global
// screen coordinates.
func (d *x11Display) grabRoot() (*image.RGBA, error) {
	w, h := d.screen.WidthInPixels, d.screen.HeightInPixels
	cookie := xproto.GetImage(d.conn, xproto.ImageFormatZPixmap, xproto.Drawable(d.screen.Root), 0, 0, w, h, ^uint32(0))
	reply, err := cookie.Reply()
	if err != nil {
		return nil, fmt.Errorf("read root window: %w", err)
	}
	return xImageToRGBA(d.setup, reply, int(w), int(h))
}

// outputs lists connected RandR outputs that drive a CRTC, in server order.
func (d *x11Display) outputs() ([]MonitorInfo, error) {
	if err := randr.Init(d.conn); err != nil {
		return nil, fmt.Errorf("randr: %w", err)
	}
	root := d.screen.Root
	res, err := randr.GetScreenResources(d.conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr resources: %w", err)
	}
	var primary randr.Output
	if p, err := randr.GetOutputPrimary(d.conn, root).Reply(); err == nil {
		primary = p.Output
	}
	var out []MonitorInfo
	for _, o := range res.Outputs {
		rect, name, ok := d.outputRect(o, res.ConfigTimestamp)
		if !ok {
			continue
		}
		out = append(out, MonitorInfo{Index: len(out), Name: name, Rect: rect, Primary: o == primary})
	}
	return out, nil
}

func (d *x11Display) outputRect(o randr.Output, ts xproto.Timestamp) (image.Rectangle, string, bool) {
	info, err := randr.GetOutputInfo(d.conn, o, ts).Reply()
	if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
		return image.Rectangle{}, "", false
	}
	crtc, err := randr.GetCrtcInfo(d.conn, info.Crtc, ts).Reply()
	if err != nil {
		return image.Rectangle{}, "", false
	}
	r := image.Rect(0, 0, int(crtc.Width), int(crtc.Height)).Add(image.Pt(int(crtc.X), int(crtc.Y)))
	return r, strings.TrimSpace(string(info.Name)), true
}

func (x11Backend) ListMonitors() ([]MonitorInfo, error) {
	d, err := openX11()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	monitors, err := d.outputs()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

func x11Screenshot() (*image.RGBA, error) {
	d, err := openX11()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.grabRoot()
}
