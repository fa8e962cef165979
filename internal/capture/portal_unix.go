//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	portalMethod    = "org.freedesktop.portal.Screenshot.Screenshot"
	portalResponse  = "org.freedesktop.portal.Request.Response"
	portalTimeout   = 30 * time.Second
	portalTokenBase = "regionshot_"
)

var errPortalNoImage = errors.New("portal screenshot: response carries no image")

var portalHandleToken = func() string {
	return fmt.Sprintf("%s%d", portalTokenBase, time.Now().UnixNano())
}

// portalScreenshot asks the desktop portal for a non-interactive full
// screen shot. The portal answers asynchronously on a Request object.
func portalScreenshot() (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	var handle dbus.ObjectPath
	call := conn.Object(portalDest, portalPath).Call(portalMethod, 0, "", portalScreenshotOptions())
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", err)
	}
	body, err := awaitResponse(conn, handle)
	if err != nil {
		return nil, err
	}
	path, err := portalResultPath(body)
	if err != nil {
		return nil, err
	}
	return loadPNG(path)
}

func awaitResponse(conn *dbus.Conn, handle dbus.ObjectPath) ([]interface{}, error) {
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(handle),
		dbus.WithMatchInterface("org.freedesktop.portal.Request"),
		dbus.WithMatchMember("Response"),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.RemoveMatchSignal(match...)

	signals := make(chan *dbus.Signal, 1)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	deadline := time.NewTimer(portalTimeout)
	defer deadline.Stop()
	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				return nil, errors.New("portal screenshot: bus closed")
			}
			if sig.Path == handle && sig.Name == portalResponse {
				return sig.Body, nil
			}
		case <-deadline.C:
			return nil, fmt.Errorf("portal screenshot: no response after %s", portalTimeout)
		}
	}
}

// portalResultPath reads the (u response, a{sv} results) body of a
// Response signal and returns the local path of the saved image.
func portalResultPath(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", errPortalNoImage
	}
	if code, _ := body[0].(uint32); code != 0 {
		return "", fmt.Errorf("portal screenshot: request denied (code %d)", code)
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", fmt.Errorf("portal screenshot: unexpected results %T", body[1])
	}
	v, ok := results["uri"]
	if !ok {
		return "", errPortalNoImage
	}
	uri, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("portal screenshot: uri is %T", v.Value())
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return strings.TrimPrefix(uri, "file://"), nil
	}
	return u.Path, nil
}

func portalScreenshotOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"interactive":  dbus.MakeVariant(false),
		"modal":        dbus.MakeVariant(false),
	}
}

// loadPNG decodes the portal's file into a zero-origin RGBA and deletes
// the file, which the portal leaves in the user's pictures directory.
func loadPNG(path string) (*image.RGBA, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove portal screenshot %s: %v", path, err)
		}
	}()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image: %w", err)
	}
	src, err := png.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image %s: %w", path, err)
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}
