//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	values := portalScreenshotOptions()
	if got := boolVariant(t, values, "interactive"); got {
		t.Fatalf("interactive = %v, want false", got)
	}
	if got := boolVariant(t, values, "modal"); got {
		t.Fatalf("modal = %v, want false", got)
	}
	if got := stringVariant(t, values, "handle_token"); got != "test-token" {
		t.Fatalf("handle_token = %q, want %q", got, "test-token")
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 options, got %d", len(values))
	}
}

func TestPortalResultPath(t *testing.T) {
	tests := []struct {
		name    string
		body    []interface{}
		want    string
		wantErr bool
	}{
		{
			name: "file uri",
			body: []interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20one.png")}},
			want: "/tmp/Screenshot one.png",
		},
		{
			name:    "denied",
			body:    []interface{}{uint32(1), map[string]dbus.Variant{}},
			wantErr: true,
		},
		{
			name:    "missing uri",
			body:    []interface{}{uint32(0), map[string]dbus.Variant{}},
			wantErr: true,
		},
		{
			name:    "short body",
			body:    []interface{}{uint32(0)},
			wantErr: true,
		},
		{
			name:    "wrong results type",
			body:    []interface{}{uint32(0), "nope"},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := portalResultPath(tc.body)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("portalResultPath: %v", err)
			}
			if got != tc.want {
				t.Fatalf("path = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadPNGRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := loadPNG(path)
	if err != nil {
		t.Fatalf("loadPNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 1); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("pixel = %v", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("portal file should be removed, stat err = %v", err)
	}
}

func boolVariant(t *testing.T, values map[string]dbus.Variant, key string) bool {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(bool)
	if !ok {
		t.Fatalf("key %q value is %T, want bool", key, variant.Value())
	}
	return v
}

func stringVariant(t *testing.T, values map[string]dbus.Variant, key string) string {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(string)
	if !ok {
		t.Fatalf("key %q value is %T, want string", key, variant.Value())
	}
	return v
}
