package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/hotkey"
	"github.com/example/regionshot/internal/notify"
	"github.com/example/regionshot/internal/overlay"
	"github.com/example/regionshot/internal/session"
)

type fakeNotifier struct {
	warnings []string
	copies   []string
}

func (f *fakeNotifier) Capture(string, image.Image) {}
func (f *fakeNotifier) Save(string)                 {}
func (f *fakeNotifier) Copy(d string)               { f.copies = append(f.copies, d) }
func (f *fakeNotifier) Warn(m string)               { f.warnings = append(f.warnings, m) }
func (f *fakeNotifier) Enable(notify.Event, bool)   {}

type fakeClipboard struct{ images int }

func (f *fakeClipboard) WriteImage(image.Image) error {
	f.images++
	return nil
}

type cliEnv struct {
	configPath string
	saveDir    string
	notifier   *fakeNotifier
	clipboard  *fakeClipboard
	captured   []image.Rectangle
}

// newCLIEnv isolates the command line from the real desktop and settings.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		config.EnvFile, config.EnvSaveDir, config.EnvTemplate, config.EnvFormat,
		config.EnvHotkey, config.EnvClipboard, config.EnvLogFile, config.EnvTheme,
	} {
		t.Setenv(key, "")
	}
	env := &cliEnv{
		configPath: filepath.Join(dir, "settings.json"),
		saveDir:    filepath.Join(dir, "shots"),
		notifier:   &fakeNotifier{},
		clipboard:  &fakeClipboard{},
	}

	prevNotifier, prevClipboard, prevRegion := newNotifier, clipboardImage, captureRegionFn
	t.Cleanup(func() {
		newNotifier, clipboardImage, captureRegionFn = prevNotifier, prevClipboard, prevRegion
	})
	newNotifier = func(notify.Preferences) notifier { return env.notifier }
	clipboardImage = env.clipboard
	captureRegionFn = func(r image.Rectangle) (*image.RGBA, error) {
		env.captured = append(env.captured, r)
		return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
	}
	return env
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := newRoot()
	r.stdout = &stdout
	r.stderr = &stderr
	r.stdin = strings.NewReader("")
	r.fs.SetOutput(&stderr)
	err := r.Run(append([]string{"-config", e.configPath}, args...))
	return stdout.String(), err
}

func (e *cliEnv) settings(t *testing.T) *config.Settings {
	t.Helper()
	s, err := config.NewLoader("test", e.configPath).Load()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	return s
}

func TestRegionSetShowClear(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "region", "set", "10,20,300,200")
	if err != nil {
		t.Fatalf("region set: %v", err)
	}
	if !strings.Contains(out, "X:10, Y:20, W:300, H:200") {
		t.Fatalf("region set output = %q", out)
	}
	if got := env.settings(t).Region; got == nil || *got != (config.Region{X: 10, Y: 20, Width: 300, Height: 200}) {
		t.Fatalf("saved region = %+v", got)
	}

	out, err = env.run(t, "region")
	if err != nil || !strings.Contains(out, "W:300") {
		t.Fatalf("region show = %q, %v", out, err)
	}

	if _, err := env.run(t, "region", "clear"); err != nil {
		t.Fatalf("region clear: %v", err)
	}
	if env.settings(t).Region != nil {
		t.Fatalf("region should be cleared")
	}
}

func TestRegionMonitor(t *testing.T) {
	env := newCLIEnv(t)
	prev := listMonitorsFn
	t.Cleanup(func() { listMonitorsFn = prev })
	listMonitorsFn = func() ([]capture.MonitorInfo, error) {
		return []capture.MonitorInfo{
			{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080), Primary: true},
			{Index: 1, Name: "HDMI-1", Rect: image.Rect(1920, 0, 4480, 1440)},
		}, nil
	}

	out, err := env.run(t, "region", "monitors")
	if err != nil || !strings.Contains(out, "1: HDMI-1 2560x1440+1920+0") {
		t.Fatalf("monitors = %q, %v", out, err)
	}
	if _, err := env.run(t, "region", "monitor", "1"); err != nil {
		t.Fatalf("region monitor: %v", err)
	}
	if got := env.settings(t).Region; got == nil || got.X != 1920 || got.Width != 2560 {
		t.Fatalf("region = %+v", got)
	}
	if _, err := env.run(t, "region", "monitor", "5"); err == nil {
		t.Fatalf("expected error for missing monitor")
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    config.Region
		wantErr bool
	}{
		{in: "1,2,3,4", want: config.Region{X: 1, Y: 2, Width: 3, Height: 4}},
		{in: "-1920, 0, 800, 600", want: config.Region{X: -1920, Width: 800, Height: 600}},
		{in: "1,2,3", wantErr: true},
		{in: "1,2,0,4", wantErr: true},
		{in: "a,b,c,d", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseRegion(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseRegion(%q) = %+v, want error", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("parseRegion(%q) = %+v, %v; want %+v", tc.in, got, err, tc.want)
		}
	}
}

func TestCaptureWithoutRegion(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run(t, "capture", "-dir", env.saveDir)
	if !errors.Is(err, session.ErrNoRegion) {
		t.Fatalf("expected ErrNoRegion, got %v", err)
	}
}

func TestCaptureSavesNumberedFiles(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "region", "set", "5,5,40,30"); err != nil {
		t.Fatal(err)
	}
	out, err := env.run(t, "capture", "-count", "2", "-dir", env.saveDir, "-template", "shot_{##}", "-clipboard=false")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if strings.Count(out, "Saved ") != 2 {
		t.Fatalf("output = %q", out)
	}
	// A second run starts its counter again but must not overwrite.
	if _, err := env.run(t, "capture", "-dir", env.saveDir, "-template", "shot_{##}", "-clipboard=false"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	for _, name := range []string{"shot_01.png", "shot_02.png", "shot_03.png"} {
		if _, err := os.Stat(filepath.Join(env.saveDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if len(env.captured) != 3 || env.captured[0] != image.Rect(5, 5, 45, 35) {
		t.Fatalf("captured = %v", env.captured)
	}
	if env.clipboard.images != 0 {
		t.Fatalf("clipboard should be skipped")
	}
	// Overrides are not written back.
	if s := env.settings(t); s.FileNameTemplate == "shot_{##}" {
		t.Fatalf("template override leaked into settings")
	}
}

func TestCaptureJPEGAndClipboard(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "region", "set", "0,0,20,20"); err != nil {
		t.Fatal(err)
	}
	out, err := env.run(t, "capture", "-dir", env.saveDir, "-template", "pic", "-format", "jpg")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if !strings.Contains(out, "copied to clipboard") || env.clipboard.images != 1 {
		t.Fatalf("expected clipboard copy, out = %q", out)
	}
	if _, err := os.Stat(filepath.Join(env.saveDir, "pic.jpg")); err != nil {
		t.Fatalf("missing pic.jpg: %v", err)
	}
}

func TestCaptureRejectsBadFlags(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "capture", "-format", "gif"); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := env.run(t, "capture", "-count", "0"); err == nil {
		t.Fatalf("expected count error")
	}
}

func stubScreen(t *testing.T, sel func(overlay.Options) (config.Region, error)) {
	t.Helper()
	prevScreen, prevSelect := captureScreenFn, selectFn
	t.Cleanup(func() { captureScreenFn, selectFn = prevScreen, prevSelect })
	captureScreenFn = func() (*image.RGBA, image.Rectangle, error) {
		b := image.Rect(-100, 0, 200, 100)
		return image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy())), b, nil
	}
	selectFn = sel
}

func TestSelectStoresRegionAndWindow(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv(config.EnvSaveDir, env.saveDir)
	stubScreen(t, func(opts overlay.Options) (config.Region, error) {
		if opts.Screen != image.Rect(-100, 0, 200, 100) || opts.Backdrop == nil {
			t.Errorf("unexpected options %+v", opts)
		}
		if opts.Theme == nil || opts.Theme.Name != "high_contrast" {
			t.Errorf("unexpected options %+v", opts)
		}
		w, h := 300.0, 100.0
		opts.Geometry(config.Window{Width: &w, Height: &h})
		return config.Region{X: -50, Y: 10, Width: 60, Height: 40}, nil
	})
	out, err := env.run(t, "-theme", "high_contrast", "select", "-capture")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !strings.Contains(out, "Saved ") {
		t.Fatalf("expected capture after select, out = %q", out)
	}
	s := env.settings(t)
	if s.Region == nil || s.Region.X != -50 {
		t.Fatalf("region = %+v", s.Region)
	}
	if w, h, ok := s.Window.Size(); !ok || w != 300 || h != 100 {
		t.Fatalf("window = %d x %d (%v)", w, h, ok)
	}
}

func TestSelectCancelledKeepsRegion(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "region", "set", "1,2,30,40"); err != nil {
		t.Fatal(err)
	}
	stubScreen(t, func(overlay.Options) (config.Region, error) {
		return config.Region{}, overlay.ErrCancelled
	})
	if _, err := env.run(t, "select"); err != nil {
		t.Fatalf("cancelled select should not fail: %v", err)
	}
	if r := env.settings(t).Region; r == nil || r.Width != 30 {
		t.Fatalf("region changed: %+v", r)
	}
}

// stubRun makes the signal context cancellable from the capture stub.
func stubRun(t *testing.T, env *cliEnv, listen func(context.Context, hotkey.Combo, func()) error) {
	t.Helper()
	prevCtx, prevListen := notifyContext, listenFn
	t.Cleanup(func() { notifyContext, listenFn = prevCtx, prevListen })
	var cancel context.CancelFunc
	notifyContext = func(parent context.Context, _ ...os.Signal) (context.Context, context.CancelFunc) {
		ctx, c := context.WithCancel(parent)
		cancel = c
		return ctx, c
	}
	listenFn = listen
	captureRegionFn = func(r image.Rectangle) (*image.RGBA, error) {
		env.captured = append(env.captured, r)
		cancel()
		return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
	}
}

func TestRunCapturesOnHotkey(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "region", "set", "0,0,20,20"); err != nil {
		t.Fatal(err)
	}
	var gotCombo hotkey.Combo
	stubRun(t, env, func(ctx context.Context, combo hotkey.Combo, fn func()) error {
		gotCombo = combo
		fn()
		<-ctx.Done()
		return nil
	})
	t.Setenv(config.EnvSaveDir, env.saveDir)
	out, err := env.run(t, "run", "-hotkey", "alt+f9")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotCombo.String() != "Alt+F9" {
		t.Fatalf("combo = %v", gotCombo)
	}
	if len(env.captured) != 1 || !strings.Contains(out, "Saved ") {
		t.Fatalf("captured = %v, out = %q", env.captured, out)
	}
}

func TestRunFallsBackToStdin(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "region", "set", "0,0,20,20"); err != nil {
		t.Fatal(err)
	}
	stubRun(t, env, func(context.Context, hotkey.Combo, func()) error {
		return errors.New("no display")
	})
	t.Setenv(config.EnvSaveDir, env.saveDir)

	var stdout, stderr bytes.Buffer
	r := newRoot()
	r.stdout, r.stderr = &stdout, &stderr
	r.stdin = strings.NewReader("\n")
	if err := r.Run([]string{"-config", env.configPath, "run"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(env.captured) != 1 {
		t.Fatalf("expected one capture from stdin, got %d", len(env.captured))
	}
	if len(env.notifier.warnings) != 1 || !strings.Contains(stderr.String(), "unavailable") {
		t.Fatalf("warnings = %v, stderr = %q", env.notifier.warnings, stderr.String())
	}
}

func TestRunRejectsBadHotkey(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "run", "-hotkey", "ctrl+"); err == nil {
		t.Fatalf("expected hotkey error")
	}
}

func TestTemplateUseCopiesExample(t *testing.T) {
	env := newCLIEnv(t)
	prev := copyTextFn
	t.Cleanup(func() { copyTextFn = prev })
	var copied string
	copyTextFn = func(s string) error {
		copied = s
		return nil
	}
	if _, err := env.run(t, "template", "use", "2"); err != nil {
		t.Fatalf("template use: %v", err)
	}
	want := "screenshot_{####}"
	if copied != want {
		t.Fatalf("copied %q, want %q", copied, want)
	}
	s := env.settings(t)
	if s.FileNameTemplate != want || len(s.FileNameHistory) == 0 || s.FileNameHistory[0] != want {
		t.Fatalf("settings template = %q, history = %v", s.FileNameTemplate, s.FileNameHistory)
	}
	out, err := env.run(t, "template", "history")
	if err != nil || !strings.Contains(out, "1  "+want) {
		t.Fatalf("history = %q, %v", out, err)
	}
	if _, err := env.run(t, "template", "use", "99"); err == nil {
		t.Fatalf("expected error for unknown example")
	}
}

func TestTemplatePreview(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "template", "-n", "2", "preview", "page_{###}")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if out != "page_001.png\npage_002.png\n" {
		t.Fatalf("preview = %q", out)
	}
}

func TestConfigPrintAppliesEnv(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv(config.EnvFormat, "jpeg")
	out, err := env.run(t, "config", "print")
	if err != nil {
		t.Fatalf("config print: %v", err)
	}
	if !strings.Contains(out, `"image_format": "jpeg"`) {
		t.Fatalf("config print = %q", out)
	}
}

func TestCorruptSettingsWarn(t *testing.T) {
	env := newCLIEnv(t)
	if err := os.WriteFile(env.configPath, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "region"); err != nil {
		t.Fatalf("region: %v", err)
	}
	if len(env.notifier.warnings) != 1 {
		t.Fatalf("expected a warning, got %v", env.notifier.warnings)
	}
	if _, err := os.Stat(env.configPath + ".bak"); err != nil {
		t.Fatalf("corrupt file not moved aside: %v", err)
	}
}

func TestUsageErrors(t *testing.T) {
	env := newCLIEnv(t)
	tests := [][]string{
		{},
		{"bogus"},
		{"region", "bogus"},
		{"region", "set"},
		{"template", "use"},
		{"config"},
		{"select", "extra"},
	}
	for _, args := range tests {
		_, err := env.run(t, args...)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Errorf("%v: expected UsageError, got %v", args, err)
			continue
		}
		if !strings.Contains(uerr.Error(), "Usage: regionshot") {
			t.Errorf("%v: help missing usage line: %q", args, uerr.Error())
		}
	}
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "version")
	if err != nil || out != "regionshot version dev\n" {
		t.Fatalf("version = %q, %v", out, err)
	}
}
