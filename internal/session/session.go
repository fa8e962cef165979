// Package session owns the settings, the selected region and the capture
// counter, and performs the capture action.
package session

import (
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/nametemplate"
)

// ErrNoRegion is returned by Capture before a region has been selected.
var ErrNoRegion = errors.New("no capture region selected")

// maxNameAttempts bounds the search for a free file name.
const maxNameAttempts = 1000

// Screen rasterizes a rectangle in global physical pixels.
type Screen interface {
	CaptureRect(image.Rectangle) (*image.RGBA, error)
}

// Encoder writes images to disk.
type Encoder interface {
	Save(path string, img image.Image, format string) error
	Exists(path string) bool
}

// Clipboard receives a copy of each capture.
type Clipboard interface {
	WriteImage(image.Image) error
}

// Store persists settings.
type Store interface {
	Save(*config.Settings) (string, error)
}

// Notifier reports capture events to the user.
type Notifier interface {
	Capture(detail string, img image.Image)
	Save(path string)
	Copy(detail string)
	Warn(msg string)
}

// Deps are the collaborators a Session drives. Nil Notifier and Now are
// replaced with a silent notifier and time.Now.
type Deps struct {
	Screen    Screen
	Encoder   Encoder
	Clipboard Clipboard
	Store     Store
	Notifier  Notifier
	Now       func() time.Time
}

// Result describes one completed capture.
type Result struct {
	Path    string
	Name    string
	Counter int
	Copied  bool
	Image   *image.RGBA
}

// Session is the single owner of mutable application state. It is not safe
// for concurrent use; callers serialize access on one goroutine.
type Session struct {
	settings *config.Settings
	counter  int
	deps     Deps
}

// New creates a session over settings, which it takes ownership of.
func New(settings *config.Settings, deps Deps) *Session {
	if settings == nil {
		settings = config.New()
	}
	if deps.Notifier == nil {
		deps.Notifier = silent{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Session{settings: settings, deps: deps}
}

// Settings returns the live settings. Mutate them through the Set methods.
func (s *Session) Settings() *config.Settings { return s.settings }

// Counter returns the number used by the most recent capture.
func (s *Session) Counter() int { return s.counter }

// Region returns the selected region, if any.
func (s *Session) Region() (config.Region, bool) {
	if s.settings.Region == nil {
		return config.Region{}, false
	}
	return *s.settings.Region, true
}

// SetRegion stores a newly selected region and restarts the counter.
func (s *Session) SetRegion(r config.Region) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid region %s", r)
	}
	s.settings.Region = &r
	s.counter = 0
	s.persist()
	return nil
}

// ClearRegion forgets the selected region.
func (s *Session) ClearRegion() {
	s.settings.Region = nil
	s.counter = 0
	s.persist()
}

// SetTemplate sets the file name template; blank restores the default.
func (s *Session) SetTemplate(t string) {
	if strings.TrimSpace(t) == "" {
		t = nametemplate.Default
	}
	s.settings.FileNameTemplate = t
	s.settings.AddTemplateHistory(t)
	s.persist()
}

func (s *Session) SetSaveDir(dir string) {
	s.settings.SaveDir = dir
	s.persist()
}

func (s *Session) SetFormat(f config.Format) {
	s.settings.Format = f
	s.persist()
}

func (s *Session) SetCopyToClipboard(on bool) {
	s.settings.CopyToClipboard = on
	s.persist()
}

func (s *Session) SetAvoidOverwrite(on bool) {
	s.settings.AvoidOverwrite = on
	s.persist()
}

// SetWindow remembers the overlay geometry.
func (s *Session) SetWindow(w config.Window) {
	s.settings.Window = w
	s.persist()
}

// Close saves the settings one last time.
func (s *Session) Close() error {
	if s.deps.Store == nil {
		return nil
	}
	if _, err := s.deps.Store.Save(s.settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Session) persist() {
	if s.deps.Store == nil {
		return
	}
	if _, err := s.deps.Store.Save(s.settings); err != nil {
		log.Printf("save settings: %v", err)
	}
}

// Preview returns the names the next n captures would use at the current
// time, without consuming counter values or checking the disk.
func (s *Session) Preview(template string, n int) []string {
	if template == "" {
		template = s.settings.FileNameTemplate
	}
	now := s.deps.Now()
	engine := nametemplate.Engine{Now: func() time.Time { return now }}
	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		names = append(names, engine.Generate(template, s.counter+i, s.settings.Format.Ext()))
	}
	return names
}

// Capture grabs the selected region, names it from the template and saves
// it. Encoding failures are returned; clipboard failures are only logged.
func (s *Session) Capture() (Result, error) {
	region, ok := s.Region()
	if !ok {
		return Result{}, ErrNoRegion
	}
	if s.deps.Screen == nil || s.deps.Encoder == nil {
		return Result{}, fmt.Errorf("session has no screen or encoder")
	}
	img, err := s.deps.Screen.CaptureRect(region.Rect())
	if err != nil {
		return Result{}, fmt.Errorf("capture region %s: %w", region, err)
	}

	now := s.deps.Now()
	engine := nametemplate.Engine{Now: func() time.Time { return now }}
	tmpl := s.settings.FileNameTemplate
	ext := s.settings.Format.Ext()

	s.counter++
	name := engine.Generate(tmpl, s.counter, ext)
	if s.settings.AvoidOverwrite && s.deps.Encoder.Exists(s.pathFor(name)) {
		name = s.freeName(engine, tmpl, ext, name)
	}
	path := s.pathFor(name)

	if err := s.deps.Encoder.Save(path, img, string(s.settings.Format)); err != nil {
		return Result{}, fmt.Errorf("save capture: %w", err)
	}
	res := Result{Path: path, Name: name, Counter: s.counter, Image: img}
	s.deps.Notifier.Capture(name, img)
	s.deps.Notifier.Save(path)

	if s.settings.CopyToClipboard && s.deps.Clipboard != nil {
		if err := s.deps.Clipboard.WriteImage(img); err != nil {
			log.Printf("copy capture to clipboard: %v", err)
		} else {
			res.Copied = true
			s.deps.Notifier.Copy(name)
		}
	}
	return res, nil
}

// freeName advances the counter until the template yields a name that is
// not on disk. Templates without a counter stop changing; those get a
// numeric suffix before the extension instead.
func (s *Session) freeName(engine nametemplate.Engine, tmpl, ext, name string) string {
	for i := 0; i < maxNameAttempts; i++ {
		next := engine.Generate(tmpl, s.counter+1, ext)
		if next == name {
			break
		}
		s.counter++
		name = next
		if !s.deps.Encoder.Exists(s.pathFor(name)) {
			return name
		}
	}
	suffix := filepath.Ext(name)
	base := strings.TrimSuffix(name, suffix)
	for n := 1; n <= maxNameAttempts; n++ {
		candidate := base + "_" + strconv.Itoa(n) + suffix
		if !s.deps.Encoder.Exists(s.pathFor(candidate)) {
			return candidate
		}
	}
	return name
}

func (s *Session) pathFor(name string) string {
	return filepath.Join(s.settings.SaveDir, filepath.FromSlash(name))
}

type silent struct{}

func (silent) Capture(string, image.Image) {}
func (silent) Save(string)                 {}
func (silent) Copy(string)                 {}
func (silent) Warn(string)                 {}
