// Package notify turns capture events into desktop notifications.
package notify

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/regionshot/internal/imageio"
	"github.com/example/regionshot/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	EventCapture Event = "capture"
	EventSave    Event = "save"
	EventCopy    Event = "copy"
	// EventWarning cannot be disabled.
	EventWarning Event = "warning"
)

const (
	previewSize = 256
	envPrefix   = "REGIONSHOT_NOTIFY_"
)

// events lists every trigger with its default body.
var events = []struct {
	event    Event
	fallback string
}{
	{EventCapture, "Captured %s"},
	{EventSave, "Saved %s"},
	{EventCopy, "Copied %s to clipboard"},
	{EventWarning, "%s"},
}

// EventPreference holds the body template of one event. A %s verb is
// replaced with the event detail.
type EventPreference struct {
	Template string
}

// Preferences is the notification title plus a body per event.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

func DefaultPreferences() Preferences {
	p := Preferences{Title: platform.AppName, Events: make(map[Event]EventPreference, len(events))}
	for _, e := range events {
		p.Events[e.event] = EventPreference{Template: e.fallback}
	}
	return p
}

// LoadPreferences overlays REGIONSHOT_NOTIFY_TITLE and
// REGIONSHOT_NOTIFY_<EVENT>_TEXT on the defaults.
func LoadPreferences() Preferences {
	p := DefaultPreferences()
	if v := lookupEnv("TITLE"); v != "" {
		p.Title = v
	}
	for _, e := range events {
		if v := lookupEnv(strings.ToUpper(string(e.event)) + "_TEXT"); v != "" {
			p.Events[e.event] = EventPreference{Template: v}
		}
	}
	return p
}

func lookupEnv(suffix string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + suffix))
}

// sendFn delivers a notification; tests replace it.
var sendFn = platform.Notify

// Notifier filters events by the enabled set and hands the rendered text to
// the platform notifier. Delivery failures are logged, never returned.
type Notifier struct {
	title   string
	bodies  map[Event]string
	enabled map[Event]bool
}

// New copies prefs. Only warnings are on until Enable is called.
func New(prefs Preferences) *Notifier {
	n := &Notifier{
		title:   prefs.Title,
		bodies:  make(map[Event]string, len(prefs.Events)),
		enabled: map[Event]bool{EventWarning: true},
	}
	for event, p := range prefs.Events {
		n.bodies[event] = p.Template
	}
	return n
}

func (n *Notifier) Enable(event Event, on bool) {
	if n == nil || event == EventWarning {
		return
	}
	n.enabled[event] = on
}

// Capture attaches a thumbnail of img as the icon. The thumbnail lives in a
// temporary directory that is gone once the notification has been sent.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.on(EventCapture) {
		return
	}
	var icon string
	if img != nil {
		dir, err := os.MkdirTemp("", "regionshot-preview-")
		if err == nil {
			defer removeAll(dir)
			icon, err = writeThumbnail(filepath.Join(dir, "preview.png"), img)
		}
		if err != nil {
			log.Printf("notification preview: %v", err)
		}
	}
	n.send(EventCapture, detail, platform.Options{IconPath: icon})
}

// Save names the written file by its absolute path and uses the file
// itself as the icon when it can be found.
func (n *Notifier) Save(path string) {
	if !n.on(EventSave) {
		return
	}
	var opts platform.Options
	abs, err := filepath.Abs(path)
	if err != nil {
		n.send(EventSave, path, opts)
		return
	}
	if info, err := os.Stat(abs); err == nil && info.Mode().IsRegular() {
		opts.IconPath = abs
	}
	n.send(EventSave, abs, opts)
}

func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.send(EventCopy, detail, platform.Options{})
}

// Warn logs msg and shows it as an urgent notification.
func (n *Notifier) Warn(msg string) {
	log.Printf("warning: %s", msg)
	n.send(EventWarning, msg, platform.Options{Urgent: true})
}

func (n *Notifier) on(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) send(event Event, detail string, opts platform.Options) {
	if !n.on(event) {
		return
	}
	body := render(n.bodies[event], detail)
	if body == "" {
		return
	}
	if err := sendFn(n.title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// render substitutes detail for the %s verb. A template without the verb is
// used verbatim and an empty one suppresses the notification.
func render(template, detail string) string {
	template = strings.TrimSpace(template)
	if !strings.Contains(template, "%s") {
		return template
	}
	return strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
}

func writeThumbnail(path string, img image.Image) (string, error) {
	thumb := imageio.Thumbnail(img, previewSize, previewSize)
	if err := imageio.Save(path, thumb, "png"); err != nil {
		return "", err
	}
	return path, nil
}

func removeAll(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("remove preview: %v", err)
	}
}
