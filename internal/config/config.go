package config

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/regionshot/internal/nametemplate"
)

// MaxTemplateHistory bounds Settings.FileNameHistory.
const MaxTemplateHistory = 10

// DefaultHotkey triggers a capture from anywhere on the desktop.
const DefaultHotkey = "Ctrl+Shift+C"

// Format selects the encoder for saved captures.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts png, jpg and jpeg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// Region is a capture rectangle in physical pixels.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionFromRect converts an image.Rectangle.
func RegionFromRect(r image.Rectangle) Region {
	r = r.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("X:%d, Y:%d, W:%d, H:%d", r.X, r.Y, r.Width, r.Height)
}

// Notify holds notification settings.
type Notify struct {
	Capture bool `json:"capture"`
	Save    bool `json:"save"`
	Copy    bool `json:"copy"`
}

// Window is the remembered geometry of the selection overlay. Each field is
// optional so a fresh install lets the window system decide.
type Window struct {
	Left   *float64 `json:"left,omitempty"`
	Top    *float64 `json:"top,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// windowMargin is how far from the screen edge a misplaced window lands.
const windowMargin = 50

// Clamp moves the window back onto screen. Each axis is handled on its own:
// if the window sticks out, it is placed windowMargin from the screen origin.
func (w Window) Clamp(screen image.Rectangle) Window {
	if w.Left == nil || w.Top == nil {
		return w
	}
	width, height := 0.0, 0.0
	if w.Width != nil {
		width = *w.Width
	}
	if w.Height != nil {
		height = *w.Height
	}
	left, top := *w.Left, *w.Top
	if left < float64(screen.Min.X) || left+width > float64(screen.Max.X) {
		left = float64(screen.Min.X + windowMargin)
	}
	if top < float64(screen.Min.Y) || top+height > float64(screen.Max.Y) {
		top = float64(screen.Min.Y + windowMargin)
	}
	w.Left = &left
	w.Top = &top
	return w
}

// Size returns the remembered size in whole pixels, or false if unset.
func (w Window) Size() (int, int, bool) {
	if w.Width == nil || w.Height == nil || *w.Width <= 0 || *w.Height <= 0 {
		return 0, 0, false
	}
	return int(*w.Width), int(*w.Height), true
}

// Settings is everything persisted between runs.
type Settings struct {
	SaveDir          string   `json:"save_dir"`
	Format           Format   `json:"image_format"`
	CopyToClipboard  bool     `json:"copy_to_clipboard"`
	AvoidOverwrite   bool     `json:"avoid_overwrite"`
	Region           *Region  `json:"capture_region,omitempty"`
	FileNameTemplate string   `json:"file_name_template"`
	FileNameHistory  []string `json:"file_name_history"`
	Hotkey           string   `json:"hotkey"`
	Notify           Notify   `json:"notify"`
	Window           Window   `json:"window"`
	Theme            string   `json:"theme,omitempty"`
}

// New creates Settings with defaults.
func New() *Settings {
	return &Settings{
		SaveDir:          defaultSaveDir(),
		Format:           FormatPNG,
		CopyToClipboard:  true,
		AvoidOverwrite:   true,
		FileNameTemplate: nametemplate.Default,
		FileNameHistory:  []string{},
		Hotkey:           DefaultHotkey,
	}
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	pictures := filepath.Join(home, "Pictures")
	if st, err := os.Stat(pictures); err == nil && st.IsDir() {
		return pictures
	}
	return home
}

// Normalize repairs values a hand-edited file may have left empty or invalid.
func (s *Settings) Normalize() {
	if strings.TrimSpace(s.FileNameTemplate) == "" {
		s.FileNameTemplate = nametemplate.Default
	}
	if f, err := ParseFormat(string(s.Format)); err == nil {
		s.Format = f
	} else {
		s.Format = FormatPNG
	}
	if strings.TrimSpace(s.SaveDir) == "" {
		s.SaveDir = defaultSaveDir()
	}
	if strings.TrimSpace(s.Hotkey) == "" {
		s.Hotkey = DefaultHotkey
	}
	if s.Region != nil && (s.Region.Width <= 0 || s.Region.Height <= 0) {
		s.Region = nil
	}
	if s.FileNameHistory == nil {
		s.FileNameHistory = []string{}
	}
	if len(s.FileNameHistory) > MaxTemplateHistory {
		s.FileNameHistory = s.FileNameHistory[:MaxTemplateHistory]
	}
}

// AddTemplateHistory puts t at the front of the history, dropping an
// earlier copy and anything beyond MaxTemplateHistory.
func (s *Settings) AddTemplateHistory(t string) {
	if strings.TrimSpace(t) == "" {
		return
	}
	hist := make([]string, 0, len(s.FileNameHistory)+1)
	hist = append(hist, t)
	for _, h := range s.FileNameHistory {
		if h != t {
			hist = append(hist, h)
		}
	}
	if len(hist) > MaxTemplateHistory {
		hist = hist[:MaxTemplateHistory]
	}
	s.FileNameHistory = hist
}

// String returns the settings as indented JSON.
func (s *Settings) String() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data) + "\n"
}
