// Package theme holds the colours the selection overlay is drawn with.
package theme

import (
	"image/color"
	"sort"
	"strings"
)

// Theme is the overlay palette.
type Theme struct {
	Name string

	Shade        color.NRGBA // laid over the screen outside the selection
	DashLight    color.NRGBA
	DashDark     color.NRGBA
	StatusFill   color.NRGBA
	StatusText   color.NRGBA
	StatusBorder color.NRGBA
}

// Default returns the built-in palette.
func Default() *Theme {
	return &Theme{
		Name:         "default",
		Shade:        color.NRGBA{A: 0x80},
		DashLight:    color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		DashDark:     color.NRGBA{A: 0xFF},
		StatusFill:   color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xD0},
		StatusText:   color.NRGBA{A: 0xFF},
		StatusBorder: color.NRGBA{A: 0xFF},
	}
}

func highContrast() *Theme {
	return &Theme{
		Name:         "high_contrast",
		Shade:        color.NRGBA{A: 0xB0},
		DashLight:    color.NRGBA{R: 0xFF, G: 0xFF, A: 0xFF},
		DashDark:     color.NRGBA{R: 0xFF, A: 0xFF},
		StatusFill:   color.NRGBA{A: 0xFF},
		StatusText:   color.NRGBA{R: 0xFF, G: 0xFF, A: 0xFF},
		StatusBorder: color.NRGBA{R: 0xFF, G: 0xFF, A: 0xFF},
	}
}

func light() *Theme {
	return &Theme{
		Name:         "light",
		Shade:        color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x70},
		DashLight:    color.NRGBA{R: 0x1E, G: 0x90, B: 0xFF, A: 0xFF},
		DashDark:     color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		StatusFill:   color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xE0},
		StatusText:   color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		StatusBorder: color.NRGBA{R: 0x1E, G: 0x90, B: 0xFF, A: 0xFF},
	}
}

var builtin = map[string]func() *Theme{
	"default":       Default,
	"high_contrast": highContrast,
	"light":         light,
}

// Builtin lists the names of the built-in themes.
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBuiltin(name string) (*Theme, bool) {
	fn, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return fn(), true
}
