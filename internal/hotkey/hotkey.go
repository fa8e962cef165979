// Package hotkey registers a global key combination.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	hook "github.com/robotn/gohook"
)

var errNoDisplay = errors.New("global hotkeys require an X11 display (DISPLAY is not set)")

// Hook entry points; tests replace them.
var (
	registerFn = hook.Register
	startFn    = hook.Start
	processFn  = hook.Process
	endFn      = hook.End
)

// Combo is a normalized key combination: modifiers in a fixed order
// followed by exactly one key.
type Combo struct {
	Keys []string
}

var modifierOrder = []string{"ctrl", "alt", "shift", "cmd"}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"shift":   "shift",
	"cmd":     "cmd",
	"win":     "cmd",
	"super":   "cmd",
	"meta":    "cmd",
}

var keyAliases = map[string]string{
	"escape": "esc",
	"return": "enter",
	"del":    "delete",
	"ins":    "insert",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
	"prtsc":  "printscreen",
	"print":  "printscreen",
}

var namedKeys = map[string]bool{
	"space": true, "enter": true, "esc": true, "tab": true, "backspace": true,
	"delete": true, "insert": true, "home": true, "end": true, "pageup": true,
	"pagedown": true, "left": true, "up": true, "right": true, "down": true,
	"printscreen": true,
}

// Parse reads combinations such as "Ctrl+Shift+C". Names are case
// insensitive; exactly one non-modifier key is required.
func Parse(s string) (Combo, error) {
	if strings.TrimSpace(s) == "" {
		return Combo{}, fmt.Errorf("empty hotkey")
	}
	mods := map[string]bool{}
	key := ""
	for _, part := range strings.Split(s, "+") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			return Combo{}, fmt.Errorf("hotkey %q: empty key name", s)
		}
		if mod, ok := modifierAliases[name]; ok {
			mods[mod] = true
			continue
		}
		if alias, ok := keyAliases[name]; ok {
			name = alias
		}
		if !validKey(name) {
			return Combo{}, fmt.Errorf("hotkey %q: unknown key %q", s, part)
		}
		if key != "" {
			return Combo{}, fmt.Errorf("hotkey %q: more than one key (%q and %q)", s, key, name)
		}
		key = name
	}
	if key == "" {
		return Combo{}, fmt.Errorf("hotkey %q: needs a key besides modifiers", s)
	}
	keys := make([]string, 0, len(mods)+1)
	for _, m := range modifierOrder {
		if mods[m] {
			keys = append(keys, m)
		}
	}
	return Combo{Keys: append(keys, key)}, nil
}

func validKey(name string) bool {
	if len(name) == 1 {
		c := name[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if namedKeys[name] {
		return true
	}
	return functionKey(name)
}

func functionKey(name string) bool {
	if !strings.HasPrefix(name, "f") || strings.HasPrefix(name, "f0") {
		return false
	}
	n, err := strconv.Atoi(name[1:])
	return err == nil && n >= 1 && n <= 24
}

func (c Combo) String() string {
	parts := make([]string, len(c.Keys))
	for i, k := range c.Keys {
		switch k {
		case "ctrl":
			parts[i] = "Ctrl"
		case "cmd":
			parts[i] = "Cmd"
		default:
			if len(k) == 1 || functionKey(k) {
				parts[i] = strings.ToUpper(k)
			} else {
				parts[i] = strings.ToUpper(k[:1]) + k[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}

func available() error {
	if runtime.GOOS == "linux" || strings.HasSuffix(runtime.GOOS, "bsd") {
		if os.Getenv("DISPLAY") == "" {
			return errNoDisplay
		}
	}
	return nil
}

// Listen registers combo and calls fn on every press until ctx is done. fn
// runs on the hook goroutine; callers that touch shared state should hand
// the press off to their own loop.
func Listen(ctx context.Context, combo Combo, fn func()) error {
	if len(combo.Keys) == 0 {
		return fmt.Errorf("no hotkey configured")
	}
	if err := available(); err != nil {
		return fmt.Errorf("register %s: %w", combo, err)
	}
	registerFn(hook.KeyDown, combo.Keys, func(hook.Event) {
		fn()
	})
	events := startFn()
	if events == nil {
		return fmt.Errorf("register %s: hook did not start", combo)
	}
	log.Printf("hotkey %s registered", combo)
	done := processFn(events)
	select {
	case <-ctx.Done():
		endFn()
		<-done
		return nil
	case <-done:
		return fmt.Errorf("hotkey %s: event hook stopped", combo)
	}
}
