package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader finds themes by name or path.
type Loader struct {
	// Dir holds user themes as <name>.theme files.
	Dir string
}

// NewLoader looks for user themes under the per-user config directory.
func NewLoader() *Loader {
	dir, err := os.UserConfigDir()
	if err != nil {
		return &Loader{}
	}
	return &Loader{Dir: filepath.Join(dir, "regionshot", "themes")}
}

// Load resolves name as, in order: an existing file path, a built-in theme,
// then <Dir>/<name>.theme. An empty name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(name)
	}
	if t, ok := lookupBuiltin(name); ok {
		return t, nil
	}
	if l.Dir != "" {
		path := filepath.Join(l.Dir, strings.TrimSuffix(name, ".theme")+".theme")
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("theme %q not found (built in: %s)", name, strings.Join(Builtin(), ", "))
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	if t.Name == Default().Name {
		t.Name = strings.TrimSuffix(filepath.Base(path), ".theme")
	}
	return t, nil
}
