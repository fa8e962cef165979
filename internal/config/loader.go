package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt wraps a settings file that could not be decoded. The file has
// already been moved aside when Load returns it.
var ErrCorrupt = errors.New("settings file is corrupt")

const (
	appDir       = "regionshot"
	fileName     = "settings.json"
	devFileName  = ".regionshot.json"
	backupSuffix = ".bak"
)

// Loader handles locating, loading and saving the settings file.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or by -config

	// loaded is the file Load read or quarantined; Save writes back there.
	loaded string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the settings file. A missing file yields defaults. A file that
// fails to decode is renamed to <path>.bak and defaults are returned along
// with an error wrapping ErrCorrupt; the returned Settings is never nil.
func (l *Loader) Load() (*Settings, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	l.loaded = path
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return New(), fmt.Errorf("read settings %s: %w", path, err)
	}
	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		quarantineErr := os.Rename(path, path+backupSuffix)
		if quarantineErr != nil {
			return New(), fmt.Errorf("%w: %s: %v (move aside: %v)", ErrCorrupt, path, err, quarantineErr)
		}
		return New(), fmt.Errorf("%w: %s: %v (moved to %s)", ErrCorrupt, path, err, path+backupSuffix)
	}
	s.Normalize()
	return s, nil
}

// Save writes s to the file the last Load resolved, even if that file was
// moved aside as corrupt. Without a prior Load it uses GetConfigPath, then
// DefaultPath. It returns the path written.
func (l *Loader) Save(s *Settings) (string, error) {
	path := l.Path()
	if path == "" {
		var err error
		path, err = l.DefaultPath()
		if err != nil {
			return "", err
		}
	}
	return path, WriteFile(path, s)
}

// WriteFile stores s as indented JSON, replacing path atomically.
func WriteFile(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Path is the settings file this loader reads and writes: the one Load
// resolved, or GetConfigPath before any Load.
func (l *Loader) Path() string {
	if l.loaded != "" {
		return l.loaded
	}
	return l.GetConfigPath()
}

// GetConfigPath returns the path of an existing settings file, or an empty
// string if none is found.
func (l *Loader) GetConfigPath() string {
	// 1. Explicit override
	if l.OverridePath != "" {
		return l.OverridePath
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, devFileName)
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. Per-user config directory
	if path, err := l.DefaultPath(); err == nil {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultPath is the per-user settings location.
func (l *Loader) DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}
