package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override values from the settings file.
const (
	EnvFile      = "REGIONSHOT_ENV"
	EnvSaveDir   = "REGIONSHOT_SAVE_DIR"
	EnvTemplate  = "REGIONSHOT_TEMPLATE"
	EnvFormat    = "REGIONSHOT_FORMAT"
	EnvHotkey    = "REGIONSHOT_HOTKEY"
	EnvClipboard = "REGIONSHOT_CLIPBOARD"
	EnvLogFile   = "REGIONSHOT_LOG_FILE"
	EnvTheme     = "REGIONSHOT_THEME"
)

// LoadDotenv loads a .env file next to the executable, or the file named by
// REGIONSHOT_ENV. Variables already set in the process win.
func LoadDotenv() string {
	path := resolveEnvPath()
	if path == "" {
		return ""
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("load %s: %v", path, err)
		return ""
	}
	return path
}

func resolveEnvPath() string {
	if alt := strings.TrimSpace(os.Getenv(EnvFile)); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}
	return ""
}

// ApplyEnv overrides settings from REGIONSHOT_* variables. Invalid values
// are logged and ignored.
func (s *Settings) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvSaveDir)); v != "" {
		s.SaveDir = v
	}
	if v := os.Getenv(EnvTemplate); strings.TrimSpace(v) != "" {
		s.FileNameTemplate = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		if f, err := ParseFormat(v); err == nil {
			s.Format = f
		} else {
			log.Printf("%s: %v", EnvFormat, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvHotkey)); v != "" {
		s.Hotkey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		s.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvClipboard)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.CopyToClipboard = b
		} else {
			log.Printf("%s: invalid boolean %q", EnvClipboard, v)
		}
	}
}
