//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

// appleScript builds a Notification Center request. Notification Center
// does not accept custom icons from osascript, so IconPath is ignored.
func appleScript(title, body string, opts Options) string {
	parts := []string{
		"display notification " + fmt.Sprintf("%q", body),
		"with title " + fmt.Sprintf("%q", title),
		"subtitle " + fmt.Sprintf("%q", AppName),
	}
	if opts.Urgent {
		parts = append(parts, `sound name "Basso"`)
	}
	return strings.Join(parts, " ")
}

func Notify(title, body string, opts Options) error {
	out, err := exec.Command("osascript", "-e", appleScript(title, body, opts)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
