//go:build !linux && !darwin && !windows

package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Notify has no notification center to talk to here.
func Notify(title, _ string, _ Options) error {
	return fmt.Errorf("notify %q on %s: %w", title, runtime.GOOS, errors.ErrUnsupported)
}
