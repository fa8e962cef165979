//go:build !cgo && !windows

package clipboard

import (
	"errors"
	"image"
)

// The clipboard library needs cgo outside Windows, so a pure-Go build can
// only report why copying failed.
func openClipboard() error {
	return errors.New("clipboard operations require cgo support")
}

func WriteImage(image.Image) error { return ensureInit() }
func WriteText(string) error       { return ensureInit() }
