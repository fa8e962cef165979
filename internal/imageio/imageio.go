// Package imageio encodes captured images to disk.
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// JPEGQuality is used for every JPEG written.
const JPEGQuality = 95

// Encode writes img to w. format is "png" or "jpeg"/"jpg".
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png", "":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// Save encodes img into path, creating missing directories. The image is
// written to a temporary file next to path and renamed into place, so a
// failed write never leaves a file under the final name.
func Save(path string, img image.Image, format string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if err := Encode(tmp, img, format); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Fit returns the largest size with the aspect ratio of w x h that fits in
// maxW x maxH. Sizes that already fit are returned unchanged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := float64(w) / float64(h)
	if float64(maxW)/float64(maxH) > ratio {
		return max(1, int(float64(maxH)*ratio)), maxH
	}
	return maxW, max(1, int(float64(maxW)/ratio))
}

// Scale resizes src to exactly w x h.
func Scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Thumbnail scales src down to fit maxW x maxH, preserving aspect ratio.
func Thumbnail(src image.Image, maxW, maxH int) *image.RGBA {
	w, h := Fit(src.Bounds().Dx(), src.Bounds().Dy(), maxW, maxH)
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
