//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// xImageToRGBA converts a ZPixmap reply in little-endian BGR(X) order. The
// fourth byte is only treated as alpha for 32-bit depth visuals; at depth 24
// it is padding.
func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	switch {
	case setup == nil:
		return nil, fmt.Errorf("xproto setup unavailable")
	case width <= 0 || height <= 0:
		return nil, fmt.Errorf("root window has empty geometry")
	case reply == nil || len(reply.Data) == 0:
		return nil, fmt.Errorf("root window pixels: empty image data")
	}

	bpp := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bpp = int(format.BitsPerPixel) / 8
			break
		}
	}
	if bpp < 3 {
		return nil, fmt.Errorf("unsupported depth %d", reply.Depth)
	}
	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) || stride < width*bpp {
		return nil, fmt.Errorf("root window pixels: unexpected stride")
	}
	hasAlpha := reply.Depth == 32 && bpp >= 4

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride:]
		out := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			in := row[x*bpp:]
			o := out[x*4:]
			o[0], o[1], o[2], o[3] = in[2], in[1], in[0], 0xFF
			if hasAlpha {
				o[3] = in[3]
			}
		}
	}
	return img, nil
}
