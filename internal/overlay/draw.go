package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/regionshot/internal/theme"
)

const (
	dashLength  = 6
	borderWidth = 2
	statusPad   = 4
)

// renderFrame paints the backdrop dimmed everywhere except the live
// selection, outlines the selection with a dashed border and draws the
// status text in the top-left corner. backdrop must already match dst's size.
func renderFrame(dst *image.RGBA, backdrop image.Image, sel image.Rectangle, status string, th *theme.Theme) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, backdrop, backdrop.Bounds().Min, draw.Src)
	draw.Draw(dst, bounds, image.NewUniform(th.Shade), image.Point{}, draw.Over)

	sel = sel.Canon().Intersect(bounds)
	if !sel.Empty() {
		offset := backdrop.Bounds().Min.Sub(bounds.Min)
		draw.Draw(dst, sel, backdrop, sel.Min.Add(offset), draw.Src)
		drawDashedRect(dst, sel, dashLength, borderWidth, th.DashLight, th.DashDark)
	}
	if status != "" {
		drawStatus(dst, status, th)
	}
}

// drawDashedRect outlines r with alternating runs of c1 and c2.
func drawDashedRect(img *image.RGBA, r image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	for t := 0; t < thickness; t++ {
		top, bottom := r.Min.Y+t, r.Max.Y-1-t
		left, right := r.Min.X+t, r.Max.X-1-t
		for x := r.Min.X; x < r.Max.X; x++ {
			c := dashColor(x-r.Min.X, dash, c1, c2)
			img.Set(x, top, c)
			img.Set(x, bottom, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			c := dashColor(y-r.Min.Y, dash, c1, c2)
			img.Set(left, y, c)
			img.Set(right, y, c)
		}
	}
}

func dashColor(offset, dash int, c1, c2 color.Color) color.Color {
	if dash <= 0 || (offset/dash)%2 == 0 {
		return c1
	}
	return c2
}

// drawStatus draws msg in a translucent box with a thin border.
func drawStatus(dst *image.RGBA, msg string, th *theme.Theme) image.Rectangle {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: face}
	width := d.MeasureString(msg).Ceil()
	height := face.Metrics().Height.Ceil()

	origin := dst.Bounds().Min.Add(image.Pt(statusPad, statusPad))
	box := image.Rect(origin.X, origin.Y, origin.X+width+2*statusPad, origin.Y+height+2*statusPad)
	draw.Draw(dst, box, image.NewUniform(th.StatusFill), image.Point{}, draw.Over)
	drawRect(dst, box, th.StatusBorder)

	d.Dot = fixed.P(box.Min.X+statusPad, box.Min.Y+statusPad+face.Metrics().Ascent.Ceil())
	d.DrawString(msg)
	return box
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}
