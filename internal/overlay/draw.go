package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// strokeRect draws the outline of r with the stroke centered on its edges.
// Both corners are inclusive: a 1px stroke covers r.Min and r.Max.
// Everything is clipped to dst's bounds.
func strokeRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	r = r.Canon()
	lo := thickness / 2
	hi := thickness - lo
	src := image.NewUniform(c)

	minX, minY := r.Min.X-lo, r.Min.Y-lo
	maxX, maxY := r.Max.X+hi, r.Max.Y+hi

	bands := []image.Rectangle{
		image.Rect(minX, minY, maxX, minY+thickness), // top
		image.Rect(minX, r.Max.Y-lo, maxX, maxY),     // bottom
		image.Rect(minX, minY, minX+thickness, maxY), // left
		image.Rect(r.Max.X-lo, minY, maxX, maxY),     // right
	}
	for _, b := range bands {
		draw.Draw(dst, b.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// Dot positions are 26.6 fixed point; origins past this bound would wrap.
const maxTextCoord = 1 << 24

// drawText renders s with its baseline-left at p. Extra thickness is faked by
// re-drawing one pixel to the right per pass. Labels that cannot touch dst
// are skipped.
func drawText(dst draw.Image, face font.Face, p image.Point, s string, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	if p.X < -maxTextCoord || p.X >= maxTextCoord || p.Y < -maxTextCoord || p.Y >= maxTextCoord {
		return
	}
	b, _ := font.BoundString(face, s)
	area := image.Rect(
		p.X+b.Min.X.Floor(), p.Y+b.Min.Y.Floor(),
		p.X+b.Max.X.Ceil()+thickness, p.Y+b.Max.Y.Ceil(),
	)
	if !area.Overlaps(dst.Bounds()) {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	for i := 0; i < thickness; i++ {
		d.Dot = fixed.P(p.X+i, p.Y)
		d.DrawString(s)
	}
}
