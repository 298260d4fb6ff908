package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// canvas draws in unscaled layout coordinates onto a bitmap multiplied by
// scale.
type canvas struct {
	img   *image.RGBA
	scale float64
}

func newCanvas(w, h int, scale float64) *canvas {
	return &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, px(w, scale), px(h, scale))),
		scale: scale,
	}
}

func px(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}

func (c *canvas) rect(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rect(px(x0, c.scale), px(y0, c.scale), px(x1, c.scale), px(y1, c.scale))
}

func (c *canvas) fill(x0, y0, x1, y1 int, col color.Color) {
	draw.Draw(c.img, c.rect(x0, y0, x1, y1), image.NewUniform(col), image.Point{}, draw.Src)
}

// circle is an alpha mask for a disk centered in its bounds.
type circle struct {
	center image.Point
	r      int
}

func (m circle) ColorModel() color.Model { return color.AlphaModel }

func (m circle) Bounds() image.Rectangle {
	return image.Rect(m.center.X-m.r, m.center.Y-m.r, m.center.X+m.r, m.center.Y+m.r)
}

func (m circle) At(x, y int) color.Color {
	dx := float64(x-m.center.X) + 0.5
	dy := float64(y-m.center.Y) + 0.5
	if dx*dx+dy*dy <= float64(m.r*m.r) {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

func (c *canvas) mask(cx, cy, r int) circle {
	return circle{center: image.Pt(px(cx, c.scale), px(cy, c.scale)), r: px(r, c.scale)}
}

func (c *canvas) disk(cx, cy, r int, col color.Color) {
	m := c.mask(cx, cy, r)
	draw.DrawMask(c.img, m.Bounds(), image.NewUniform(col), image.Point{}, m, m.Bounds().Min, draw.Over)
}

// avatar scales src to cover the disk and clips it to the circle.
func (c *canvas) avatar(cx, cy, r int, src image.Image) {
	m := c.mask(cx, cy, r)
	dst := m.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, cover(src.Bounds()), draw.Src, nil)
	draw.DrawMask(c.img, dst, scaled, image.Point{}, m, dst.Min, draw.Over)
}

// cover returns the largest centered square of b.
func cover(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x := b.Min.X + (b.Dx()-side)/2
	y := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}

var face = basicfont.Face7x13

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// fit trims s with an ellipsis until it is at most maxWidth wide.
func fit(s string, maxWidth int) string {
	if textWidth(s) <= maxWidth {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if t := string(r) + "..."; textWidth(t) <= maxWidth {
			return t
		}
	}
	return ""
}

// textCentered draws s centered on cx with its baseline at y. Glyphs are
// drawn at native size and scaled up with nearest neighbour.
func (c *canvas) textCentered(cx, y int, s string, col color.Color, maxWidth int) {
	s = fit(s, maxWidth)
	if s == "" {
		return
	}
	w := textWidth(s)
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()

	sprite := image.NewRGBA(image.Rect(0, 0, w, ascent+descent))
	d := font.Drawer{
		Dst:  sprite,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)

	x0 := cx - w/2
	dst := c.rect(x0, y-ascent, x0+w, y+descent)
	xdraw.NearestNeighbor.Scale(c.img, dst, sprite, sprite.Bounds(), draw.Over, nil)
}
