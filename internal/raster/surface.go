// Package raster implements the fixed-size drawing surface and the immutable
// snapshots the history is built from.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// Logical size of the drawing surface.
const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

// Point is a position in raster space. Coordinates are fractional because
// pointer input is scaled from screen space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Cap selects how the ends of a line segment are drawn.
type Cap int

const (
	CapRound Cap = iota
	CapButt
	CapSquare
)

func (c Cap) capFunc() rasterx.CapFunc {
	switch c {
	case CapButt:
		return rasterx.ButtCap
	case CapSquare:
		return rasterx.SquareCap
	default:
		return rasterx.RoundCap
	}
}

// Surface is a mutable RGBA pixel buffer of a fixed size.
type Surface struct {
	img    *image.RGBA
	dasher *rasterx.Dasher
}

// New allocates a fully transparent surface. Non-positive dimensions fall
// back to DefaultWidth x DefaultHeight.
func New(width, height int) *Surface {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &Surface{
		img:    img,
		dasher: rasterx.NewDasher(width, height, scanner),
	}
}

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Size returns the width and height of the surface.
func (s *Surface) Size() image.Point { return s.img.Bounds().Size() }

// Image exposes the live pixel buffer. Callers must not retain it across
// mutations if they need a stable copy; use Copy for that.
func (s *Surface) Image() *image.RGBA { return s.img }

// Copy returns a detached copy of the current pixels.
func (s *Surface) Copy() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Load replaces the pixels with img, which must match the surface bounds.
func (s *Surface) Load(img *image.RGBA) {
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
}

// FillRect paints r with c, replacing whatever was there.
func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// Fill paints the whole surface with c.
func (s *Surface) Fill(c color.Color) { s.FillRect(s.img.Bounds(), c) }

// Clear makes every pixel fully transparent.
func (s *Surface) Clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

// DrawLineSegment strokes the segment from -> to with the given colour,
// width and cap style. A zero-length segment with round caps leaves a dot.
func (s *Surface) DrawLineSegment(from, to Point, c color.Color, width float64, cp Cap) {
	if width <= 0 {
		return
	}
	if from == to {
		if cp == CapButt {
			return
		}
		f := &s.dasher.Filler
		if cp == CapSquare {
			h := width / 2
			f.Start(rasterx.ToFixedP(from.X-h, from.Y-h))
			f.Line(rasterx.ToFixedP(from.X+h, from.Y-h))
			f.Line(rasterx.ToFixedP(from.X+h, from.Y+h))
			f.Line(rasterx.ToFixedP(from.X-h, from.Y+h))
			f.Stop(true)
		} else {
			rasterx.AddCircle(from.X, from.Y, width/2, f)
		}
		f.SetColor(c)
		f.Draw()
		f.Clear()
		return
	}
	capFn := cp.capFunc()
	s.dasher.SetStroke(toFixed(width), toFixed(4), capFn, capFn, rasterx.RoundGap, rasterx.Round, nil, 0)
	s.dasher.Start(rasterx.ToFixedP(from.X, from.Y))
	s.dasher.Line(rasterx.ToFixedP(to.X, to.Y))
	s.dasher.Stop(false)
	s.dasher.SetColor(c)
	s.dasher.Draw()
	s.dasher.Clear()
}

// DrawImage scales img into dst and composites it over the surface.
func (s *Surface) DrawImage(img image.Image, dst image.Rectangle) {
	if img == nil || dst.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(s.img, dst, img, img.Bounds(), xdraw.Over, nil)
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
