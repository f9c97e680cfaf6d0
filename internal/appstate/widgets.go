package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/codraw/internal/theme"
)

type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateSelected
	StateDisabled
	stateCount
)

// Button represents an interactive toolbar element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Width() int
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [stateCount]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [stateCount]*image.RGBA{}
	}
}

// buttonFill picks the background for state.
func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

// mix averages two colours.
func mix(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
		A: 0xff,
	}
}

// LabelButton is a text button running an action.
type LabelButton struct {
	label  string
	theme  *theme.Theme
	rect   image.Rectangle
	action func()
}

func (b *LabelButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, &image.Uniform{buttonFill(b.theme, state)}, image.Point{}, draw.Src)
	drawRect(dst, b.rect, b.theme.ButtonBorder, 1)
	text := b.theme.ButtonText
	if state == StateDisabled {
		text = mix(text, b.theme.ButtonBackground)
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+(b.rect.Dy()+9)/2)}
	d.DrawString(b.label)
}

func (b *LabelButton) Width() int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(b.label).Ceil() + 8
}

func (b *LabelButton) Rect() image.Rectangle     { return b.rect }
func (b *LabelButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *LabelButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// SwatchButton selects a pen colour.
type SwatchButton struct {
	entry  PaletteColor
	theme  *theme.Theme
	rect   image.Rectangle
	choose func(color.RGBA)
}

func (b *SwatchButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, &image.Uniform{buttonFill(b.theme, state)}, image.Point{}, draw.Src)
	inner := b.rect.Inset(4)
	draw.Draw(dst, inner, &image.Uniform{b.entry.Color}, image.Point{}, draw.Src)
	drawRect(dst, inner, b.theme.ButtonBorder, 1)
	if state == StateSelected {
		drawRect(dst, b.rect, b.theme.Selection, 2)
	}
}

func (b *SwatchButton) Width() int                { return 24 }
func (b *SwatchButton) Rect() image.Rectangle     { return b.rect }
func (b *SwatchButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *SwatchButton) Activate() {
	if b.choose != nil {
		b.choose(b.entry.Color)
	}
}

// BrushButton selects a brush width. The dot is capped to the button size.
type BrushButton struct {
	width  int
	theme  *theme.Theme
	rect   image.Rectangle
	choose func(float64)
}

func (b *BrushButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, &image.Uniform{buttonFill(b.theme, state)}, image.Point{}, draw.Src)
	r := b.width / 2
	if limit := b.rect.Dy()/2 - 3; r > limit {
		r = limit
	}
	if r < 1 {
		r = 1
	}
	c := image.Pt((b.rect.Min.X+b.rect.Max.X)/2, (b.rect.Min.Y+b.rect.Max.Y)/2)
	drawFilledCircle(dst, c.X, c.Y, r, b.theme.ButtonText)
	if state == StateSelected {
		drawRect(dst, b.rect, b.theme.Selection, 2)
	}
}

func (b *BrushButton) Width() int                { return 28 }
func (b *BrushButton) Rect() image.Rectangle     { return b.rect }
func (b *BrushButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *BrushButton) Activate() {
	if b.choose != nil {
		b.choose(float64(b.width))
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.Set(cx+x, cy+y, col)
			}
		}
	}
}
