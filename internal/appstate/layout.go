package appstate

import (
	"image"

	"github.com/example/codraw/internal/pointer"
)

const (
	toolbarHeight = 36
	statusHeight  = 28
	buttonGap     = 4
	canvasMargin  = 8
)

// layout places the window regions for a window of the given size.
type layout struct {
	toolbar image.Rectangle
	canvas  image.Rectangle
	status  image.Rectangle
}

func computeLayout(width, height int, raster image.Point) layout {
	l := layout{
		toolbar: image.Rect(0, 0, width, toolbarHeight),
		status:  image.Rect(0, height-statusHeight, width, height),
	}
	bottom := height - statusHeight
	if bottom < toolbarHeight {
		bottom = toolbarHeight
	}
	area := image.Rect(0, toolbarHeight, width, bottom).Inset(canvasMargin)
	l.canvas = fitRect(raster, area)
	return l
}

// fitZoom returns the scale that fits size inside area without cropping.
func fitZoom(size image.Point, area image.Rectangle) float64 {
	if size.X <= 0 || size.Y <= 0 || area.Dx() <= 0 || area.Dy() <= 0 {
		return 0
	}
	zx := float64(area.Dx()) / float64(size.X)
	zy := float64(area.Dy()) / float64(size.Y)
	if zx < zy {
		return zx
	}
	return zy
}

// fitRect centres size in area at the fitted zoom.
func fitRect(size image.Point, area image.Rectangle) image.Rectangle {
	zoom := fitZoom(size, area)
	if zoom == 0 {
		return image.Rectangle{Min: area.Min, Max: area.Min}
	}
	w := int(float64(size.X) * zoom)
	h := int(float64(size.Y) * zoom)
	x0 := area.Min.X + (area.Dx()-w)/2
	y0 := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// display converts the canvas placement for the pointer mapper.
func (l layout) display() pointer.Rect { return pointer.RectOf(l.canvas) }

// placeButtons lays buttons out left to right inside the toolbar, leaving a
// gap for each nil entry. The returned slice is parallel to buttons.
func placeButtons(toolbar image.Rectangle, buttons []Button) []image.Rectangle {
	rects := make([]image.Rectangle, len(buttons))
	x := toolbar.Min.X + buttonGap
	top := toolbar.Min.Y + buttonGap
	bottom := toolbar.Max.Y - buttonGap
	for i, b := range buttons {
		if b == nil {
			x += 3 * buttonGap
			continue
		}
		w := b.Width()
		rects[i] = image.Rect(x, top, x+w, bottom)
		x += w + buttonGap
	}
	return rects
}

// hitButton returns the index of the rect under p, or -1.
func hitButton(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if !r.Empty() && p.In(r) {
			return i
		}
	}
	return -1
}
