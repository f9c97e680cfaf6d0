package appstate

import (
	"image"
	"testing"

	"github.com/example/codraw/internal/pointer"
	"github.com/example/codraw/internal/raster"
	"github.com/example/codraw/internal/theme"
)

func TestComputeLayoutFitsCanvas(t *testing.T) {
	l := computeLayout(976, 620, image.Pt(960, 540))
	if l.toolbar != image.Rect(0, 0, 976, toolbarHeight) {
		t.Errorf("toolbar = %v", l.toolbar)
	}
	if l.status != image.Rect(0, 620-statusHeight, 976, 620) {
		t.Errorf("status = %v", l.status)
	}
	if l.canvas != image.Rect(canvasMargin, toolbarHeight+canvasMargin, canvasMargin+960, toolbarHeight+canvasMargin+540) {
		t.Errorf("canvas = %v", l.canvas)
	}
}

func TestComputeLayoutScalesDown(t *testing.T) {
	l := computeLayout(496, 270+toolbarHeight+statusHeight+2*canvasMargin, image.Pt(960, 540))
	if l.canvas.Dx() != 480 || l.canvas.Dy() != 270 {
		t.Fatalf("canvas = %v", l.canvas)
	}
	m := pointer.NewMapper(image.Pt(960, 540), l.display())
	p := m.Map(float64(l.canvas.Max.X), float64(l.canvas.Max.Y))
	if p.X != 960 || p.Y != 540 {
		t.Errorf("bottom-right maps to %v", p)
	}
}

func TestComputeLayoutTinyWindow(t *testing.T) {
	l := computeLayout(10, 10, image.Pt(960, 540))
	if !l.canvas.Empty() {
		t.Errorf("canvas = %v", l.canvas)
	}
}

func TestPlaceButtonsAndHit(t *testing.T) {
	a := &LabelButton{label: "Undo"}
	b := &SwatchButton{}
	buttons := []Button{a, nil, b}
	rects := placeButtons(image.Rect(0, 0, 400, toolbarHeight), buttons)
	if rects[0].Min.X != buttonGap || rects[0].Dx() != a.Width() {
		t.Errorf("first rect = %v", rects[0])
	}
	if !rects[1].Empty() {
		t.Errorf("gap rect = %v", rects[1])
	}
	if rects[2].Min.X != rects[0].Max.X+4*buttonGap {
		t.Errorf("second rect = %v after %v", rects[2], rects[0])
	}
	if got := hitButton(rects, rects[2].Min.Add(image.Pt(1, 1))); got != 2 {
		t.Errorf("hit = %d", got)
	}
	if got := hitButton(rects, image.Pt(399, 1)); got != -1 {
		t.Errorf("miss = %d", got)
	}
}

func TestToolbarStatesFollowEditor(t *testing.T) {
	c, _ := newTestController(t)
	buttons := buildToolbar(c, theme.Default())
	index := func(label string) int {
		for i, b := range buttons {
			if cb, ok := b.(*CacheButton); ok {
				if lb, ok := cb.Button.(*LabelButton); ok && lb.label == label {
					return i
				}
			}
		}
		t.Fatalf("no %s button", label)
		return -1
	}
	undo, redo := index("Undo"), index("Redo")

	states := toolbarStates(c.ed, buttons, undo, undo)
	if states[undo] != StateDisabled || states[redo] != StateDisabled {
		t.Fatalf("fresh history: undo=%v redo=%v", states[undo], states[redo])
	}
	if states[DefaultColorIndex()] != StateSelected {
		t.Errorf("default pen swatch = %v", states[DefaultColorIndex()])
	}

	if err := c.ed.Stroke([]raster.Point{raster.Pt(1, 1), raster.Pt(9, 9)}); err != nil {
		t.Fatal(err)
	}
	states = toolbarStates(c.ed, buttons, undo, -1)
	if states[undo] != StateHover || states[redo] != StateDisabled {
		t.Fatalf("after stroke: undo=%v redo=%v", states[undo], states[redo])
	}

	c.ed.SetEraser(true)
	states = toolbarStates(c.ed, buttons, -1, -1)
	if states[index("Eraser")] != StatePressed || states[DefaultColorIndex()] == StateSelected {
		t.Errorf("eraser states = %v", states)
	}
}
