package pointer

import (
	"image"
	"testing"

	"github.com/example/codraw/internal/raster"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

func TestMapHalfSizeDisplay(t *testing.T) {
	m := NewMapper(image.Pt(960, 540), Rect{X: 100, Y: 50, Width: 480, Height: 270})
	tests := []struct {
		name   string
		cx, cy float64
		want   raster.Point
	}{
		{"top-left", 100, 50, raster.Pt(0, 0)},
		{"bottom-right", 580, 320, raster.Pt(960, 540)},
		{"centre", 340, 185, raster.Pt(480, 270)},
		{"outside", 90, 50, raster.Pt(-20, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Map(tc.cx, tc.cy); got != tc.want {
				t.Fatalf("Map(%v,%v) = %+v, want %+v", tc.cx, tc.cy, got, tc.want)
			}
		})
	}
}

func TestMapZeroDisplayUsesUnitScale(t *testing.T) {
	m := NewMapper(image.Pt(960, 540), Rect{X: 10, Y: 10})
	if got := m.Map(15, 20); got != raster.Pt(5, 10) {
		t.Fatalf("unexpected mapping %+v", got)
	}
}

func TestLocateUsesFirstTouch(t *testing.T) {
	m := Identity(image.Pt(100, 100))
	ev := Event{Source: SourceTouch, Phase: PhaseMove, X: 99, Y: 99, Touches: []Touch{{ID: 1, X: 10, Y: 20}, {ID: 2, X: 50, Y: 60}}}
	p, ok := m.Locate(ev)
	if !ok || p != raster.Pt(10, 20) {
		t.Fatalf("Locate = %+v, %v", p, ok)
	}
	if _, ok := m.Locate(Event{Source: SourceTouch, Phase: PhaseEnd}); ok {
		t.Fatal("touch event without touches should not locate")
	}
	p, ok = m.Locate(Mouse(PhaseStart, 7, 8))
	if !ok || p != raster.Pt(7, 8) {
		t.Fatalf("mouse Locate = %+v, %v", p, ok)
	}
}

func TestFromMouse(t *testing.T) {
	tests := []struct {
		in    mouse.Event
		phase Phase
		ok    bool
	}{
		{mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirPress}, PhaseStart, true},
		{mouse.Event{Direction: mouse.DirNone}, PhaseMove, true},
		{mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, PhaseEnd, true},
		{mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress}, 0, false},
		{mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, 0, false},
	}
	for i, tc := range tests {
		ev, ok := FromMouse(tc.in)
		if ok != tc.ok {
			t.Fatalf("case %d: ok = %v, want %v", i, ok, tc.ok)
		}
		if ok && ev.Phase != tc.phase {
			t.Fatalf("case %d: phase = %v, want %v", i, ev.Phase, tc.phase)
		}
	}
}

func TestTouchTrackerFollowsFirstTouch(t *testing.T) {
	var tr TouchTracker
	ev, ok := tr.Track(touch.Event{X: 1, Y: 2, Sequence: 7, Type: touch.TypeBegin})
	if !ok || ev.Phase != PhaseStart || ev.Source != SourceTouch {
		t.Fatalf("begin = %+v, %v", ev, ok)
	}
	if _, ok := tr.Track(touch.Event{X: 50, Y: 50, Sequence: 8, Type: touch.TypeBegin}); ok {
		t.Fatal("second finger should not restart the stroke")
	}
	if _, ok := tr.Track(touch.Event{X: 55, Y: 55, Sequence: 8, Type: touch.TypeMove}); ok {
		t.Fatal("second finger moves should be ignored")
	}
	ev, ok = tr.Track(touch.Event{X: 3, Y: 4, Sequence: 7, Type: touch.TypeMove})
	if !ok || ev.Phase != PhaseMove {
		t.Fatalf("move = %+v, %v", ev, ok)
	}
	if len(ev.Touches) != 2 || ev.Touches[0].X != 3 || ev.Touches[1].X != 55 {
		t.Fatalf("unexpected touches %+v", ev.Touches)
	}
	ev, ok = tr.Track(touch.Event{X: 3, Y: 4, Sequence: 7, Type: touch.TypeEnd})
	if !ok || ev.Phase != PhaseEnd {
		t.Fatalf("end = %+v, %v", ev, ok)
	}
	if tr.Active() != 1 {
		t.Fatalf("active = %d, want 1", tr.Active())
	}
	tr.Reset()
	if tr.Active() != 0 {
		t.Fatal("Reset should drop all touches")
	}
}
