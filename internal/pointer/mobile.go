package pointer

import (
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// FromMouse converts a window mouse event. Only the left button draws;
// wheel steps and other buttons report false.
func FromMouse(e mouse.Event) (Event, bool) {
	ev := Event{Source: SourceMouse, X: float64(e.X), Y: float64(e.Y)}
	switch e.Direction {
	case mouse.DirNone:
		if e.Button != mouse.ButtonNone {
			return Event{}, false
		}
		ev.Phase = PhaseMove
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return Event{}, false
		}
		ev.Phase = PhaseStart
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return Event{}, false
		}
		ev.Phase = PhaseEnd
	default:
		return Event{}, false
	}
	return ev, true
}

// TouchTracker turns single-point touch events into Events listing every
// active touch. Only the first active touch drives the stroke; events from
// later touches report false.
type TouchTracker struct {
	active []Touch
}

// Active returns the number of touches currently down.
func (t *TouchTracker) Active() int { return len(t.active) }

// Track records e and returns the resulting event.
func (t *TouchTracker) Track(e touch.Event) (Event, bool) {
	id := int64(e.Sequence)
	pt := Touch{ID: id, X: float64(e.X), Y: float64(e.Y)}
	switch e.Type {
	case touch.TypeBegin:
		t.active = append(t.active, pt)
		if len(t.active) != 1 {
			return Event{}, false
		}
		return t.event(PhaseStart), true
	case touch.TypeMove:
		idx := t.indexOf(id)
		if idx < 0 {
			return Event{}, false
		}
		t.active[idx] = pt
		if idx != 0 {
			return Event{}, false
		}
		return t.event(PhaseMove), true
	case touch.TypeEnd:
		idx := t.indexOf(id)
		if idx < 0 {
			return Event{}, false
		}
		t.active = append(t.active[:idx], t.active[idx+1:]...)
		if idx != 0 {
			return Event{}, false
		}
		return t.event(PhaseEnd), true
	}
	return Event{}, false
}

// Reset forgets all active touches.
func (t *TouchTracker) Reset() { t.active = t.active[:0] }

func (t *TouchTracker) indexOf(id int64) int {
	for i, a := range t.active {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (t *TouchTracker) event(phase Phase) Event {
	touches := make([]Touch, len(t.active))
	copy(touches, t.active)
	return Event{Source: SourceTouch, Phase: phase, Touches: touches}
}
