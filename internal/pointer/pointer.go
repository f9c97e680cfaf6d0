// Package pointer maps mouse and touch input from screen space onto the
// raster surface.
package pointer

import (
	"image"

	"github.com/example/codraw/internal/raster"
)

// Source identifies the device that produced an event.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

func (s Source) String() string {
	if s == SourceTouch {
		return "touch"
	}
	return "mouse"
}

// Phase is the stroke lifecycle step an event represents.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
	PhaseLeave
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	case PhaseLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// Touch is one active contact point in client coordinates.
type Touch struct {
	ID   int64
	X, Y float64
}

// Event is a device independent pointer sample in client coordinates.
// Mouse events carry X and Y; touch events carry the active touches in the
// order they began.
type Event struct {
	Source  Source
	Phase   Phase
	X, Y    float64
	Touches []Touch
}

// Mouse builds a mouse event.
func Mouse(phase Phase, x, y float64) Event {
	return Event{Source: SourceMouse, Phase: phase, X: x, Y: y}
}

// Client returns the client coordinates the event contributes. Touch events
// use the first active touch and report false when none is active.
func (e Event) Client() (float64, float64, bool) {
	if e.Source == SourceTouch {
		if len(e.Touches) == 0 {
			return 0, 0, false
		}
		return e.Touches[0].X, e.Touches[0].Y, true
	}
	return e.X, e.Y, true
}

// Rect is the on-screen placement of the surface in client coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectOf converts an integer rectangle.
func RectOf(r image.Rectangle) Rect {
	return Rect{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// Mapper converts client coordinates to raster coordinates.
type Mapper struct {
	Raster  image.Point
	Display Rect
}

// NewMapper returns a mapper for a raster of the given size displayed at
// display.
func NewMapper(size image.Point, display Rect) *Mapper {
	return &Mapper{Raster: size, Display: display}
}

// Identity returns a mapper for a surface shown unscaled at the origin.
func Identity(size image.Point) *Mapper {
	return NewMapper(size, Rect{Width: float64(size.X), Height: float64(size.Y)})
}

// SetDisplay updates the on-screen placement, e.g. after a resize.
func (m *Mapper) SetDisplay(r Rect) { m.Display = r }

// Scale returns the raster units per client unit on each axis.
func (m *Mapper) Scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if m.Display.Width > 0 {
		sx = float64(m.Raster.X) / m.Display.Width
	}
	if m.Display.Height > 0 {
		sy = float64(m.Raster.Y) / m.Display.Height
	}
	return sx, sy
}

// Map converts a client position. Points outside the displayed surface map
// outside the raster; clipping is left to the surface.
func (m *Mapper) Map(clientX, clientY float64) raster.Point {
	sx, sy := m.Scale()
	return raster.Point{
		X: (clientX - m.Display.X) * sx,
		Y: (clientY - m.Display.Y) * sy,
	}
}

// Locate maps the client position carried by ev.
func (m *Mapper) Locate(ev Event) (raster.Point, bool) {
	x, y, ok := ev.Client()
	if !ok {
		return raster.Point{}, false
	}
	return m.Map(x, y), true
}
