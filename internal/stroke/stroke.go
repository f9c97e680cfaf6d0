// Package stroke implements the free-hand drawing state machine.
package stroke

import (
	"fmt"
	"image/color"

	"github.com/example/codraw/internal/logging"
	"github.com/example/codraw/internal/pointer"
	"github.com/example/codraw/internal/raster"
)

// DefaultBrush is the stroke width in pixels.
const DefaultBrush = 5

var (
	// DefaultPen is opaque black.
	DefaultPen = color.RGBA{A: 0xff}
	// DefaultBackground is what the eraser paints.
	DefaultBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// State is the session state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Canvas receives the line segments a stroke produces.
type Canvas interface {
	DrawLineSegment(from, to raster.Point, c color.Color, width float64, cp raster.Cap)
}

// Recorder captures a snapshot once a stroke completes.
type Recorder interface {
	Record(origin raster.Origin) error
}

// Outcome tells the caller how to treat the input event.
type Outcome struct {
	// SuppressDefault is set for touch input; the caller should cancel
	// scrolling and zooming for the event.
	SuppressDefault bool
}

// Session turns pointer events into line segments on a canvas.
type Session struct {
	canvas   Canvas
	mapper   *pointer.Mapper
	recorder Recorder

	state State
	last  raster.Point

	Pen        color.RGBA
	Brush      float64
	Eraser     bool
	Background color.RGBA
}

// New returns an idle session with the default pen.
func New(canvas Canvas, mapper *pointer.Mapper, recorder Recorder) *Session {
	return &Session{
		canvas:     canvas,
		mapper:     mapper,
		recorder:   recorder,
		Pen:        DefaultPen,
		Brush:      DefaultBrush,
		Background: DefaultBackground,
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Mapper returns the coordinate mapper in use.
func (s *Session) Mapper() *pointer.Mapper { return s.mapper }

// Paint returns the colour a segment would be drawn with.
func (s *Session) Paint() color.RGBA {
	if s.Eraser {
		return s.Background
	}
	return s.Pen
}

// Start begins a stroke at the event position.
func (s *Session) Start(ev pointer.Event) Outcome {
	out := outcome(ev)
	p, ok := s.mapper.Locate(ev)
	if !ok {
		return out
	}
	s.state = Drawing
	s.last = p
	return out
}

// Move extends the stroke to the event position. Moves while idle are
// ignored.
func (s *Session) Move(ev pointer.Event) Outcome {
	out := outcome(ev)
	if s.state != Drawing {
		return out
	}
	p, ok := s.mapper.Locate(ev)
	if !ok {
		return out
	}
	width := s.Brush
	if width <= 0 {
		width = DefaultBrush
	}
	s.canvas.DrawLineSegment(s.last, p, s.Paint(), width, raster.CapRound)
	s.last = p
	return out
}

// End finishes the stroke and records it. It reports whether a stroke was
// in progress; repeated calls are no-ops.
func (s *Session) End() (bool, error) {
	if s.state != Drawing {
		return false, nil
	}
	s.state = Idle
	if s.recorder == nil {
		return true, nil
	}
	if err := s.recorder.Record(raster.OriginUser); err != nil {
		return true, fmt.Errorf("record stroke: %w", err)
	}
	logging.Logger().Debug("stroke recorded", "eraser", s.Eraser, "brush", s.Brush)
	return true, nil
}

// Leave handles the pointer leaving the surface.
func (s *Session) Leave() (bool, error) { return s.End() }

// Handle dispatches ev by phase and reports whether a stroke was recorded.
func (s *Session) Handle(ev pointer.Event) (Outcome, bool, error) {
	switch ev.Phase {
	case pointer.PhaseStart:
		return s.Start(ev), false, nil
	case pointer.PhaseMove:
		return s.Move(ev), false, nil
	case pointer.PhaseEnd:
		ok, err := s.End()
		return outcome(ev), ok, err
	case pointer.PhaseLeave:
		ok, err := s.Leave()
		return outcome(ev), ok, err
	}
	return Outcome{}, false, nil
}

func outcome(ev pointer.Event) Outcome {
	return Outcome{SuppressDefault: ev.Source == pointer.SourceTouch}
}
