package appstate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/codraw/internal/compositor"
	"github.com/example/codraw/internal/generate"
	"github.com/example/codraw/internal/history"
	"github.com/example/codraw/internal/logging"
	"github.com/example/codraw/internal/pointer"
	"github.com/example/codraw/internal/raster"
	"github.com/example/codraw/internal/stroke"
)

var (
	// ErrBusy is returned by Submit while another submission is outstanding.
	ErrBusy = errors.New("a generation request is already in flight")
	// ErrStale is returned by Complete for a superseded submission.
	ErrStale = errors.New("stale generation result")
	// ErrNoService is returned by Submit when no generation service is set.
	ErrNoService = errors.New("no generation service configured")
	// ErrEmptyPrompt is returned by Submit for a blank prompt.
	ErrEmptyPrompt = errors.New("prompt is required")
)

// DefaultExportName is the file name used when exporting without a path.
const DefaultExportName = "drawing.png"

// Ticket identifies one submission.
type Ticket struct {
	Seq    uint64
	ID     uuid.UUID
	Prompt string
}

// Completion is the outcome of a submission, delivered back to the event
// goroutine and applied with Editor.Complete.
type Completion struct {
	Ticket   Ticket
	Response generate.Response
	Err      error
}

// Editor is one editing session. It owns the surface, the stroke session,
// the history and the compositor. Every method except the generation
// goroutine it starts must be called from a single goroutine.
type Editor struct {
	surface *raster.Surface
	mapper  *pointer.Mapper
	session *stroke.Session
	history *history.History
	comp    *compositor.Compositor

	service generate.Service
	timeout time.Duration
	limit   int
	size    image.Point

	seq         uint64
	pending     *Ticket
	completions chan Completion
	deliver     func(Completion)
	onChange    func()

	pen        color.RGBA
	brush      float64
	background color.RGBA
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithService sets the generation backend.
func WithService(svc generate.Service) EditorOption { return func(e *Editor) { e.service = svc } }

// WithSize sets the raster size. Non-positive sizes use the defaults.
func WithSize(w, h int) EditorOption { return func(e *Editor) { e.size = image.Pt(w, h) } }

// WithHistoryLimit bounds the undo history. Zero means unbounded.
func WithHistoryLimit(n int) EditorOption { return func(e *Editor) { e.limit = n } }

// WithPen sets the initial pen colour.
func WithPen(c color.RGBA) EditorOption { return func(e *Editor) { e.pen = c } }

// WithBrush sets the initial brush width.
func WithBrush(w float64) EditorOption { return func(e *Editor) { e.brush = w } }

// WithBackground sets the canvas colour used for clearing, erasing and
// flattening.
func WithBackground(c color.RGBA) EditorOption { return func(e *Editor) { e.background = c } }

// WithTimeout bounds each generation request. Zero means no limit beyond
// the caller's context.
func WithTimeout(d time.Duration) EditorOption { return func(e *Editor) { e.timeout = d } }

// WithDeliver routes completions to fn instead of the Completions channel.
// fn runs on the generation goroutine and must hand the completion over to
// the event goroutine.
func WithDeliver(fn func(Completion)) EditorOption { return func(e *Editor) { e.deliver = fn } }

// WithOnChange registers fn to run after the surface changes.
func WithOnChange(fn func()) EditorOption { return func(e *Editor) { e.onChange = fn } }

// NewEditor creates a session with a blank canvas and an initialized
// history.
func NewEditor(opts ...EditorOption) (*Editor, error) {
	e := &Editor{
		pen:         stroke.DefaultPen,
		brush:       stroke.DefaultBrush,
		background:  stroke.DefaultBackground,
		completions: make(chan Completion, 4),
	}
	for _, o := range opts {
		o(e)
	}
	e.background.A = 0xff
	e.surface = raster.New(e.size.X, e.size.Y)
	e.surface.Fill(e.background)
	e.mapper = pointer.Identity(e.surface.Size())
	e.comp = compositor.New(e.background)
	e.history = history.New(e.surface, history.WithLimit(e.limit), history.WithRestoreHook(e.comp.Sync))
	e.session = stroke.New(e.surface, e.mapper, e.history)
	e.session.Pen = e.pen
	e.session.Brush = e.brush
	e.session.Background = e.background
	if err := e.history.Init(); err != nil {
		return nil, err
	}
	return e, nil
}

// Surface returns the live raster surface.
func (e *Editor) Surface() *raster.Surface { return e.surface }

// Mapper returns the coordinate mapper. Frontends update its display rect.
func (e *Editor) Mapper() *pointer.Mapper { return e.mapper }

// Background returns the current generated background layer, or nil.
func (e *Editor) Background() image.Image { return e.comp.Background() }

// Completions delivers results when no WithDeliver hook is set.
func (e *Editor) Completions() <-chan Completion { return e.completions }

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Pointer feeds one pointer event into the stroke session.
func (e *Editor) Pointer(ev pointer.Event) (stroke.Outcome, error) {
	out, recorded, err := e.session.Handle(ev)
	if ev.Phase == pointer.PhaseMove && e.session.State() == stroke.Drawing {
		e.changed()
	}
	if recorded {
		e.changed()
	}
	return out, err
}

// Drawing reports whether a stroke is in progress.
func (e *Editor) Drawing() bool { return e.session.State() == stroke.Drawing }

// Stroke draws a polyline given in raster coordinates as one stroke with
// the current pen. A single point draws a dot.
func (e *Editor) Stroke(points []raster.Point) error {
	if len(points) == 0 {
		return nil
	}
	s := stroke.New(e.surface, pointer.Identity(e.surface.Size()), e.history)
	s.Pen, s.Brush, s.Eraser, s.Background = e.session.Pen, e.session.Brush, e.session.Eraser, e.session.Background
	s.Start(pointer.Mouse(pointer.PhaseStart, points[0].X, points[0].Y))
	if len(points) == 1 {
		e.surface.DrawLineSegment(points[0], points[0], s.Paint(), s.Brush, raster.CapRound)
	}
	for _, p := range points[1:] {
		s.Move(pointer.Mouse(pointer.PhaseMove, p.X, p.Y))
	}
	_, err := s.End()
	e.changed()
	return err
}

// SetPen changes the pen colour and turns the eraser off.
func (e *Editor) SetPen(c color.RGBA) {
	e.session.Pen = c
	e.session.Eraser = false
}

// Pen returns the pen colour.
func (e *Editor) Pen() color.RGBA { return e.session.Pen }

// SetBrush changes the brush width.
func (e *Editor) SetBrush(w float64) {
	if w <= 0 {
		w = stroke.DefaultBrush
	}
	e.session.Brush = w
}

// Brush returns the brush width.
func (e *Editor) Brush() float64 { return e.session.Brush }

// SetEraser toggles eraser mode.
func (e *Editor) SetEraser(on bool) { e.session.Eraser = on }

// Eraser reports whether eraser mode is on.
func (e *Editor) Eraser() bool { return e.session.Eraser }

// Undo restores the previous snapshot. It reports false at the start of the
// history.
func (e *Editor) Undo() (bool, error) {
	ok, err := e.history.Undo()
	if ok {
		e.changed()
	}
	return ok, err
}

// Redo restores the next snapshot. It reports false at the end of the
// history.
func (e *Editor) Redo() (bool, error) {
	ok, err := e.history.Redo()
	if ok {
		e.changed()
	}
	return ok, err
}

// CanUndo reports whether there is an earlier snapshot to go back to.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether an undone snapshot can be reapplied.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// HistoryIndex returns the history cursor.
func (e *Editor) HistoryIndex() int { return e.history.Index() }

// HistoryLen returns the number of retained snapshots.
func (e *Editor) HistoryLen() int { return e.history.Len() }

// Current returns the snapshot under the history cursor.
func (e *Editor) Current() raster.Snapshot {
	snap, _ := e.history.Current()
	return snap
}

// Clear paints the canvas background, drops the generated layer and
// records the result.
func (e *Editor) Clear() error {
	e.surface.Fill(e.background)
	e.comp.ClearBackground()
	if err := e.history.Record(raster.OriginUser); err != nil {
		return err
	}
	e.changed()
	return nil
}

// Reset abandons any outstanding submission and starts a fresh history
// on a blank canvas.
func (e *Editor) Reset() error {
	e.Abandon()
	e.surface.Fill(e.background)
	e.comp.ClearBackground()
	if err := e.history.Init(); err != nil {
		return err
	}
	e.changed()
	return nil
}

// Import paints img as the background layer, as if it had been generated.
func (e *Editor) Import(img image.Image) error {
	if err := e.comp.ApplyGenerated(img, e.surface, e.history); err != nil {
		return err
	}
	e.changed()
	return nil
}

// Flatten returns the opaque export image.
func (e *Editor) Flatten() *image.RGBA { return e.comp.Flatten(e.surface.Image()) }

// Export writes the flattened drawing as PNG.
func (e *Editor) Export(w io.Writer) error {
	data, err := e.comp.FlattenPNG(e.surface.Image())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ExportFile writes the flattened drawing to path, or DefaultExportName.
func (e *Editor) ExportFile(path string) (string, error) {
	if path == "" {
		path = DefaultExportName
	}
	var buf bytes.Buffer
	if err := e.Export(&buf); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	return path, nil
}

// Busy reports whether a submission is outstanding.
func (e *Editor) Busy() bool { return e.pending != nil }

// Pending returns the outstanding ticket.
func (e *Editor) Pending() (Ticket, bool) {
	if e.pending == nil {
		return Ticket{}, false
	}
	return *e.pending, true
}

func (e *Editor) begin(prompt string) (Ticket, []byte, error) {
	if e.pending != nil {
		return Ticket{}, nil, ErrBusy
	}
	if e.service == nil {
		return Ticket{}, nil, ErrNoService
	}
	if strings.TrimSpace(prompt) == "" {
		return Ticket{}, nil, ErrEmptyPrompt
	}
	flat, err := e.comp.FlattenPNG(e.surface.Image())
	if err != nil {
		return Ticket{}, nil, err
	}
	e.seq++
	t := Ticket{Seq: e.seq, ID: uuid.New(), Prompt: prompt}
	e.pending = &t
	logging.Logger().Info("generation submitted", "ticket", t.ID, "seq", t.Seq, "prompt", prompt)
	return t, flat, nil
}

// Submit starts a generation request for prompt using the flattened
// drawing. The result arrives on Completions or through the WithDeliver
// hook and must be passed to Complete. Only one submission may be
// outstanding.
func (e *Editor) Submit(ctx context.Context, prompt string) (Ticket, error) {
	t, flat, err := e.begin(prompt)
	if err != nil {
		return Ticket{}, err
	}
	svc := e.service
	deliver := e.deliver
	ch := e.completions
	go func() {
		c := e.run(ctx, svc, t, flat)
		if deliver != nil {
			deliver(c)
			return
		}
		ch <- c
	}()
	return t, nil
}

func (e *Editor) run(ctx context.Context, svc generate.Service, t Ticket, flat []byte) Completion {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	resp, err := compositor.Submit(ctx, svc, t.Prompt, flat)
	return Completion{Ticket: t, Response: resp, Err: err}
}

// Complete applies a completion. Results for anything but the outstanding
// ticket return ErrStale and change nothing. A failed generation clears the
// outstanding ticket and returns the failure; surface and history are left
// untouched.
func (e *Editor) Complete(c Completion) error {
	if e.pending == nil || e.pending.Seq != c.Ticket.Seq {
		logging.Logger().Debug("discarding stale completion", "ticket", c.Ticket.ID, "seq", c.Ticket.Seq)
		return ErrStale
	}
	e.pending = nil
	log := logging.Logger().With("ticket", c.Ticket.ID)
	if c.Err != nil {
		log.Warn("generation failed", "error", c.Err)
		return c.Err
	}
	if err := e.comp.ApplyGeneratedPNG(c.Response.Image, e.surface, e.history); err != nil {
		log.Warn("applying generated image failed", "error", err)
		return err
	}
	log.Info("generation applied", "index", e.history.Index(), "message", c.Response.Message)
	e.changed()
	return nil
}

// Abandon supersedes the outstanding submission. Its result will be
// discarded as stale when it arrives.
func (e *Editor) Abandon() {
	if e.pending != nil {
		logging.Logger().Info("generation abandoned", "ticket", e.pending.ID)
	}
	e.pending = nil
}

// Generate submits prompt and applies the result before returning.
func (e *Editor) Generate(ctx context.Context, prompt string) (generate.Response, error) {
	t, flat, err := e.begin(prompt)
	if err != nil {
		return generate.Response{}, err
	}
	c := e.run(ctx, e.service, t, flat)
	if err := e.Complete(c); err != nil {
		return c.Response, err
	}
	return c.Response, nil
}
