package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/codraw/internal/notify"
	"github.com/example/codraw/internal/pointer"
	"github.com/example/codraw/internal/theme"
)

// ProgramTitle is the window title prefix.
const ProgramTitle = "codraw"

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const minWindowWidth = 640

// Window is the drawing window around an Editor.
type Window struct {
	editor    *Editor
	theme     *theme.Theme
	shortcuts *Shortcuts
	notifier  *notify.Notifier
	output    string
	title     string
	prompt    string

	onClose   func()
	closeOnce sync.Once
}

// WindowOption modifies a Window during creation.
type WindowOption func(*Window)

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) WindowOption { return func(w *Window) { w.theme = t } }

// WithShortcuts replaces the key bindings.
func WithShortcuts(s *Shortcuts) WindowOption { return func(w *Window) { w.shortcuts = s } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) WindowOption { return func(w *Window) { w.notifier = n } }

// WithOutput sets the file written by the save shortcut.
func WithOutput(path string) WindowOption { return func(w *Window) { w.output = path } }

// WithTitle sets the window title.
func WithTitle(title string) WindowOption { return func(w *Window) { w.title = title } }

// WithPrompt pre-fills the prompt line.
func WithPrompt(p string) WindowOption { return func(w *Window) { w.prompt = p } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) WindowOption { return func(w *Window) { w.onClose = fn } }

// NewWindow creates a window for ed.
func NewWindow(ed *Editor, opts ...WindowOption) *Window {
	win := &Window{
		editor:    ed,
		theme:     theme.Default(),
		shortcuts: DefaultShortcuts(),
		output:    DefaultExportName,
		title:     ProgramTitle,
	}
	for _, o := range opts {
		o(win)
	}
	return win
}

func (win *Window) notifyClose() {
	win.closeOnce.Do(func() {
		if win.onClose != nil {
			win.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (win *Window) Run() { driver.Main(win.Main) }

// buildToolbar creates the toolbar buttons. Activate runs on the event
// goroutine.
func buildToolbar(ctl *controller, th *theme.Theme) []Button {
	var buttons []Button
	for _, entry := range PaletteColors() {
		buttons = append(buttons, &CacheButton{Button: &SwatchButton{entry: entry, theme: th, choose: ctl.ed.SetPen}})
	}
	buttons = append(buttons, nil)
	for _, w := range BrushOptions() {
		buttons = append(buttons, &CacheButton{Button: &BrushButton{width: w, theme: th, choose: ctl.ed.SetBrush}})
	}
	buttons = append(buttons, nil)
	labels := []struct {
		label  string
		action Action
	}{
		{"Eraser", ActionEraser},
		{"Undo", ActionUndo},
		{"Redo", ActionRedo},
		{"Clear", ActionClear},
		{"Generate", ActionGenerate},
		{"Save", ActionExport},
	}
	for _, l := range labels {
		a := l.action
		buttons = append(buttons, &CacheButton{Button: &LabelButton{label: l.label, theme: th, action: func() { ctl.do(a) }}})
	}
	return buttons
}

// toolbarStates marks the buttons matching the editor's pen, brush and
// eraser as selected. Undo and Redo are disabled at the history ends and
// Generate while a submission is outstanding.
func toolbarStates(ed *Editor, buttons []Button, hover, pressed int) []ButtonState {
	states := make([]ButtonState, len(buttons))
	for i, b := range buttons {
		if cb, ok := b.(*CacheButton); ok {
			b = cb.Button
		}
		switch b := b.(type) {
		case *SwatchButton:
			if !ed.Eraser() && ed.Pen() == b.entry.Color {
				states[i] = StateSelected
			}
		case *BrushButton:
			if ed.Brush() == float64(b.width) {
				states[i] = StateSelected
			}
		case *LabelButton:
			switch {
			case b.label == "Eraser" && ed.Eraser():
				states[i] = StatePressed
			case b.label == "Undo" && !ed.CanUndo(),
				b.label == "Redo" && !ed.CanRedo(),
				b.label == "Generate" && ed.Busy():
				states[i] = StateDisabled
			}
		}
		if states[i] == StateSelected || states[i] == StateDisabled {
			continue
		}
		switch i {
		case pressed:
			states[i] = StatePressed
		case hover:
			if states[i] == StateDefault {
				states[i] = StateHover
			}
		}
	}
	return states
}

func (win *Window) Main(s screen.Screen) {
	ed := win.editor
	canvasSize := ed.Surface().Size()
	width := canvasSize.X + 2*canvasMargin
	if width < minWindowWidth {
		width = minWindowWidth
	}
	height := canvasSize.Y + toolbarHeight + statusHeight + 2*canvasMargin

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: win.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer win.notifyClose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctl := newController(ctx, ed, win.notifier, win.output)
	ctl.prompt.Set(win.prompt)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case c := <-ed.Completions():
				w.Send(c)
			case <-done:
				return
			}
		}
	}()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	buttons := buildToolbar(ctl, win.theme)
	lay := computeLayout(width, height, canvasSize)
	rects := placeButtons(lay.toolbar, buttons)
	ed.Mapper().SetDisplay(lay.display())
	hover, pressed := -1, -1
	var touches pointer.TouchTracker

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			lay = computeLayout(width, height, canvasSize)
			rects = placeButtons(lay.toolbar, buttons)
			ed.Mapper().SetDisplay(lay.display())
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			msg, failed := ctl.status()
			st := paintState{
				width:        width,
				height:       height,
				layout:       lay,
				theme:        win.theme,
				canvas:       ed.Flatten(),
				buttons:      buttons,
				rects:        rects,
				states:       toolbarStates(ed, buttons, hover, pressed),
				promptActive: ctl.prompt.active,
				prompt:       ctl.prompt.String(),
				message:      msg,
				failed:       failed,
				busy:         ed.Busy(),
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case Completion:
			ctl.complete(e)
			w.Send(paint.Event{})
		case key.Event:
			if ctl.key(e, win.shortcuts) {
				return
			}
			if e.Direction != key.DirRelease {
				w.Send(paint.Event{})
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if !ed.Drawing() && p.In(lay.toolbar) {
				hover = hitButton(rects, p)
				if e.Button == mouse.ButtonLeft {
					switch e.Direction {
					case mouse.DirPress:
						pressed = hover
					case mouse.DirRelease:
						if pressed >= 0 && pressed == hover && toolbarStates(ed, buttons, -1, -1)[pressed] != StateDisabled {
							buttons[pressed].Activate()
						}
						pressed = -1
					}
				}
				w.Send(paint.Event{})
				continue
			}
			if hover != -1 || pressed != -1 {
				hover, pressed = -1, -1
				w.Send(paint.Event{})
			}
			ev, ok := pointer.FromMouse(e)
			if !ok {
				continue
			}
			if win.pointer(ctl, lay, p, ev) {
				w.Send(paint.Event{})
			}
		case touch.Event:
			ev, ok := touches.Track(e)
			if !ok {
				continue
			}
			if win.pointer(ctl, lay, image.Pt(int(e.X), int(e.Y)), ev) {
				w.Send(paint.Event{})
			}
		}
	}
}

// pointer feeds a canvas pointer event to the editor and reports whether a
// repaint is needed. Strokes start only on the canvas; leaving it ends the
// stroke.
func (win *Window) pointer(ctl *controller, lay layout, p image.Point, ev pointer.Event) bool {
	ed := win.editor
	inside := p.In(lay.canvas)
	switch ev.Phase {
	case pointer.PhaseStart:
		if !inside {
			return false
		}
	case pointer.PhaseMove:
		if !ed.Drawing() {
			return false
		}
		if !inside {
			ev.Phase = pointer.PhaseLeave
		}
	}
	if _, err := ed.Pointer(ev); err != nil {
		ctl.fail("stroke", err)
	}
	return true
}

type paintState struct {
	width, height int
	layout        layout
	theme         *theme.Theme
	canvas        *image.RGBA
	buttons       []Button
	rects         []image.Rectangle
	states        []ButtonState
	promptActive  bool
	prompt        string
	message       string
	failed        bool
	busy          bool
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	th := st.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	if !st.layout.canvas.Empty() {
		xdraw.ApproxBiLinear.Scale(dst, st.layout.canvas, st.canvas, st.canvas.Bounds(), draw.Src, nil)
		drawRect(dst, st.layout.canvas.Inset(-1), th.ButtonBorder, 1)
	}
	if ctx.Err() != nil {
		return
	}

	drawToolbar(dst, st)
	if ctx.Err() != nil {
		return
	}
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawToolbar(dst *image.RGBA, st paintState) {
	draw.Draw(dst, st.layout.toolbar, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	for i, btn := range st.buttons {
		if btn == nil || st.rects[i].Empty() || !st.rects[i].In(st.layout.toolbar) {
			continue
		}
		btn.SetRect(st.rects[i])
		btn.Draw(dst, st.states[i])
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	r := st.layout.status
	draw.Draw(dst, r, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	m := statusFace.Metrics()
	baseline := r.Min.Y + (r.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2

	text, col := statusText(st)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: statusFace, Dot: fixed.P(r.Min.X+8, baseline)}
	d.DrawString(text)

	if st.busy {
		label := "generating..."
		lw := (&font.Drawer{Face: statusFace}).MeasureString(label).Ceil()
		x := r.Max.X - lw - 24
		drawFilledCircle(dst, x, r.Min.Y+r.Dy()/2, 5, th.BusyIndicator)
		d = &font.Drawer{Dst: dst, Src: image.NewUniform(th.BusyIndicator), Face: statusFace, Dot: fixed.P(x+10, baseline)}
		d.DrawString(label)
	}
}

// statusText picks the status bar line: the prompt while editing, then a
// recent message, then the prompt or a hint.
func statusText(st paintState) (string, color.RGBA) {
	th := st.theme
	switch {
	case st.promptActive:
		return "Prompt: " + st.prompt + "|", th.PromptText
	case st.message != "" && st.failed:
		return st.message, th.ErrorText
	case st.message != "":
		return st.message, th.StatusText
	case st.prompt != "":
		return "Prompt: " + st.prompt + "  (Ctrl+Enter to generate)", th.StatusText
	}
	return "P: prompt  Ctrl+Enter: generate  Ctrl+Z: undo  Ctrl+S: save", th.StatusText
}
