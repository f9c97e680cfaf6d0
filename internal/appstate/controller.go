package appstate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/codraw/internal/clipboard"
	"github.com/example/codraw/internal/logging"
	"github.com/example/codraw/internal/notify"
)

const messageDuration = 4 * time.Second

// controller runs window actions against the editor. It holds no screen
// state so it can be driven without a display.
type controller struct {
	ed       *Editor
	notifier *notify.Notifier
	output   string
	ctx      context.Context

	prompt       promptLine
	message      string
	failed       bool
	messageUntil time.Time

	now       func() time.Time
	writePNG  func([]byte) error
	readImage func() (image.Image, error)
	readText  func() (string, error)
	writeText func(string) error
}

func newController(ctx context.Context, ed *Editor, n *notify.Notifier, output string) *controller {
	return &controller{
		ed:        ed,
		notifier:  n,
		output:    output,
		ctx:       ctx,
		now:       time.Now,
		writePNG:  clipboard.WritePNG,
		readImage: clipboard.ReadImage,
		readText:  clipboard.ReadText,
		writeText: clipboard.WriteText,
	}
}

func (c *controller) say(msg string) {
	logging.Logger().Info(msg)
	c.message, c.failed = msg, false
	c.messageUntil = c.now().Add(messageDuration)
}

func (c *controller) fail(what string, err error) {
	logging.Logger().Warn(what, "error", err)
	c.message, c.failed = fmt.Sprintf("%s: %v", what, err), true
	c.messageUntil = c.now().Add(messageDuration)
}

// status returns the message to show, if it has not expired.
func (c *controller) status() (string, bool) {
	if c.message == "" || !c.now().Before(c.messageUntil) {
		return "", false
	}
	return c.message, c.failed
}

// key handles one key event and reports whether the window should close.
// While the prompt line is active it takes plain keys; chords with Ctrl or
// Meta that it does not use still reach the shortcuts.
func (c *controller) key(e key.Event, sc *Shortcuts) bool {
	if c.prompt.active {
		switch c.prompt.Key(e) {
		case promptSubmit:
			c.prompt.active = false
			c.generate()
			return false
		case promptPaste:
			text, err := c.readText()
			if err != nil {
				c.fail("paste text", err)
				return false
			}
			c.prompt.Insert(text)
			return false
		case promptCopy:
			if err := c.writeText(c.prompt.String()); err != nil {
				c.fail("copy text", err)
				return false
			}
			c.say("prompt copied to clipboard")
			return false
		case promptChanged, promptClosed:
			return false
		}
		if e.Modifiers&(key.ModControl|key.ModMeta) == 0 {
			return false
		}
	}
	a, ok := sc.Lookup(e)
	if !ok {
		return false
	}
	return c.do(a)
}

// do runs a, reporting whether the window should close.
func (c *controller) do(a Action) bool {
	switch a {
	case ActionUndo:
		ok, err := c.ed.Undo()
		switch {
		case err != nil:
			c.fail("undo", err)
		case !ok:
			c.say("nothing to undo")
		}
	case ActionRedo:
		ok, err := c.ed.Redo()
		switch {
		case err != nil:
			c.fail("redo", err)
		case !ok:
			c.say("nothing to redo")
		}
	case ActionClear:
		if err := c.ed.Clear(); err != nil {
			c.fail("clear", err)
		}
	case ActionExport:
		path, err := c.ed.ExportFile(c.output)
		if err != nil {
			c.fail("save", err)
			return false
		}
		c.say("saved " + path)
		c.notifier.Save(path)
	case ActionCopy:
		var buf bytes.Buffer
		if err := c.ed.Export(&buf); err != nil {
			c.fail("copy", err)
			return false
		}
		if err := c.writePNG(buf.Bytes()); err != nil {
			c.fail("copy", err)
			return false
		}
		c.say("drawing copied to clipboard")
		c.notifier.Copy("drawing")
	case ActionPaste:
		img, err := c.readImage()
		if err != nil {
			c.fail("paste", err)
			return false
		}
		if err := c.ed.Import(img); err != nil {
			c.fail("paste", err)
			return false
		}
		c.say("pasted image as background")
	case ActionEraser:
		c.ed.SetEraser(!c.ed.Eraser())
	case ActionPrompt:
		c.prompt.active = true
	case ActionBrushUp:
		c.ed.SetBrush(stepBrush(c.ed.Brush(), 1))
	case ActionBrushDn:
		c.ed.SetBrush(stepBrush(c.ed.Brush(), -1))
	case ActionNextPen:
		c.ed.SetPen(stepColor(c.ed.Pen(), 1))
	case ActionPrevPen:
		c.ed.SetPen(stepColor(c.ed.Pen(), -1))
	case ActionCancel:
		if c.ed.Busy() {
			c.ed.Abandon()
			c.say("generation cancelled")
		}
	case ActionGenerate:
		c.generate()
	case ActionQuit:
		return true
	}
	return false
}

// generate submits the prompt line. An empty prompt opens the prompt line
// instead.
func (c *controller) generate() {
	prompt := strings.TrimSpace(c.prompt.String())
	if prompt == "" {
		c.prompt.active = true
		c.say("type a prompt and press Enter")
		return
	}
	if _, err := c.ed.Submit(c.ctx, prompt); err != nil {
		c.fail("generate", err)
		return
	}
	c.say(fmt.Sprintf("generating %q", prompt))
}

// complete applies a finished submission.
func (c *controller) complete(comp Completion) {
	err := c.ed.Complete(comp)
	switch {
	case errors.Is(err, ErrStale):
	case err != nil:
		c.fail("generation failed", err)
		c.notifier.Failed(err)
	default:
		msg := "generated " + comp.Ticket.Prompt
		if text := strings.TrimSpace(comp.Response.Message); text != "" {
			msg += ": " + text
		}
		c.say(msg)
		c.notifier.Generated(comp.Ticket.Prompt, c.ed.Flatten())
	}
}
