//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Backend owns the CLIPBOARD selection through a hidden window and
// serves requests for it from its own event loop.
type x11Backend struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu    sync.RWMutex
	text  []byte
	image []byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func platformBackend() (backend, error) {
	if !hasDisplay() {
		return nil, ErrNoDisplay
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	b := &x11Backend{conn: conn, window: window, atoms: atoms}
	go b.serve()
	return b, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "CODRAW_CLIPBOARD"}
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(name)), name)
	}
	got := make([]xproto.Atom, len(names))
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", names[i], err)
		}
		got[i] = reply.Atom
	}
	return atomSet{clipboard: got[0], targets: got[1], utf8: got[2], textPlain: got[3], png: got[4], property: got[5]}, nil
}

func (b *x11Backend) writePNG(data []byte) error {
	b.mu.Lock()
	b.image = append([]byte(nil), data...)
	b.text = nil
	b.mu.Unlock()
	return b.own()
}

func (b *x11Backend) writeText(text string) error {
	b.mu.Lock()
	b.text = []byte(text)
	b.image = nil
	b.mu.Unlock()
	return b.own()
}

func (b *x11Backend) readPNG() ([]byte, error) {
	return b.read(b.atoms.png)
}

func (b *x11Backend) readText() (string, error) {
	data, err := b.read(b.atoms.utf8)
	if err != nil {
		if data, err = b.read(xproto.AtomString); err != nil {
			return "", err
		}
	}
	if n := len(data); n > 0 && data[n-1] == 0 {
		data = data[:n-1]
	}
	return string(data), nil
}

func (b *x11Backend) own() error {
	return xproto.SetSelectionOwnerChecked(b.conn, b.window, b.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (b *x11Backend) serve() {
	for {
		ev, err := b.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			b.answer(e)
		case xproto.SelectionClearEvent:
			b.mu.Lock()
			b.text, b.image = nil, nil
			b.mu.Unlock()
		}
	}
}

func (b *x11Backend) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	b.mu.RLock()
	text, img := b.text, b.image
	b.mu.RUnlock()

	var (
		typ     xproto.Atom
		format  byte = 8
		payload []byte
	)
	switch e.Target {
	case b.atoms.targets:
		targets := []xproto.Atom{b.atoms.targets}
		if len(text) > 0 {
			targets = append(targets, b.atoms.utf8, xproto.AtomString, b.atoms.textPlain)
		}
		if len(img) > 0 {
			targets = append(targets, b.atoms.png)
		}
		payload = make([]byte, 4*len(targets))
		for i, a := range targets {
			xgb.Put32(payload[i*4:], uint32(a))
		}
		typ, format = xproto.AtomAtom, 32
	case b.atoms.utf8, xproto.AtomString, b.atoms.textPlain:
		payload, typ = text, b.atoms.utf8
	case b.atoms.png:
		payload, typ = img, b.atoms.png
	}
	if len(payload) == 0 {
		property = xproto.AtomNone
	}
	if property != xproto.AtomNone {
		length := uint32(len(payload))
		if format == 32 {
			length /= 4
		}
		xproto.ChangeProperty(b.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, length, payload)
	}
	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(b.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// read converts the selection to target on a throwaway connection and
// waits for the owner to answer.
func (b *x11Backend) read(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, b.atoms.clipboard, target, b.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard target unavailable")
		}
		reply, perr := xproto.GetProperty(conn, true, window, e.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
