package appstate

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action names a command a key chord can trigger.
type Action string

const (
	ActionUndo     Action = "undo"
	ActionRedo     Action = "redo"
	ActionClear    Action = "clear"
	ActionExport   Action = "export"
	ActionCopy     Action = "copy"
	ActionPaste    Action = "paste"
	ActionEraser   Action = "eraser"
	ActionPrompt   Action = "prompt"
	ActionQuit     Action = "quit"
	ActionBrushUp  Action = "brush+"
	ActionBrushDn  Action = "brush-"
	ActionNextPen  Action = "pen+"
	ActionPrevPen  Action = "pen-"
	ActionCancel   Action = "cancel"
	ActionGenerate Action = "generate"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Rune is matched case-insensitively; Code is used for keys without a rune.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

const modifierMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

func (k KeyShortcut) String() string {
	var parts []string
	if k.Modifiers&key.ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Modifiers&key.ModMeta != 0 {
		parts = append(parts, "Meta")
	}
	if k.Modifiers&key.ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if k.Modifiers&key.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	switch {
	case k.Rune > 0:
		parts = append(parts, strings.ToUpper(string(k.Rune)))
	case k.Code == key.CodeReturnEnter:
		parts = append(parts, "Enter")
	case k.Code == key.CodeEscape:
		parts = append(parts, "Esc")
	case k.Code == key.CodeDeleteForward:
		parts = append(parts, "Del")
	case k.Code == key.CodeTab:
		parts = append(parts, "Tab")
	default:
		parts = append(parts, k.Code.String())
	}
	return strings.Join(parts, "+")
}

// Shortcuts maps key chords to actions.
type Shortcuts struct {
	byKey map[KeyShortcut]Action
}

// NewShortcuts returns an empty registry.
func NewShortcuts() *Shortcuts {
	return &Shortcuts{byKey: map[KeyShortcut]Action{}}
}

// DefaultShortcuts returns the standard bindings: Ctrl or Meta with Z
// undoes, with Y or Shift+Z redoes.
func DefaultShortcuts() *Shortcuts {
	s := NewShortcuts()
	for _, mod := range []key.Modifiers{key.ModControl, key.ModMeta} {
		s.Bind(KeyShortcut{Rune: 'z', Modifiers: mod}, ActionUndo)
		s.Bind(KeyShortcut{Rune: 'y', Modifiers: mod}, ActionRedo)
		s.Bind(KeyShortcut{Rune: 'z', Modifiers: mod | key.ModShift}, ActionRedo)
		s.Bind(KeyShortcut{Rune: 's', Modifiers: mod}, ActionExport)
		s.Bind(KeyShortcut{Rune: 'c', Modifiers: mod}, ActionCopy)
		s.Bind(KeyShortcut{Rune: 'v', Modifiers: mod}, ActionPaste)
		s.Bind(KeyShortcut{Code: key.CodeReturnEnter, Modifiers: mod}, ActionGenerate)
	}
	s.Bind(KeyShortcut{Code: key.CodeDeleteForward, Modifiers: key.ModControl}, ActionClear)
	s.Bind(KeyShortcut{Rune: 'e'}, ActionEraser)
	s.Bind(KeyShortcut{Rune: 'p'}, ActionPrompt)
	s.Bind(KeyShortcut{Code: key.CodeTab}, ActionPrompt)
	s.Bind(KeyShortcut{Rune: ']'}, ActionBrushUp)
	s.Bind(KeyShortcut{Rune: '['}, ActionBrushDn)
	s.Bind(KeyShortcut{Rune: '.'}, ActionNextPen)
	s.Bind(KeyShortcut{Rune: ','}, ActionPrevPen)
	s.Bind(KeyShortcut{Code: key.CodeEscape}, ActionCancel)
	s.Bind(KeyShortcut{Rune: 'q'}, ActionQuit)
	return s
}

// Bind maps sc to a, replacing any previous binding.
func (s *Shortcuts) Bind(sc KeyShortcut, a Action) {
	sc.Rune = unicode.ToLower(sc.Rune)
	sc.Modifiers &= modifierMask
	if sc.Rune > 0 {
		sc.Code = key.CodeUnknown
	}
	s.byKey[sc] = a
}

// Lookup returns the action bound to a key press. Releases and repeats
// never match.
func (s *Shortcuts) Lookup(e key.Event) (Action, bool) {
	if e.Direction != key.DirPress {
		return "", false
	}
	mods := e.Modifiers & modifierMask
	r := e.Rune
	if r <= 0 || unicode.IsControl(r) {
		r = codeRune(e.Code)
	}
	if r > 0 {
		if a, ok := s.byKey[KeyShortcut{Rune: unicode.ToLower(r), Modifiers: mods}]; ok {
			return a, true
		}
	}
	a, ok := s.byKey[KeyShortcut{Code: e.Code, Modifiers: mods}]
	return a, ok
}

// For lists the chords bound to a, sorted by their label.
func (s *Shortcuts) For(a Action) []KeyShortcut {
	var out []KeyShortcut
	for sc, act := range s.byKey {
		if act == a {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// codeRune maps letter key codes to their rune. Control chords often
// arrive without a printable rune.
func codeRune(c key.Code) rune {
	if c >= key.CodeA && c <= key.CodeZ {
		return 'a' + rune(c-key.CodeA)
	}
	return 0
}
