package appstate

import (
	"testing"

	"golang.org/x/mobile/event/key"
)

func TestDefaultShortcutsLookup(t *testing.T) {
	s := DefaultShortcuts()
	cases := []struct {
		name string
		ev   key.Event
		want Action
	}{
		{"ctrl z", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress}, ActionUndo},
		{"meta z", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModMeta, Direction: key.DirPress}, ActionUndo},
		{"ctrl y", key.Event{Rune: 'y', Code: key.CodeY, Modifiers: key.ModControl, Direction: key.DirPress}, ActionRedo},
		{"ctrl shift z", key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift, Direction: key.DirPress}, ActionRedo},
		{"ctrl z without rune", key.Event{Rune: -1, Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress}, ActionUndo},
		{"control character rune", key.Event{Rune: 0x1a, Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress}, ActionUndo},
		{"ctrl enter", key.Event{Rune: '\r', Code: key.CodeReturnEnter, Modifiers: key.ModControl, Direction: key.DirPress}, ActionGenerate},
		{"escape", key.Event{Rune: 0x1b, Code: key.CodeEscape, Direction: key.DirPress}, ActionCancel},
		{"eraser", key.Event{Rune: 'e', Code: key.CodeE, Direction: key.DirPress}, ActionEraser},
		{"brush up", key.Event{Rune: ']', Code: key.CodeRightSquareBracket, Direction: key.DirPress}, ActionBrushUp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.Lookup(tc.ev)
			if !ok || got != tc.want {
				t.Fatalf("Lookup = %q, %v; want %q", got, ok, tc.want)
			}
		})
	}
}

func TestLookupIgnoresReleaseAndUnbound(t *testing.T) {
	s := DefaultShortcuts()
	if _, ok := s.Lookup(key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirRelease}); ok {
		t.Error("release matched")
	}
	if _, ok := s.Lookup(key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirNone}); ok {
		t.Error("repeat matched")
	}
	if _, ok := s.Lookup(key.Event{Rune: 'z', Code: key.CodeZ, Direction: key.DirPress}); ok {
		t.Error("plain z matched")
	}
}

func TestBindReplacesAndFor(t *testing.T) {
	s := NewShortcuts()
	s.Bind(KeyShortcut{Rune: 'U', Modifiers: key.ModControl}, ActionUndo)
	s.Bind(KeyShortcut{Rune: 'u', Modifiers: key.ModControl}, ActionRedo)
	got := s.For(ActionRedo)
	if len(got) != 1 || got[0].String() != "Ctrl+U" {
		t.Fatalf("For(redo) = %v", got)
	}
	if len(s.For(ActionUndo)) != 0 {
		t.Error("old binding survived")
	}
}

func TestKeyShortcutString(t *testing.T) {
	cases := map[string]KeyShortcut{
		"Ctrl+Shift+Z": {Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		"Meta+Enter":   {Code: key.CodeReturnEnter, Modifiers: key.ModMeta},
		"Esc":          {Code: key.CodeEscape},
		"Ctrl+Del":     {Code: key.CodeDeleteForward, Modifiers: key.ModControl},
	}
	for want, sc := range cases {
		if got := sc.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
