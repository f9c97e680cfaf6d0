package appstate

import (
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/text/unicode/norm"
)

// promptEdit is what a key press did to the prompt line.
type promptEdit int

const (
	promptIgnored promptEdit = iota
	promptChanged
	promptSubmit
	promptClosed
	promptPaste
	promptCopy
)

// promptLine is the single-line prompt entry in the status bar.
type promptLine struct {
	text   []rune
	active bool
}

func (p *promptLine) String() string { return string(p.text) }

func (p *promptLine) Set(s string) { p.text = []rune(s) }

// normalize keeps the text in NFC so a combining mark typed after its base
// letter is one rune and Backspace removes both.
func (p *promptLine) normalize() {
	p.text = []rune(norm.NFC.String(string(p.text)))
}

// Insert appends s with newlines folded to spaces.
func (p *promptLine) Insert(s string) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	p.text = append(p.text, []rune(s)...)
	p.normalize()
}

// Key applies one key event while the prompt line is active.
func (p *promptLine) Key(e key.Event) promptEdit {
	if !p.active || e.Direction == key.DirRelease {
		return promptIgnored
	}
	ctrl := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	switch e.Code {
	case key.CodeReturnEnter:
		return promptSubmit
	case key.CodeEscape, key.CodeTab:
		p.active = false
		return promptClosed
	case key.CodeDeleteBackspace:
		if len(p.text) > 0 {
			p.text = p.text[:len(p.text)-1]
		}
		return promptChanged
	}
	if ctrl {
		switch unicode.ToLower(e.Rune) {
		case 'v':
			return promptPaste
		case 'c':
			if len(p.text) == 0 {
				return promptIgnored
			}
			return promptCopy
		case 'u':
			p.text = p.text[:0]
			return promptChanged
		}
		return promptIgnored
	}
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		p.text = append(p.text, e.Rune)
		p.normalize()
		return promptChanged
	}
	return promptIgnored
}
