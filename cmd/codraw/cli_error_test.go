package main

import (
	"errors"
	"strings"
	"testing"
)

func TestParseGenerateRequiresPrompt(t *testing.T) {
	r, _, _ := newTestRoot(t)
	_, err := parseGenerateCmd([]string{"-output", "x.png"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "<prompt...>") {
		t.Fatalf("usage text missing synopsis: %q", uerr.Error())
	}
}

func TestParseGenerateTextOnlyRejectsFile(t *testing.T) {
	r, _, _ := newTestRoot(t)
	_, err := parseGenerateCmd([]string{"-text-only", "-file", "in.png", "a", "cat"}, r)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "-text-only cannot be used with -file"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawFileAndClipboard(t *testing.T) {
	r, _, _ := newTestRoot(t)
	_, err := parseDrawCmd([]string{"-file", "in.png", "-from-clipboard"}, r)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "cannot be combined"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawRejectsArgs(t *testing.T) {
	r, _, _ := newTestRoot(t)
	_, err := parseDrawCmd([]string{"stray"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestUnknownBackend(t *testing.T) {
	r, _, _ := newTestRoot(t)
	cmd, err := parseGenerateCmd([]string{"-backend", "dalle", "a", "cat"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestInvalidEditorFlags(t *testing.T) {
	cases := map[string][]string{
		"size":       {"-size", "big"},
		"pen":        {"-pen", "notacolor"},
		"background": {"-background", "#12"},
		"brush":      {"-brush", "0"},
		"history":    {"-history", "-1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			r, _, _ := newTestRoot(t)
			cmd, err := parseGenerateCmd(append(args, "a", "cat"), r)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			cmd.svc = &recordingService{}
			if err := cmd.Run(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRootUsageListsCommands(t *testing.T) {
	r := newRoot()
	text := (&UsageError{of: r}).Error()
	for _, want := range []string{"draw", "interactive", "generate", "serve", "config", "-theme"} {
		if !strings.Contains(text, want) {
			t.Errorf("root usage missing %q", want)
		}
	}
}

func TestEveryCommandHasHelp(t *testing.T) {
	r, _, _ := newTestRoot(t)
	var cmds []HelpData
	if c, err := parseDrawCmd(nil, r.subcommand("draw")); err == nil {
		cmds = append(cmds, c)
	}
	if c, err := parseInteractiveCmd(nil, r.subcommand("interactive")); err == nil {
		cmds = append(cmds, c)
	}
	if c, err := parseGenerateCmd([]string{"x"}, r.subcommand("generate")); err == nil {
		cmds = append(cmds, c)
	}
	if c, err := parseServeCmd(nil, r.subcommand("serve")); err == nil {
		cmds = append(cmds, c)
	}
	if c, err := parseColorsCmd(nil, r.subcommand("colors")); err == nil {
		cmds = append(cmds, c)
	}
	if c, err := parseBrushesCmd(nil, r.subcommand("brushes")); err == nil {
		cmds = append(cmds, c)
	}
	if c, err := parseThemesCmd(nil, r.subcommand("themes")); err == nil {
		cmds = append(cmds, c)
	}
	if c, err := parseConfigCmd(nil, r.subcommand("config")); err == nil {
		cmds = append(cmds, c)
	}
	if len(cmds) != 8 {
		t.Fatalf("parsed %d commands, want 8", len(cmds))
	}
	for _, c := range cmds {
		help, err := (&UsageError{of: c}).renderHelp()
		if err != nil {
			t.Fatalf("%s: %v", c.Template(), err)
		}
		if !strings.HasPrefix(help, "Usage: "+c.Program()) {
			t.Errorf("%s: help starts %q", c.Template(), help[:min(len(help), 40)])
		}
	}
}
