package appstate

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"red":       {255, 0, 0, 255},
		"Brown":     {139, 69, 19, 255},
		"cornsilk":  {255, 248, 220, 255},
		"#0f0":      {0, 255, 0, 255},
		"#102030":   {0x10, 0x20, 0x30, 255},
		"#0000ff80": {0, 0, 128, 128},
		"#ffffff00": {0, 0, 0, 0},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "blurple", "#12", "#zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}

func TestStepColorWraps(t *testing.T) {
	colors := PaletteColors()
	first, last := colors[0].Color, colors[len(colors)-1].Color
	if got := stepColor(last, 1); got != first {
		t.Errorf("step past end = %v, want %v", got, first)
	}
	if got := stepColor(first, -1); got != last {
		t.Errorf("step before start = %v, want %v", got, last)
	}
	if got := stepColor(color.RGBA{1, 2, 3, 255}, 1); got != colors[DefaultColorIndex()].Color {
		t.Errorf("unknown colour stepped to %v", got)
	}
}

func TestStepBrushClamps(t *testing.T) {
	opts := BrushOptions()
	if got := stepBrush(float64(opts[0]), 1); got != float64(opts[1]) {
		t.Errorf("up from smallest = %v", got)
	}
	if got := stepBrush(float64(opts[len(opts)-1]), 1); got != float64(opts[len(opts)-1]) {
		t.Errorf("up from largest = %v", got)
	}
	if got := stepBrush(float64(opts[0]), -1); got != float64(opts[0]) {
		t.Errorf("down from smallest = %v", got)
	}
	if got := stepBrush(7, -1); got != 5 {
		t.Errorf("down from 7 = %v", got)
	}
}

func TestHexColor(t *testing.T) {
	if got := HexColor(color.RGBA{0xAB, 0x01, 0xFF, 0xFF}); got != "#AB01FF" {
		t.Errorf("HexColor = %q", got)
	}
	if got := HexColor(color.RGBA{0, 0, 128, 128}); got != "#0000FF80" {
		t.Errorf("HexColor translucent = %q", got)
	}
}
