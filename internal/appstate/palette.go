package appstate

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Orange", color.RGBA{255, 165, 0, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Brown", color.RGBA{139, 69, 19, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
)

var (
	brushesMu sync.RWMutex
	brushes   = []int{2, 5, 10, 20, 40}
)

const (
	defaultColorIndex = 0
	defaultBrushIndex = 1
)

// DefaultColorIndex returns the palette index of the default pen.
func DefaultColorIndex() int { return defaultColorIndex }

// DefaultBrushIndex returns the index of the default brush width.
func DefaultBrushIndex() int { return defaultBrushIndex }

// PaletteColors returns a copy of the named pen colours.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// EnsurePaletteColor makes sure col is in the palette and returns its index.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for idx, existing := range palette {
		if existing.Color == col {
			return idx
		}
	}
	if name == "" {
		name = HexColor(col)
	}
	palette = append(palette, PaletteColor{Name: name, Color: col})
	return len(palette) - 1
}

// PaletteIndex returns the index of col, or -1.
func PaletteIndex(col color.RGBA) int {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	for idx, existing := range palette {
		if existing.Color == col {
			return idx
		}
	}
	return -1
}

// BrushOptions returns a copy of the brush widths offered in the window.
func BrushOptions() []int {
	brushesMu.RLock()
	defer brushesMu.RUnlock()
	out := make([]int, len(brushes))
	copy(out, brushes)
	return out
}

// EnsureBrush makes sure width is offered and returns its index.
func EnsureBrush(width int) int {
	if width < 1 {
		width = 1
	}
	brushesMu.Lock()
	defer brushesMu.Unlock()
	for idx, existing := range brushes {
		if existing == width {
			return idx
		}
	}
	brushes = append(brushes, width)
	sort.Ints(brushes)
	return sort.SearchInts(brushes, width)
}

// stepColor moves delta places through the palette from col, wrapping at
// either end. Colours outside the palette start from the default.
func stepColor(col color.RGBA, delta int) color.RGBA {
	colors := PaletteColors()
	idx := PaletteIndex(col)
	if idx < 0 {
		idx = defaultColorIndex
	} else {
		idx = (idx + delta) % len(colors)
		if idx < 0 {
			idx += len(colors)
		}
	}
	return colors[idx].Color
}

// stepBrush returns the next offered width above (delta > 0) or below
// (delta < 0) w, clamped to the offered range.
func stepBrush(w float64, delta int) float64 {
	opts := BrushOptions()
	if delta > 0 {
		for _, o := range opts {
			if float64(o) > w {
				return float64(o)
			}
		}
		return float64(opts[len(opts)-1])
	}
	for i := len(opts) - 1; i >= 0; i-- {
		if float64(opts[i]) < w {
			return float64(opts[i])
		}
	}
	return float64(opts[0])
}

// HexColor formats col as #RRGGBB, or #RRGGBBAA when it is translucent.
// The channels are written unpremultiplied, the way ParseColor reads them.
func HexColor(col color.RGBA) string {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

// ParseColor accepts an SVG colour name, a palette name, #RGB, #RRGGBB or
// #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, entry := range PaletteColors() {
		if strings.EqualFold(entry.Name, spec) {
			return entry.Color, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if !strings.HasPrefix(spec, "#") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	hex := spec[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	n := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}
