package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads "Key: #RRGGBB" lines over the Default theme. Unknown keys are
// ignored; blank lines and lines starting with # or // are comments.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := t.Set(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns one field by name. Unknown fields are ignored.
func (t *Theme) Set(field, value string) error {
	if strings.EqualFold(field, "Name") {
		t.Name = value
		return nil
	}
	f := reflect.ValueOf(t).Elem().FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, field) })
	if !f.IsValid() || f.Type() != rgbaType {
		return nil
	}
	col, err := ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", field, err)
	}
	f.Set(reflect.ValueOf(col))
	return nil
}

// Fields lists the colour keys a theme file may set.
func Fields() []string {
	rt := reflect.TypeOf(Theme{})
	var out []string
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Type == rgbaType {
			out = append(out, rt.Field(i).Name)
		}
	}
	return out
}

// ParseColor parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	switch len(hex) {
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex length")
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	n := color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}
