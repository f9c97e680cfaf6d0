package main

import (
	"flag"
	"fmt"

	"github.com/example/codraw/internal/appstate"
	"github.com/example/codraw/internal/theme"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	palette := appstate.PaletteColors()
	if len(palette) == 0 {
		fmt.Fprintln(c.stdout, "no colors available")
		return nil
	}
	fmt.Fprintln(c.stdout, "available pen colors (* marks the default color):")
	defaultIdx := clampIndex(appstate.DefaultColorIndex(), len(palette))
	for idx, entry := range palette {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		hex := appstate.HexColor(entry.Color)
		name := entry.Name
		if name == "" {
			name = hex
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx, name, hex, block)
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type brushesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseBrushesCmd(args []string, r *root) (*brushesCmd, error) {
	fs := flag.NewFlagSet("brushes", flag.ExitOnError)
	cmd := &brushesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *brushesCmd) Run() error {
	widths := appstate.BrushOptions()
	if len(widths) == 0 {
		fmt.Fprintln(c.stdout, "no brushes available")
		return nil
	}
	fmt.Fprintln(c.stdout, "available brush widths (* marks the default width):")
	defaultIdx := clampIndex(appstate.DefaultBrushIndex(), len(widths))
	for idx, width := range widths {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %3dpx\n", marker, width)
	}
	return nil
}

func (c *brushesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type themesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	cmd := &themesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	active := c.themeName
	if active == "" && c.config != nil {
		active = c.config.Theme
	}
	if active == "" {
		active = "default"
	}
	fmt.Fprintln(c.stdout, "available themes (* marks the active theme):")
	names := append([]string{"default"}, theme.Names()...)
	if c.config != nil {
		for name := range c.config.Themes {
			names = appendUnique(names, name)
		}
	}
	for _, name := range names {
		marker := " "
		if name == active {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s\n", marker, name)
	}
	return nil
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func clampIndex(idx, length int) int {
	if length == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}
