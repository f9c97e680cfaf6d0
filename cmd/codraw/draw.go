package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/example/codraw/internal/appstate"
	"github.com/example/codraw/internal/clipboard"
)

// drawCmd opens the drawing window.
type drawCmd struct {
	*root
	fs            *flag.FlagSet
	editor        editorFlags
	gen           serviceFlags
	output        string
	input         string
	fromClipboard bool
	prompt        string
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	d.editor.register(fs, r.config)
	d.gen.register(fs, r.config)
	fs.StringVar(&d.output, "output", defaultOutput(r.config.SaveDir), "file written by Ctrl+S")
	fs.StringVar(&d.input, "file", "", "image to start from as the background")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "start from the image on the clipboard")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "start from the image on the clipboard (alias)")
	fs.StringVar(&d.prompt, "prompt", "", "initial prompt text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	if d.input != "" && d.fromClipboard {
		return nil, fmt.Errorf("-file and -from-clipboard cannot be combined")
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	opts, err := d.editor.options()
	if err != nil {
		return err
	}
	svc, err := d.gen.service()
	if err != nil {
		return err
	}
	opts = append(opts, appstate.WithService(svc), appstate.WithTimeout(d.gen.timeout))
	ed, err := appstate.NewEditor(opts...)
	if err != nil {
		return err
	}
	start, err := d.startImage()
	if err != nil {
		return err
	}
	if start != nil {
		if err := ed.Import(start); err != nil {
			return err
		}
	}

	win := appstate.NewWindow(ed,
		appstate.WithTheme(d.activeTheme),
		appstate.WithNotifier(d.notifier),
		appstate.WithOutput(d.output),
		appstate.WithPrompt(d.prompt),
		appstate.WithTitle(windowTitle(titleOptions{File: d.output, Backend: d.gen.backend})),
	)
	win.Run()
	return nil
}

func (d *drawCmd) startImage() (image.Image, error) {
	switch {
	case d.fromClipboard:
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		return img, nil
	case d.input != "":
		return loadImage(d.input)
	}
	return nil, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
