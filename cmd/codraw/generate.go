package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/example/codraw/internal/appstate"
	"github.com/example/codraw/internal/clipboard"
	"github.com/example/codraw/internal/compositor"
	"github.com/example/codraw/internal/generate"
)

// generateCmd runs one generation without a window.
type generateCmd struct {
	*root
	fs          *flag.FlagSet
	editor      editorFlags
	gen         serviceFlags
	input       string
	output      string
	textOnly    bool
	toClipboard bool
	prompt      string

	svc generate.Service
}

func (g *generateCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func parseGenerateCmd(args []string, r *root) (*generateCmd, error) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	g := &generateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(g)
	g.editor.register(fs, r.config)
	g.gen.register(fs, r.config)
	fs.StringVar(&g.input, "file", "", "drawing to send with the prompt")
	fs.StringVar(&g.output, "output", defaultOutput(r.config.SaveDir), "where to write the result")
	fs.BoolVar(&g.textOnly, "text-only", false, "send the prompt without a drawing")
	fs.BoolVar(&g.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&g.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	g.prompt = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if g.prompt == "" {
		return nil, &UsageError{of: g}
	}
	if g.textOnly && g.input != "" {
		return nil, fmt.Errorf("-text-only cannot be used with -file")
	}
	return g, nil
}

func (g *generateCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := g.svc
	if svc == nil {
		var err error
		if svc, err = g.gen.service(); err != nil {
			return err
		}
	}
	opts, err := g.editor.options()
	if err != nil {
		return err
	}
	opts = append(opts, appstate.WithService(svc), appstate.WithTimeout(g.gen.timeout))
	ed, err := appstate.NewEditor(opts...)
	if err != nil {
		return err
	}

	var resp generate.Response
	if g.textOnly {
		resp, err = compositor.Submit(ctx, svc, g.prompt, nil)
		if err != nil {
			return err
		}
		img, err := compositor.Decode(resp.Image)
		if err != nil {
			return err
		}
		if err := ed.Import(img); err != nil {
			return err
		}
	} else {
		if g.input != "" {
			img, err := loadImage(g.input)
			if err != nil {
				return err
			}
			if err := ed.Import(img); err != nil {
				return err
			}
		}
		resp, err = ed.Generate(ctx, g.prompt)
		if err != nil {
			g.notifier.Failed(err)
			return err
		}
	}
	if msg := strings.TrimSpace(resp.Message); msg != "" {
		fmt.Fprintln(g.stdout, msg)
	}

	path, err := ed.ExportFile(g.output)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout, "saved %s\n", path)
	g.notifier.Generated(g.prompt, ed.Flatten())
	g.notifySave(path)

	if g.toClipboard {
		if err := clipboard.WriteImage(ed.Flatten()); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		g.notifyCopy(path)
	}
	return nil
}
