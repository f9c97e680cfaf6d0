package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/example/codraw/internal/appstate"
	"github.com/example/codraw/internal/clipboard"
	"github.com/example/codraw/internal/generate"
	"github.com/example/codraw/internal/raster"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, "; ")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd drives an editor from text commands, one per line.
type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	editor editorFlags
	gen    serviceFlags
	execs  commandList
	output string

	stdin io.Reader
	svc   generate.Service
	ed    *appstate.Editor
	ctx   context.Context
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.Usage = usageFunc(i)
	i.editor.register(fs, r.config)
	i.gen.register(fs, r.config)
	fs.Var(&i.execs, "e", "execute a command and exit (may be specified multiple times)")
	fs.StringVar(&i.output, "output", defaultOutput(r.config.SaveDir), "file written by export without a path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) setup() error {
	svc := i.svc
	if svc == nil {
		var err error
		if svc, err = i.gen.service(); err != nil {
			return err
		}
	}
	opts, err := i.editor.options()
	if err != nil {
		return err
	}
	opts = append(opts, appstate.WithService(svc), appstate.WithTimeout(i.gen.timeout))
	i.ed, err = appstate.NewEditor(opts...)
	return err
}

func (i *interactiveCmd) Run() error {
	if err := i.setup(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	i.ctx = ctx

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

const interactiveHelp = `commands:
  stroke X Y [X Y ...]   draw a polyline in canvas pixels
  undo | redo            step through history
  clear                  clear the drawing and background
  reset                  start a fresh canvas and history
  pen COLOR              set the pen colour (name or hex)
  brush WIDTH            set the brush width
  eraser on|off          toggle the eraser
  generate PROMPT        send the drawing with PROMPT and apply the result
  export [PATH]          save the drawing as PNG
  copy                   copy the drawing to the clipboard
  status                 show the editor state
  exit                   quit`

// executeLine runs one command. done reports that the session should end.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false, nil
	}
	ed := i.ed
	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(i.stdout, interactiveHelp)
	case "stroke", "line":
		pts, err := parsePoints(rest)
		if err != nil {
			return false, err
		}
		return false, ed.Stroke(pts)
	case "undo":
		ok, err := ed.Undo()
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintln(i.stdout, "nothing to undo")
		}
	case "redo":
		ok, err := ed.Redo()
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintln(i.stdout, "nothing to redo")
		}
	case "clear":
		return false, ed.Clear()
	case "reset":
		return false, ed.Reset()
	case "pen", "color":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: pen COLOR")
		}
		c, err := appstate.ParseColor(rest[0])
		if err != nil {
			return false, err
		}
		ed.SetPen(c)
	case "brush", "width":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: brush WIDTH")
		}
		w, err := strconv.ParseFloat(rest[0], 64)
		if err != nil || w <= 0 {
			return false, fmt.Errorf("invalid brush width %q", rest[0])
		}
		ed.SetBrush(w)
	case "eraser":
		on := !ed.Eraser()
		if len(rest) == 1 {
			v, err := parseSwitch(rest[0])
			if err != nil {
				return false, err
			}
			on = v
		}
		ed.SetEraser(on)
	case "generate", "submit":
		prompt := strings.TrimSpace(strings.Join(rest, " "))
		ctx := i.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		resp, err := ed.Generate(ctx, prompt)
		if err != nil {
			i.notifier.Failed(err)
			return false, err
		}
		if msg := strings.TrimSpace(resp.Message); msg != "" {
			fmt.Fprintln(i.stdout, msg)
		}
		fmt.Fprintln(i.stdout, "generated image applied")
		i.notifier.Generated(prompt, ed.Flatten())
	case "export", "save":
		path := i.output
		if len(rest) > 0 {
			path = strings.Join(rest, " ")
		}
		saved, err := ed.ExportFile(path)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "saved %s\n", saved)
		i.notifySave(saved)
	case "copy":
		if err := clipboard.WriteImage(ed.Flatten()); err != nil {
			return false, fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(i.stdout, "copied drawing to clipboard")
		i.notifyCopy("drawing")
	case "status":
		i.printStatus()
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", args[0])
	}
	return false, nil
}

func (i *interactiveCmd) printStatus() {
	ed := i.ed
	size := ed.Surface().Size()
	tool := "pen " + appstate.HexColor(ed.Pen())
	if ed.Eraser() {
		tool = "eraser"
	}
	fmt.Fprintf(i.stdout, "canvas %dx%d, %s, brush %g, history %d/%d, busy %t\n",
		size.X, size.Y, tool, ed.Brush(), ed.HistoryIndex()+1, ed.HistoryLen(), ed.Busy())
}

func parsePoints(args []string) ([]raster.Point, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("stroke needs pairs of coordinates")
	}
	pts := make([]raster.Point, 0, len(args)/2)
	for j := 0; j < len(args); j += 2 {
		x, err := strconv.ParseFloat(args[j], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x %q", args[j])
		}
		y, err := strconv.ParseFloat(args[j+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid y %q", args[j+1])
		}
		pts = append(pts, raster.Pt(x, y))
	}
	return pts, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
