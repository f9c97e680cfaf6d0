package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/codraw/internal/config"
	"github.com/example/codraw/internal/logging"
	"github.com/example/codraw/internal/notify"
	"github.com/example/codraw/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	notifier *notify.Notifier
	config   *config.Config
	stdout   io.Writer
	stderr   io.Writer

	configPath     string
	logLevel       string
	generateAlerts bool
	failureAlerts  bool
	saveAlerts     bool
	copyAlerts     bool
	themeName      string
	activeTheme    *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	sub := *r
	sub.fs = nil
	sub.program = program
	return &sub
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("codraw", flag.ExitOnError),
		program: "codraw",
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	r.fs.StringVar(&r.configPath, "config", "", "configuration file (rc or yaml)")
	r.fs.StringVar(&r.logLevel, "log-level", "", "log level: debug, info, warn or error (env CODRAW_LOG_LEVEL)")
	r.fs.BoolVar(&r.generateAlerts, "notify-generate", false, "show a desktop notification when a generated image is applied")
	r.fs.BoolVar(&r.failureAlerts, "notify-failure", false, "show a desktop notification when generation fails")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving a drawing")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, light, dark or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadConfig reads the configuration file and environment. An explicit
// -config path must load; a broken file found by the search only warns.
func (r *root) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if r.configPath != "" {
		cfg, err = config.LoadFile(r.configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", r.configPath, err)
		}
	} else {
		cfg, err = config.NewLoader(version, configPathOverride).Load()
		if err != nil {
			fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
			cfg = config.New()
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// explicit reports which root flags were given on the command line.
func (r *root) explicit() map[string]bool {
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func (r *root) setupLogging() {
	level := r.logLevel
	if level == "" {
		level = r.config.LogLevel
	}
	h := slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: logging.ParseLevel(level)})
	logging.SetLogger(slog.New(h))
}

func (r *root) setupNotifier() {
	set := r.explicit()
	pick := func(name string, flagValue, cfgValue bool) bool {
		if set[name] {
			return flagValue
		}
		return cfgValue
	}
	n := r.config.Notify
	r.generateAlerts = pick("notify-generate", r.generateAlerts, n.Generate)
	r.failureAlerts = pick("notify-failure", r.failureAlerts, n.Failure)
	r.saveAlerts = pick("notify-save", r.saveAlerts, n.Save)
	r.copyAlerts = pick("notify-copy", r.copyAlerts, n.Copy)

	if r.notifier == nil {
		r.notifier = notify.New(notify.LoadPreferences(notify.DefaultPreferences()))
	}
	r.notifier.Enable(notify.EventGenerate, r.generateAlerts)
	r.notifier.Enable(notify.EventFailure, r.failureAlerts)
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
}

func (r *root) setupTheme() {
	themeName := r.themeName
	if themeName == "" {
		themeName = r.config.Theme
	}
	loader := theme.NewLoader()
	loader.Custom = r.config.Themes
	t, err := loader.Load(themeName)
	if err != nil {
		if themeName != "" && themeName != "default" {
			fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		}
		t = theme.Default()
	}
	r.activeTheme = t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.config == nil {
		if err := r.loadConfig(); err != nil {
			return err
		}
		r.setupLogging()
	}
	r.setupNotifier()
	r.setupTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r.subcommand("draw"))
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r.subcommand("interactive"))
	case "generate":
		cmd, err = parseGenerateCmd(subArgs, r.subcommand("generate"))
	case "serve":
		cmd, err = parseServeCmd(subArgs, r.subcommand("serve"))
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r.subcommand("colors"))
	case "brushes":
		cmd, err = parseBrushesCmd(subArgs, r.subcommand("brushes"))
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r.subcommand("themes"))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand("config"))
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
