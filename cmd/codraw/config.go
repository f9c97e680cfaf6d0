package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/codraw/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	file   string
	asYAML bool
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "file written by save (default: the loaded config or ~/.config/codraw/config.rc)")
	fs.BoolVar(&c.asYAML, "yaml", false, "use YAML instead of the rc format")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	case "path":
		path := c.savePath()
		fmt.Fprintln(c.stdout, path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) render(yamlOut bool) ([]byte, error) {
	if yamlOut {
		return c.config.YAML()
	}
	return []byte(c.config.String()), nil
}

func (c *configCmd) runPrint() error {
	data, err := c.render(c.asYAML)
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(data)
	return err
}

// savePath picks the -file flag, the -config flag, the loaded file or the
// default location, in that order.
func (c *configCmd) savePath() string {
	switch {
	case c.file != "":
		return c.file
	case c.configPath != "":
		return c.configPath
	}
	if path := config.NewLoader(version, configPathOverride).GetConfigPath(); path != "" {
		return path
	}
	return config.DefaultPath()
}

func (c *configCmd) runSave() error {
	path := c.savePath()
	ext := strings.ToLower(filepath.Ext(path))
	data, err := c.render(c.asYAML || ext == ".yaml" || ext == ".yml")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	fmt.Fprintf(c.stderr, "Configuration saved to %s\n", path)
	return nil
}
