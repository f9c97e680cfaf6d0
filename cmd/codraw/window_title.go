package main

import (
	"path/filepath"
	"strings"

	"github.com/example/codraw/internal/appstate"
)

type titleOptions struct {
	File    string
	Backend string
	Extras  []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{appstate.ProgramTitle}

	if file := strings.TrimSpace(opts.File); file != "" {
		parts = append(parts, filepath.Base(file))
	}
	if backend := strings.TrimSpace(opts.Backend); backend != "" {
		parts = append(parts, backend)
	}
	for _, extra := range opts.Extras {
		if extra = strings.TrimSpace(extra); extra != "" {
			parts = append(parts, extra)
		}
	}
	return strings.Join(parts, " - ")
}

// defaultOutput places the default export name in dir.
func defaultOutput(dir string) string {
	if strings.TrimSpace(dir) == "" {
		return appstate.DefaultExportName
	}
	return filepath.Join(dir, appstate.DefaultExportName)
}
