//go:build (linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo

package clipboard

import (
	"golang.design/x/clipboard"
	"runtime"
)

type designBackend struct{}

func platformBackend() (backend, error) {
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" && !hasDisplay() {
		return nil, ErrNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return designBackend{}, nil
}

func (designBackend) writePNG(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (designBackend) readPNG() ([]byte, error) {
	return clipboard.Read(clipboard.FmtImage), nil
}

func (designBackend) writeText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (designBackend) readText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}
