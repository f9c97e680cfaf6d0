//go:build !(linux || freebsd || openbsd || netbsd || dragonfly) && !((darwin || windows) && cgo)

package clipboard

func platformBackend() (backend, error) {
	return nil, ErrUnsupported
}
