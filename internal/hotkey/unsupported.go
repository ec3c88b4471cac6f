//go:build !(((linux || darwin) && cgo) || windows)

package hotkey

func registerNative(Binding, func()) (registration, error) {
	return nil, ErrUnsupported
}

