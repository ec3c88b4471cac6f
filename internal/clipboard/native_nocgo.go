//go:build !cgo && !windows

package clipboard

import "errors"

var errCGODisabled = errors.New("image clipboard requires cgo support")

type noNative struct{}

func newNative() nativeClipboard { return noNative{} }

func (noNative) Init() error { return errCGODisabled }
func (noNative) WriteImage([]byte) error { return errCGODisabled }
func (noNative) WriteText(string) error { return errCGODisabled }
func (noNative) ReadText() (string, error) { return "", errCGODisabled }
