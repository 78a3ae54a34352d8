//go:build !windows && !darwin && !linux && !freebsd

package dylib

import "errors"

var errUnsupported = errors.New("dylib is only supported on windows, darwin, linux, and freebsd")

func openPath(path string) (uintptr, error) {
	_ = path
	return 0, errUnsupported
}

func openProcess() (uintptr, error) {
	return 0, errUnsupported
}

func lookup(handle uintptr, name string) (uintptr, error) {
	_, _ = handle, name
	return 0, errUnsupported
}

func closeHandle(handle uintptr) error {
	_ = handle
	return errUnsupported
}
