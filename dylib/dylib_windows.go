//go:build windows

package dylib

import (
	"golang.org/x/sys/windows"
)

func openPath(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}

func openProcess() (uintptr, error) {
	// The module handle of the executable itself; exports statically
	// linked into the image resolve through it.
	handle, err := windows.GetModuleHandle(nil)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}

func lookup(handle uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), name)
}

func closeHandle(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}
