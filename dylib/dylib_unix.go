//go:build darwin || freebsd || linux

package dylib

import (
	"github.com/ebitengine/purego"
)

func openPath(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func openProcess() (uintptr, error) {
	// RTLD_DEFAULT searches every image already loaded into the process,
	// which covers statically linked native code.
	return purego.RTLD_DEFAULT, nil
}

func lookup(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func closeHandle(handle uintptr) error {
	return purego.Dlclose(handle)
}
