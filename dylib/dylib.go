// Package dylib loads native code modules and resolves their exported
// symbols. It supports two strategies: loading a named dynamic module from
// the filesystem search path, and binding against the host process image
// when the native code is statically linked into the executable.
package dylib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

var (
	ErrModuleNotFound = errors.New("dylib: module not found")
	ErrSymbolNotFound = errors.New("dylib: symbol not found")
	ErrModuleClosed   = errors.New("dylib: module is closed")
)

// Config selects which module to load and how.
type Config struct {
	// Path is an explicit module path. When set it wins over Name.
	Path string

	// Name is the module base name without extension or "lib" prefix,
	// e.g. "magicworld". It is searched across SearchPaths and then
	// handed to the system loader's own search.
	Name string

	// SearchPaths are directories tried, in order, before the system
	// loader search.
	SearchPaths []string

	// Process binds the already-loaded host process image instead of
	// loading a module from disk. Used when the native code is
	// statically linked into the executable.
	Process bool
}

// Module is a handle to a loaded native code module.
type Module struct {
	mu      sync.RWMutex
	handle  uintptr
	path    string
	process bool
	closed  bool
}

// Open loads a module per cfg. All applicable strategies failing, or no
// strategy being applicable on this platform, is ErrModuleNotFound.
func Open(cfg Config) (*Module, error) {
	if cfg.Process {
		handle, err := openProcess()
		if err != nil {
			return nil, fmt.Errorf("dylib: bind process image: %w", err)
		}
		return &Module{handle: handle, path: os.Args[0], process: true}, nil
	}

	candidates, err := candidatePaths(cfg)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, candidate := range candidates {
		handle, err := openPath(candidate)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return &Module{handle: handle, path: candidate}, nil
	}
	return nil, fmt.Errorf("dylib: open %s: %w", describeTarget(cfg), errors.Join(append(errs, ErrModuleNotFound)...))
}

// Lookup resolves one exported symbol to its address.
func (module *Module) Lookup(name string) (uintptr, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("dylib: symbol name cannot be empty")
	}

	module.mu.RLock()
	if module.closed {
		module.mu.RUnlock()
		return 0, ErrModuleClosed
	}
	handle := module.handle
	module.mu.RUnlock()

	addr, err := lookup(handle, name)
	if err != nil {
		return 0, fmt.Errorf("dylib: lookup %q: %w: %v", name, ErrSymbolNotFound, err)
	}
	if addr == 0 {
		return 0, fmt.Errorf("dylib: lookup %q: %w", name, ErrSymbolNotFound)
	}
	return addr, nil
}

// Path reports where the module was loaded from.
func (module *Module) Path() string {
	return module.path
}

// Close releases the module handle. Process-image handles are never
// unloaded; Close is a no-op for them. Close is idempotent.
func (module *Module) Close() error {
	module.mu.Lock()
	defer module.mu.Unlock()

	if module.closed {
		return nil
	}
	module.closed = true

	if module.process || module.handle == 0 {
		return nil
	}
	if err := closeHandle(module.handle); err != nil {
		return fmt.Errorf("dylib: close %s: %w", module.path, err)
	}
	module.handle = 0
	return nil
}

// FileName turns a module base name into the platform file name, e.g.
// "magicworld" becomes "libmagicworld.so" on linux.
func FileName(name string) string {
	switch runtime.GOOS {
	case "windows":
		return name + ".dll"
	case "darwin":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}

func candidatePaths(cfg Config) ([]string, error) {
	if cfg.Path != "" {
		return []string{cfg.Path}, nil
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("dylib: neither path nor name configured: %w", ErrModuleNotFound)
	}

	file := FileName(cfg.Name)
	candidates := make([]string, 0, len(cfg.SearchPaths)+1)
	for _, dir := range cfg.SearchPaths {
		candidates = append(candidates, filepath.Join(dir, file))
	}
	// Bare file name last so the system loader applies its own search.
	candidates = append(candidates, file)
	return candidates, nil
}

func describeTarget(cfg Config) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return cfg.Name
}
