// Package nativebridge is a cgo-free boundary layer over the magicworld
// native library. It resolves the library's exports once, marshals
// scalars, UTF-8 text, arrays, and records across the boundary, and
// guarantees every native allocation that crosses it is released exactly
// once, on every exit path.
package nativebridge

import (
	"fmt"
	"os"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/magicworld/nativebridge/dylib"
)

// LibraryName is the base name of the native module, resolved to
// libmagicworld.so / libmagicworld.dylib / magicworld.dll per platform.
const LibraryName = "magicworld"

// LibraryPathEnv overrides the module location for the default bridge.
const LibraryPathEnv = "MAGICWORLD_LIBRARY"

// Config controls bridge construction. The zero value loads LibraryName
// from the system search path.
type Config struct {
	// LibraryPath is an explicit module path; wins over name search.
	LibraryPath string

	// SearchPaths are directories searched before the system loader.
	SearchPaths []string

	// UseProcess binds the host process image instead of loading a
	// module, for builds that link the native code statically.
	UseProcess bool

	// Logger receives debug events for loading, symbol binding, and
	// buffer release. Defaults to a nop logger.
	Logger *zap.Logger
}

// natives holds one typed callable per exported function. Signatures are
// declared here and nowhere else; they must match the native declarations
// exactly (a mismatch is undefined behavior, not a reported error).
// Text-returning functions yield raw addresses so ownership can be routed
// through the contract release routines.
type natives struct {
	add            func(a, b int32) int32
	stringLength   func(text uintptr) int32
	getGreeting    func(name uintptr) uintptr
	formatText     func(format, device uintptr) uintptr
	setDeviceName  func(name uintptr)
	deviceName     func() uintptr
	deviceModel    func() uintptr
	systemVersion  func() uintptr
	sumArray       func(values uintptr, count int32) int32
	systemInfo     func() uintptr
	freeString     func(addr uintptr)
	freeSystemInfo func(addr uintptr)
}

// Bridge is the public boundary surface. Construction resolves every
// contract symbol eagerly; a missing symbol fails construction and no
// partially bound bridge is ever returned. Once constructed, the bound
// handles are immutable and safe for concurrent use.
type Bridge struct {
	mu     sync.RWMutex
	module *dylib.Module
	log    *zap.Logger
	track  tracker
	fn     natives
	closed bool
}

// New loads the native module per cfg and binds the full function
// contract.
func New(cfg Config) (*Bridge, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	module, err := dylib.Open(dylib.Config{
		Path:        cfg.LibraryPath,
		Name:        LibraryName,
		SearchPaths: cfg.SearchPaths,
		Process:     cfg.UseProcess,
	})
	if err != nil {
		return nil, fmt.Errorf("nativebridge: load native module: %w", err)
	}
	logger.Debug("native module loaded", zap.String("path", module.Path()))

	bridge := &Bridge{module: module, log: logger}
	if err := bridge.bindAll(); err != nil {
		_ = module.Close()
		return nil, err
	}
	return bridge, nil
}

var (
	defaultOnce   sync.Once
	defaultBridge *Bridge
	defaultErr    error
)

// Default returns the process-wide bridge, constructing it on first use.
// Safe under concurrent first access; every caller observes the same
// fully bound bridge or the same construction error. The default bridge
// lives for the process lifetime and is never closed.
func Default() (*Bridge, error) {
	defaultOnce.Do(func() {
		defaultBridge, defaultErr = New(Config{
			LibraryPath: os.Getenv(LibraryPathEnv),
		})
	})
	return defaultBridge, defaultErr
}

// bindAll resolves every contract symbol and registers its typed
// callable. Resolution is eager so a missing export surfaces here, once,
// instead of on first use deep in a call path.
func (bridge *Bridge) bindAll() error {
	contract := []struct {
		symbol string
		fn     any
	}{
		{"native_add", &bridge.fn.add},
		{"native_string_length", &bridge.fn.stringLength},
		{"native_get_greeting", &bridge.fn.getGreeting},
		{"native_format_text", &bridge.fn.formatText},
		{"native_set_device_name", &bridge.fn.setDeviceName},
		{"native_get_device_name", &bridge.fn.deviceName},
		{"native_get_device_model", &bridge.fn.deviceModel},
		{"native_get_system_version", &bridge.fn.systemVersion},
		{"native_sum_array", &bridge.fn.sumArray},
		{"native_get_system_info", &bridge.fn.systemInfo},
		{"native_free_string", &bridge.fn.freeString},
		{"native_free_system_info", &bridge.fn.freeSystemInfo},
	}

	for _, entry := range contract {
		addr, err := bridge.module.Lookup(entry.symbol)
		if err != nil {
			return fmt.Errorf("nativebridge: bind %s: %w", entry.symbol, err)
		}
		purego.RegisterFunc(entry.fn, addr)
		bridge.log.Debug("bound native symbol", zap.String("symbol", entry.symbol))
	}
	return nil
}

// table returns the bound function table, or ErrBridgeClosed.
func (bridge *Bridge) table() (*natives, error) {
	bridge.mu.RLock()
	defer bridge.mu.RUnlock()
	if bridge.closed {
		return nil, ErrBridgeClosed
	}
	return &bridge.fn, nil
}

// Outstanding reports how many native buffers have crossed the boundary
// and are not yet released. It is zero whenever no call is in flight.
func (bridge *Bridge) Outstanding() int64 {
	return bridge.track.outstanding.Load()
}

// Close releases the module handle. Idempotent. Calls in flight on other
// goroutines must have completed.
func (bridge *Bridge) Close() error {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()

	if bridge.closed {
		return nil
	}
	bridge.closed = true
	return bridge.module.Close()
}
