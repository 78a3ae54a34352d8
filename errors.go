package nativebridge

import (
	"errors"

	"github.com/magicworld/nativebridge/dylib"
)

var (
	// ErrModuleNotFound means no loading strategy produced a module
	// handle. Fatal at bridge construction.
	ErrModuleNotFound = dylib.ErrModuleNotFound

	// ErrSymbolNotFound means a contract symbol is absent from the
	// loaded module. Fatal at bridge construction.
	ErrSymbolNotFound = dylib.ErrSymbolNotFound

	// ErrInvalidEncoding means input text was rejected before crossing
	// the boundary. Recoverable, per call.
	ErrInvalidEncoding = errors.New("nativebridge: invalid text encoding")

	// ErrNoResult means a record-returning native function produced a
	// null address where a record was required.
	ErrNoResult = errors.New("nativebridge: native call returned no result")

	ErrBridgeClosed = errors.New("nativebridge: bridge is closed")
)
