package nativebridge

import (
	"fmt"
	"runtime"
)

// Each operation is one scoped transaction: encode inputs, invoke, decode
// outputs, release native buffers. Release is deferred immediately after
// acquisition so it runs on success, on decode failure, and on panic
// unwinds. No raw address or bound handle escapes this file.

// Add returns a+b with fixed-width int32 wraparound semantics.
func (bridge *Bridge) Add(a, b int32) (int32, error) {
	fn, err := bridge.table()
	if err != nil {
		return 0, err
	}
	return fn.add(a, b), nil
}

// StringLength returns the UTF-8 byte length of s as counted by the
// native side.
func (bridge *Bridge) StringLength(s string) (int32, error) {
	fn, err := bridge.table()
	if err != nil {
		return 0, err
	}

	buf, err := encodeText(s)
	if err != nil {
		return 0, fmt.Errorf("nativebridge: string length: %w", err)
	}
	n := fn.stringLength(textPtr(buf))
	runtime.KeepAlive(buf)
	return n, nil
}

// Greeting returns the native greeting for name. An empty name selects
// the native default.
func (bridge *Bridge) Greeting(name string) (string, error) {
	fn, err := bridge.table()
	if err != nil {
		return "", err
	}

	buf, err := encodeText(name)
	if err != nil {
		return "", fmt.Errorf("nativebridge: greeting: %w", err)
	}
	out := bridge.track.acquire(fn.getGreeting(textPtr(buf)), fn.freeString)
	runtime.KeepAlive(buf)
	defer out.release()

	return bridge.decodeOwnedText(out), nil
}

// FormatText substitutes the {device} placeholder in format with device.
func (bridge *Bridge) FormatText(format, device string) (string, error) {
	fn, err := bridge.table()
	if err != nil {
		return "", err
	}

	formatBuf, err := encodeText(format)
	if err != nil {
		return "", fmt.Errorf("nativebridge: format text: %w", err)
	}
	deviceBuf, err := encodeText(device)
	if err != nil {
		return "", fmt.Errorf("nativebridge: format text: %w", err)
	}
	out := bridge.track.acquire(fn.formatText(textPtr(formatBuf), textPtr(deviceBuf)), fn.freeString)
	runtime.KeepAlive(formatBuf)
	runtime.KeepAlive(deviceBuf)
	defer out.release()

	return bridge.decodeOwnedText(out), nil
}

// SetDeviceName stores name on the native side. The encoded input buffer
// stays caller-owned; the native side keeps its own copy.
func (bridge *Bridge) SetDeviceName(name string) error {
	fn, err := bridge.table()
	if err != nil {
		return err
	}

	buf, err := encodeText(name)
	if err != nil {
		return fmt.Errorf("nativebridge: set device name: %w", err)
	}
	fn.setDeviceName(textPtr(buf))
	runtime.KeepAlive(buf)
	return nil
}

// DeviceName returns the stored device name, or "" when the native side
// has no value.
func (bridge *Bridge) DeviceName() (string, error) {
	return bridge.textOp("device name", func(fn *natives) uintptr { return fn.deviceName() })
}

// DeviceModel returns the native device model string.
func (bridge *Bridge) DeviceModel() (string, error) {
	return bridge.textOp("device model", func(fn *natives) uintptr { return fn.deviceModel() })
}

// SystemVersion returns the native library version string.
func (bridge *Bridge) SystemVersion() (string, error) {
	return bridge.textOp("system version", func(fn *natives) uintptr { return fn.systemVersion() })
}

// SumArray returns the sum of values with int32 wraparound. The empty
// array sums to 0 and crosses the boundary as (null, 0).
func (bridge *Bridge) SumArray(values []int32) (int32, error) {
	fn, err := bridge.table()
	if err != nil {
		return 0, err
	}

	buf := encodeInt32Array(values)
	sum := fn.sumArray(int32Ptr(buf), int32(len(buf)))
	runtime.KeepAlive(buf)
	return sum, nil
}

// SystemInfo returns the native system information record. The record and
// its nested text buffers are released as one unit through the record's
// own release routine.
func (bridge *Bridge) SystemInfo() (SystemInfo, error) {
	fn, err := bridge.table()
	if err != nil {
		return SystemInfo{}, err
	}

	rec := bridge.track.acquire(fn.systemInfo(), fn.freeSystemInfo)
	defer rec.release()
	if rec.addr == 0 {
		return SystemInfo{}, fmt.Errorf("nativebridge: system info: %w", ErrNoResult)
	}

	info := decodeSystemInfo(rec.addr)
	rec.markDecoded()
	return info, nil
}

// textOp runs one no-argument text-returning native call under the
// standard acquire/decode/release discipline.
func (bridge *Bridge) textOp(op string, call func(fn *natives) uintptr) (string, error) {
	fn, err := bridge.table()
	if err != nil {
		return "", fmt.Errorf("nativebridge: %s: %w", op, err)
	}

	out := bridge.track.acquire(call(fn), fn.freeString)
	defer out.release()
	return bridge.decodeOwnedText(out), nil
}

// decodeOwnedText copies a native-owned text buffer into a managed string
// and marks the buffer decoded. A null buffer decodes to "".
func (bridge *Bridge) decodeOwnedText(out *foreign) string {
	text := decodeText(out.addr)
	out.markDecoded()
	return text
}
