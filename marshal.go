package nativebridge

import (
	"fmt"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// Native text is NUL-terminated; decoding scans are bounded so a missing
// terminator cannot run away.
const maxNativeTextLen = 1 << 20

// encodeText copies s into a caller-owned NUL-terminated buffer for the
// native side. The returned slice must be kept alive across the native
// call; the Go allocator reclaims it afterwards. Invalid UTF-8 and
// interior NUL are rejected before anything crosses the boundary.
func encodeText(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidEncoding)
	}
	if strings.ContainsRune(s, '\x00') {
		return nil, fmt.Errorf("%w: text contains NUL", ErrInvalidEncoding)
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf, nil
}

// encodeInt32Array copies values into a caller-owned contiguous buffer.
// Arrays are input-only in this protocol; the copy never outlives the
// call. An empty input encodes to a nil buffer (null pointer, count 0).
func encodeInt32Array(values []int32) []int32 {
	if len(values) == 0 {
		return nil
	}
	buf := make([]int32, len(values))
	copy(buf, values)
	return buf
}

func textPtr(buf []byte) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

func int32Ptr(buf []int32) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

// decodeText copies the NUL-terminated text at addr into a managed string.
// A zero address is the defined "no value" outcome and decodes to "";
// it is never dereferenced. The copy is independent of the native buffer,
// which may be released immediately after.
func decodeText(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	buf := make([]byte, 0, 64)
	for i := 0; i < maxNativeTextLen; i++ {
		ch := *(*byte)(unsafe.Pointer(addr + uintptr(i)))
		if ch == 0 {
			break
		}
		buf = append(buf, ch)
	}
	return string(buf)
}
