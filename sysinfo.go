package nativebridge

import "unsafe"

// SystemInfo is the managed copy of the native SystemInfo record.
type SystemInfo struct {
	Platform  string
	Version   string
	Timestamp int64
}

// rawSystemInfo mirrors the native record layout:
//
//	typedef struct {
//	    const char* platform;
//	    const char* version;
//	    int64_t     timestamp;
//	} SystemInfo;
//
// Field reads go through this mirror, so its size and offsets must match
// the native declaration exactly.
type rawSystemInfo struct {
	platform  uintptr
	version   uintptr
	timestamp int64
}

// Layout pins for rawSystemInfo. A pointer width other than 8 bytes, or
// any drift between this mirror and the native record, fails to compile.
var (
	_ [24]byte = [unsafe.Sizeof(rawSystemInfo{})]byte{}
	_ [0]byte  = [unsafe.Offsetof(rawSystemInfo{}.platform)]byte{}
	_ [8]byte  = [unsafe.Offsetof(rawSystemInfo{}.version)]byte{}
	_ [16]byte = [unsafe.Offsetof(rawSystemInfo{}.timestamp)]byte{}
)

// decodeSystemInfo copies every field of the record at addr, including the
// nested text buffers, into managed memory. The record and its nested
// buffers stay owned by the native side; the caller releases them as one
// unit afterwards.
func decodeSystemInfo(addr uintptr) SystemInfo {
	raw := (*rawSystemInfo)(unsafe.Pointer(addr))
	return SystemInfo{
		Platform:  decodeText(raw.platform),
		Version:   decodeText(raw.version),
		Timestamp: raw.timestamp,
	}
}
