package nativebridge

import "sync/atomic"

// releaseFunc reclaims one native allocation. Every native function that
// hands a buffer across the boundary names, as part of its contract, the
// exact routine that must free it; mixing allocators corrupts the native
// heap.
type releaseFunc func(addr uintptr)

// Foreign buffer states. A buffer stays readable in produced and decoded;
// released is terminal.
const (
	bufferProduced int32 = iota
	bufferDecoded
	bufferReleased
)

// tracker counts native buffers that have crossed the boundary and are not
// yet released. The count must be zero between facade calls; tests use it
// as a leak probe.
type tracker struct {
	outstanding atomic.Int64
}

// acquire takes ownership of a native-allocated buffer. A zero address is
// a defined "no value" outcome: the returned handle is already released
// and its release is a no-op.
func (t *tracker) acquire(addr uintptr, release releaseFunc) *foreign {
	f := &foreign{addr: addr, free: release, tracker: t}
	if addr == 0 {
		f.state.Store(bufferReleased)
		return f
	}
	t.outstanding.Add(1)
	return f
}

// foreign is a native-heap buffer owned by the caller side until released.
type foreign struct {
	addr    uintptr
	free    releaseFunc
	tracker *tracker
	state   atomic.Int32
}

// markDecoded records that the buffer's contents were copied into managed
// memory. The buffer remains readable until release.
func (f *foreign) markDecoded() {
	f.state.CompareAndSwap(bufferProduced, bufferDecoded)
}

// release frees the buffer through its contract routine. Safe to call more
// than once and safe on a null buffer; exactly one call reaches the native
// side.
func (f *foreign) release() {
	if f == nil {
		return
	}
	for {
		state := f.state.Load()
		if state == bufferReleased {
			return
		}
		if f.state.CompareAndSwap(state, bufferReleased) {
			f.free(f.addr)
			f.tracker.outstanding.Add(-1)
			return
		}
	}
}
