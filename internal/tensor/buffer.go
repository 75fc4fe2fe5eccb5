package tensor

import "sync/atomic"

// tensorBuffer is a reference-counted contiguous byte region.
//
// Exactly one ExTensor logically owns a buffer; views taken from it
// (transpose, permute, slice, zero-copy reshape) hold additional
// references. The longest holder rule: the buffer stays alive until the
// last referencing tensor releases it, so a view never outlives its
// backing memory.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
}

// newTensorBuffer allocates a zeroed buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{data: make([]byte, size)}
	buf.refCount.Store(1)
	return buf
}

// addRef registers another holder (view creation, clone).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release drops one holder and frees the memory when none remain.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.data = nil
	}
}

// isUnique reports whether a single tensor references the buffer.
// In-place mutation is permitted only in that state.
func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}
