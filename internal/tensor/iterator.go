package tensor

// indexIter walks every multi-index of a shape in row-major order.
// A scalar (empty) shape yields exactly one empty index.
type indexIter struct {
	shape Shape
	idx   []int
	cur   []int
	done  bool
}

func newIndexIter(shape Shape) *indexIter {
	return &indexIter{
		shape: shape,
		idx:   make([]int, len(shape)),
		cur:   make([]int, len(shape)),
	}
}

// Next returns the current multi-index and advances. The returned slice
// is reused between calls; callers must not retain it.
func (it *indexIter) Next() ([]int, bool) {
	if it.done {
		return nil, false
	}
	copy(it.cur, it.idx)
	// Odometer increment from the last axis.
	i := len(it.shape) - 1
	for ; i >= 0; i-- {
		it.idx[i]++
		if it.idx[i] < it.shape[i] {
			break
		}
		it.idx[i] = 0
	}
	if i < 0 {
		it.done = true
	}
	return it.cur, true
}

// broadcastStrides maps a tensor's strides onto a broadcast result
// shape: axes where the operand has size 1 (or is missing) get stride
// 0, so the single element is reused along that axis.
func broadcastStrides(shape Shape, strides []int, out Shape) []int {
	mapped := make([]int, len(out))
	offset := len(out) - len(shape)
	for i := range out {
		src := i - offset
		if src < 0 || shape[src] == 1 {
			mapped[i] = 0
		} else {
			mapped[i] = strides[src]
		}
	}
	return mapped
}
