package tensor

import "math"

// Sum reduces all elements to a scalar (empty-shape) tensor.
func Sum(t *ExTensor) (*ExTensor, error) {
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "sum", A: t.dtype, B: t.dtype, Reason: "quantized operands must be decoded first"}
	}
	out, err := New(Shape{}, t.dtype)
	if err != nil {
		return nil, err
	}
	if t.dtype.IsInt() {
		var acc int64
		t.forEachOffset(func(off int) {
			acc += t.loadI64(off)
		})
		out.storeI64(0, acc)
		return out, nil
	}
	var acc float64
	t.forEachOffset(func(off int) {
		acc += t.loadF64(off)
	})
	out.storeF64(0, acc)
	return out, nil
}

// Mean reduces all elements to their arithmetic mean.
func Mean(t *ExTensor) (*ExTensor, error) {
	if !t.dtype.IsFloat() {
		return nil, &DTypeError{Op: "mean", A: t.dtype, B: t.dtype, Reason: "requires a floating dtype"}
	}
	s, err := Sum(t)
	if err != nil {
		return nil, err
	}
	s.storeF64(0, s.loadF64(0)/float64(t.NumElements()))
	return s, nil
}

// Max reduces all elements to their maximum.
func Max(t *ExTensor) (*ExTensor, error) {
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "max", A: t.dtype, B: t.dtype, Reason: "quantized operands must be decoded first"}
	}
	out, err := New(Shape{}, t.dtype)
	if err != nil {
		return nil, err
	}
	if t.dtype.IsInt() {
		acc := int64(math.MinInt64)
		t.forEachOffset(func(off int) {
			if v := t.loadI64(off); v > acc {
				acc = v
			}
		})
		out.storeI64(0, acc)
		return out, nil
	}
	acc := math.Inf(-1)
	t.forEachOffset(func(off int) {
		if v := t.loadF64(off); v > acc {
			acc = v
		}
	})
	out.storeF64(0, acc)
	return out, nil
}

// SumDim sums along one dimension. With keepDim the reduced axis stays
// as size 1 (the shape broadcasting relies on during backward); without
// it the axis is dropped.
func SumDim(t *ExTensor, dim int, keepDim bool) (*ExTensor, error) {
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "sum_dim", A: t.dtype, B: t.dtype, Reason: "quantized operands must be decoded first"}
	}
	if dim < 0 || dim >= len(t.shape) {
		return nil, &BoundsError{Index: []int{dim}, Shape: t.shape.Clone()}
	}

	reduced := t.shape.Clone()
	reduced[dim] = 1
	out, err := New(reduced, t.dtype)
	if err != nil {
		return nil, err
	}
	outStrides := reduced.ComputeStrides()

	isInt := t.dtype.IsInt()
	it := newIndexIter(t.shape)
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		src := t.offset
		dst := 0
		for d, x := range idx {
			src += x * t.strides[d]
			if d != dim {
				dst += x * outStrides[d]
			}
		}
		if isInt {
			out.storeI64(dst, out.loadI64(dst)+t.loadI64(src))
		} else {
			out.storeF64(dst, out.loadF64(dst)+t.loadF64(src))
		}
	}

	if keepDim {
		return out, nil
	}
	squeezed := make(Shape, 0, len(reduced)-1)
	for d, size := range reduced {
		if d != dim {
			squeezed = append(squeezed, size)
		}
	}
	return out.Reshape(squeezed)
}

// forEachOffset visits the buffer offset of every element in row-major
// logical order.
func (t *ExTensor) forEachOffset(f func(off int)) {
	it := newIndexIter(t.shape)
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		off := t.offset
		for d, x := range idx {
			off += x * t.strides[d]
		}
		f(off)
	}
}
