package tensor

import "fmt"

// Reshape returns a tensor viewing the same buffer with a new shape.
//
// The element count must be preserved; otherwise a ShapeError naming
// both shapes is returned. Reshaping a non-contiguous view would need a
// data copy, which this package never does implicitly: callers get a
// NotContiguousError and must call Contiguous first.
func (t *ExTensor) Reshape(newShape Shape) (*ExTensor, error) {
	if err := newShape.Validate(); err != nil {
		return nil, &ShapeError{Op: "reshape", A: newShape.Clone(), Detail: err.Error()}
	}
	if newShape.NumElements() != t.NumElements() {
		return nil, &ShapeError{
			Op: "reshape", A: t.shape.Clone(), B: newShape.Clone(),
			Detail: fmt.Sprintf("cannot reshape %v (%d elements) to %v (%d elements)",
				t.shape, t.NumElements(), newShape, newShape.NumElements()),
		}
	}
	if t.dtype.IsQuantized() {
		// Quantized buffers are block-packed; only the logical shape changes.
		q := t.view(newShape.Clone(), newShape.ComputeStrides(), 0)
		return q, nil
	}
	if !t.IsContiguous() {
		return nil, &NotContiguousError{Op: "reshape"}
	}
	return t.view(newShape.Clone(), newShape.ComputeStrides(), t.offset), nil
}

// Transpose returns a view with two dimensions swapped.
// The result shares the buffer and is generally non-contiguous.
func (t *ExTensor) Transpose(dim0, dim1 int) (*ExTensor, error) {
	n := len(t.shape)
	if dim0 < 0 || dim0 >= n || dim1 < 0 || dim1 >= n {
		return nil, &BoundsError{Index: []int{dim0, dim1}, Shape: t.shape.Clone()}
	}
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "transpose", A: t.dtype, B: t.dtype, Reason: "quantized tensors must be decoded before layout transforms"}
	}
	shape := t.shape.Clone()
	strides := append([]int(nil), t.strides...)
	shape[dim0], shape[dim1] = shape[dim1], shape[dim0]
	strides[dim0], strides[dim1] = strides[dim1], strides[dim0]
	return t.view(shape, strides, t.offset), nil
}

// Permute returns a view with dimensions reordered so that
// result.shape[i] = t.shape[dims[i]]. No data is copied.
func (t *ExTensor) Permute(dims ...int) (*ExTensor, error) {
	if len(dims) != len(t.shape) {
		return nil, &ShapeError{
			Op: "permute", A: t.shape.Clone(),
			Detail: fmt.Sprintf("permutation %v does not match rank %d", dims, len(t.shape)),
		}
	}
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "permute", A: t.dtype, B: t.dtype, Reason: "quantized tensors must be decoded before layout transforms"}
	}
	seen := make([]bool, len(dims))
	for _, d := range dims {
		if d < 0 || d >= len(t.shape) || seen[d] {
			return nil, &ShapeError{
				Op: "permute", A: t.shape.Clone(),
				Detail: fmt.Sprintf("%v is not a valid permutation of rank %d", dims, len(t.shape)),
			}
		}
		seen[d] = true
	}
	shape := make(Shape, len(dims))
	strides := make([]int, len(dims))
	for i, d := range dims {
		shape[i] = t.shape[d]
		strides[i] = t.strides[d]
	}
	return t.view(shape, strides, t.offset), nil
}

// Slice returns a view restricted to [start, end) along one dimension.
func (t *ExTensor) Slice(dim, start, end int) (*ExTensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, &BoundsError{Index: []int{dim}, Shape: t.shape.Clone()}
	}
	if start < 0 || end > t.shape[dim] || start >= end {
		return nil, &BoundsError{Index: []int{start, end}, Shape: t.shape.Clone()}
	}
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "slice", A: t.dtype, B: t.dtype, Reason: "quantized tensors must be decoded before layout transforms"}
	}
	shape := t.shape.Clone()
	shape[dim] = end - start
	strides := append([]int(nil), t.strides...)
	return t.view(shape, strides, t.offset+start*t.strides[dim]), nil
}
