package tensor

import "fmt"

// ShapeError reports a dimension mismatch in reshape, broadcasting, or
// matmul. Both operand shapes are carried as fields so callers can log
// a precise diagnostic; Detail holds the rendered message.
type ShapeError struct {
	Op     string
	A      Shape
	B      Shape
	Detail string
}

func (e *ShapeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	if e.B == nil {
		return fmt.Sprintf("%s: invalid shape %v", e.Op, e.A)
	}
	return fmt.Sprintf("%s: cannot broadcast shapes %v and %v", e.Op, e.A, e.B)
}

// DTypeError reports an operation over mismatched or unsupported dtypes.
// There is no implicit promotion; callers must cast explicitly.
type DTypeError struct {
	Op     string
	A      DataType
	B      DataType
	Reason string
}

func (e *DTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (got %s vs %s)", e.Op, e.Reason, e.A, e.B)
	}
	return fmt.Sprintf("%s: dtype mismatch: %s vs %s", e.Op, e.A, e.B)
}

// AllocationError reports that a buffer size could not be computed or
// allocated for the given shape and dtype.
type AllocationError struct {
	Shape Shape
	DType DataType
	Cause string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("alloc: cannot allocate %s tensor with shape %v: %s", e.DType, e.Shape, e.Cause)
}

// BoundsError reports out-of-range indexing.
type BoundsError struct {
	Index []int
	Shape Shape
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("index %v out of bounds for shape %v", e.Index, e.Shape)
}

// NotContiguousError reports that an operation requiring dense row-major
// memory received a non-contiguous view. Callers must materialize a
// contiguous copy first via Contiguous.
type NotContiguousError struct {
	Op string
}

func (e *NotContiguousError) Error() string {
	return fmt.Sprintf("%s: tensor is not contiguous; call Contiguous() first", e.Op)
}
