package tensor

import "fmt"

// Shape represents the dimension sizes of a tensor.
// An empty Shape denotes a logical scalar with one element.
type Shape []int

// NumElements returns the total number of elements (product of dims).
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is strictly positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal reports whether two shapes have the same rank and sizes.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides in element units.
//
// The strides slice is allocated to its final length up front and then
// filled by direct index from the last dimension backward; allocation
// and fill share one index space. Interleaving reverse-indexed writes
// with forward incremental growth is exactly the defect this layout
// prevents.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}
	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes aligns two shapes from the rightmost dimension and
// returns the broadcast result shape.
//
// Aligned dimensions are compatible when equal or when either is 1
// (stretched to the other); missing leading dimensions count as 1.
// Any other pairing yields a ShapeError naming both shapes.
func BroadcastShapes(a, b Shape) (Shape, error) {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aDim, bDim := 1, 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
		case bDim == 1:
			result[maxLen-1-i] = aDim
		default:
			return nil, &ShapeError{Op: "broadcast", A: a.Clone(), B: b.Clone()}
		}
	}
	return result, nil
}

// stridesEqual reports whether two stride slices are identical.
func stridesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
