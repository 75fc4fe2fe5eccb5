// Package tensor implements the ExTensor core: an N-dimensional array with
// explicit row-major layout, a closed runtime dtype set, and view semantics
// over reference-counted buffers.
package tensor

// DataType is the runtime element type tag of a tensor.
//
// The set is closed: every switch over DataType in this package is
// exhaustive and panics on an unknown value, so adding a dtype is a
// compile-and-audit event rather than a silent fallthrough.
type DataType int

// Supported element types.
//
// Float16 is IEEE 754 binary16 (5 exponent bits); BFloat16 is the
// brain-float format (8 exponent bits, float32 range). Q4A and Q4B are
// block-quantized formats packing 32 elements per block; see the quant
// package for their codecs.
const (
	Float32 DataType = iota
	Float16
	BFloat16
	Int8
	Int32
	Int64
	Q4A
	Q4B
)

// BlockSize is the number of logical elements per quantized block.
const BlockSize = 32

// Byte widths of one quantized block: one scale byte plus the packed
// element payload (16 bytes at 4 bits/element for Q4A, 8 bytes at
// 2 bits/element for Q4B).
const (
	Q4ABlockBytes = 17
	Q4BBlockBytes = 9
)

// Size returns the byte size of one element.
// Panics for block-quantized dtypes, which have no per-element size;
// use BlockBytes for those.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float16, BFloat16:
		return 2
	case Int8:
		return 1
	case Int64:
		return 8
	case Q4A, Q4B:
		panic("tensor: " + dt.String() + " is block-quantized and has no per-element size")
	default:
		panic("tensor: unknown dtype")
	}
}

// BlockBytes returns the byte size of one 32-element block.
// Panics for dense dtypes.
func (dt DataType) BlockBytes() int {
	switch dt {
	case Q4A:
		return Q4ABlockBytes
	case Q4B:
		return Q4BBlockBytes
	case Float32, Float16, BFloat16, Int8, Int32, Int64:
		panic("tensor: " + dt.String() + " is not block-quantized")
	default:
		panic("tensor: unknown dtype")
	}
}

// IsQuantized reports whether the dtype is a block-quantized format.
func (dt DataType) IsQuantized() bool {
	switch dt {
	case Q4A, Q4B:
		return true
	case Float32, Float16, BFloat16, Int8, Int32, Int64:
		return false
	default:
		panic("tensor: unknown dtype")
	}
}

// IsFloat reports whether the dtype is a dense floating-point format.
func (dt DataType) IsFloat() bool {
	switch dt {
	case Float32, Float16, BFloat16:
		return true
	case Int8, Int32, Int64, Q4A, Q4B:
		return false
	default:
		panic("tensor: unknown dtype")
	}
}

// IsInt reports whether the dtype is a dense integer format.
func (dt DataType) IsInt() bool {
	switch dt {
	case Int8, Int32, Int64:
		return true
	case Float32, Float16, BFloat16, Q4A, Q4B:
		return false
	default:
		panic("tensor: unknown dtype")
	}
}

// String returns a human-readable name for the dtype.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	case Int8:
		return "int8"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Q4A:
		return "q4a"
	case Q4B:
		return "q4b"
	default:
		return "unknown"
	}
}
