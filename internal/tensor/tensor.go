package tensor

import (
	"fmt"
	"unsafe"
)

// ExTensor is an N-dimensional array owning (or viewing) a contiguous
// byte buffer, with explicit shape, strides in element units, and a
// runtime dtype tag.
//
// Freshly constructed tensors are C-contiguous (row-major). Transpose,
// permute, and slice return views sharing the buffer with permuted
// shape/stride pairs; operations that require dense memory must
// materialize a contiguous copy explicitly via Contiguous.
type ExTensor struct {
	buffer  *tensorBuffer
	shape   Shape
	strides []int // element units
	dtype   DataType
	offset  int // element offset into the buffer (views only)
}

// RequiredBytes returns the buffer size needed for a shape/dtype pair:
// numel * element size for dense dtypes, ceil(numel/32) * block bytes
// for quantized dtypes. Fails on product overflow.
func RequiredBytes(shape Shape, dtype DataType) (int, error) {
	numel := 1
	for _, dim := range shape {
		numel *= dim
		if numel < 0 {
			return 0, &AllocationError{Shape: shape.Clone(), DType: dtype, Cause: "element count overflows int"}
		}
	}
	var bytes int
	if dtype.IsQuantized() {
		blocks := (numel + BlockSize - 1) / BlockSize
		bytes = blocks * dtype.BlockBytes()
	} else {
		bytes = numel * dtype.Size()
	}
	if bytes < 0 {
		return 0, &AllocationError{Shape: shape.Clone(), DType: dtype, Cause: "byte size overflows int"}
	}
	return bytes, nil
}

// New allocates a zero-initialized tensor with the given shape and dtype.
func New(shape Shape, dtype DataType) (*ExTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, &AllocationError{Shape: shape.Clone(), DType: dtype, Cause: err.Error()}
	}
	byteSize, err := RequiredBytes(shape, dtype)
	if err != nil {
		return nil, err
	}
	return &ExTensor{
		buffer:  newTensorBuffer(byteSize),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		dtype:   dtype,
	}, nil
}

// view returns a non-owning tensor over the same buffer.
func (t *ExTensor) view(shape Shape, strides []int, offset int) *ExTensor {
	t.buffer.addRef()
	return &ExTensor{
		buffer:  t.buffer,
		shape:   shape,
		strides: strides,
		dtype:   t.dtype,
		offset:  offset,
	}
}

// Shape returns the tensor's shape. Callers must not mutate it.
func (t *ExTensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's strides in element units.
func (t *ExTensor) Strides() []int {
	return t.strides
}

// DType returns the tensor's element type.
func (t *ExTensor) DType() DataType {
	return t.dtype
}

// NumElements returns the total number of logical elements.
func (t *ExTensor) NumElements() int {
	return t.shape.NumElements()
}

// ByteSize returns the size of the backing buffer region in bytes.
func (t *ExTensor) ByteSize() int {
	return len(t.buffer.data)
}

// IsContiguous reports whether the tensor's strides match the canonical
// row-major layout for its shape and it starts at the buffer origin.
func (t *ExTensor) IsContiguous() bool {
	return t.offset == 0 && stridesEqual(t.strides, t.shape.ComputeStrides())
}

// IsShared reports whether other tensors reference the same buffer.
func (t *ExTensor) IsShared() bool {
	return !t.buffer.isUnique()
}

// IsView reports whether the tensor is anything other than a sole,
// dense owner of its buffer.
func (t *ExTensor) IsView() bool {
	return !t.IsContiguous() || t.IsShared()
}

// Release drops this tensor's reference to its buffer. Using the tensor
// after Release is a programming error.
func (t *ExTensor) Release() {
	t.buffer.release()
}

// Data returns the raw bytes of the tensor's buffer region.
// Requires a contiguous tensor.
func (t *ExTensor) Data() ([]byte, error) {
	if !t.IsContiguous() {
		return nil, &NotContiguousError{Op: "data"}
	}
	return t.buffer.data, nil
}

// AsFloat32 reinterprets the buffer as []float32.
// Panics on dtype mismatch or a non-contiguous view; both are
// programming errors at this level of the API.
func (t *ExTensor) AsFloat32() []float32 {
	t.mustDense(Float32, "AsFloat32")
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.buffer.data[0])), t.NumElements())
}

// AsInt8 reinterprets the buffer as []int8.
func (t *ExTensor) AsInt8() []int8 {
	t.mustDense(Int8, "AsInt8")
	return unsafe.Slice((*int8)(unsafe.Pointer(&t.buffer.data[0])), t.NumElements())
}

// AsInt32 reinterprets the buffer as []int32.
func (t *ExTensor) AsInt32() []int32 {
	t.mustDense(Int32, "AsInt32")
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.buffer.data[0])), t.NumElements())
}

// AsInt64 reinterprets the buffer as []int64.
func (t *ExTensor) AsInt64() []int64 {
	t.mustDense(Int64, "AsInt64")
	return unsafe.Slice((*int64)(unsafe.Pointer(&t.buffer.data[0])), t.NumElements())
}

// AsUint16 reinterprets the buffer as []uint16 raw bits.
// Used for Float16 and BFloat16 storage.
func (t *ExTensor) AsUint16() []uint16 {
	if t.dtype != Float16 && t.dtype != BFloat16 {
		panic(fmt.Sprintf("tensor: dtype is %s, not a 16-bit float", t.dtype))
	}
	if !t.IsContiguous() {
		panic("tensor: AsUint16 requires a contiguous tensor")
	}
	if t.NumElements() == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&t.buffer.data[0])), t.NumElements())
}

func (t *ExTensor) mustDense(want DataType, op string) {
	if t.dtype != want {
		panic(fmt.Sprintf("tensor: dtype is %s, not %s", t.dtype, want))
	}
	if !t.IsContiguous() {
		panic("tensor: " + op + " requires a contiguous tensor")
	}
}

// flatOffset converts a multi-index into a buffer element offset,
// checking each coordinate against the shape.
func (t *ExTensor) flatOffset(indices []int) (int, error) {
	if len(indices) != len(t.shape) {
		return 0, &BoundsError{Index: append([]int(nil), indices...), Shape: t.shape.Clone()}
	}
	off := t.offset
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			return 0, &BoundsError{Index: append([]int(nil), indices...), Shape: t.shape.Clone()}
		}
		off += idx * t.strides[i]
	}
	return off, nil
}

// At returns the element at the given multi-index as a float64.
// Integer dtypes are widened; quantized dtypes cannot be indexed and
// must be decoded first.
func (t *ExTensor) At(indices ...int) (float64, error) {
	if t.dtype.IsQuantized() {
		return 0, &DTypeError{Op: "at", A: t.dtype, B: t.dtype, Reason: "quantized tensors must be decoded before element access"}
	}
	off, err := t.flatOffset(indices)
	if err != nil {
		return 0, err
	}
	return t.loadF64(off), nil
}

// SetAt stores a value at the given multi-index, converting to the
// tensor's dtype.
func (t *ExTensor) SetAt(value float64, indices ...int) error {
	if t.dtype.IsQuantized() {
		return &DTypeError{Op: "set", A: t.dtype, B: t.dtype, Reason: "quantized tensors must be decoded before element access"}
	}
	off, err := t.flatOffset(indices)
	if err != nil {
		return err
	}
	t.storeF64(off, value)
	return nil
}

// Item returns the single element of a scalar (numel == 1) tensor.
func (t *ExTensor) Item() (float64, error) {
	if t.NumElements() != 1 {
		return 0, &ShapeError{Op: "item", A: t.shape.Clone()}
	}
	if t.dtype.IsQuantized() {
		return 0, &DTypeError{Op: "item", A: t.dtype, B: t.dtype, Reason: "quantized tensors must be decoded before element access"}
	}
	return t.loadF64(t.offset), nil
}

// Clone returns a deep, contiguous copy of the tensor.
func (t *ExTensor) Clone() *ExTensor {
	if t.IsContiguous() {
		out := mustNew(t.shape, t.dtype)
		copy(out.buffer.data, t.buffer.data)
		return out
	}
	return t.materialize()
}

// Contiguous returns the tensor itself when already dense, or a fresh
// row-major copy otherwise. This is the explicit materialization step
// required before codec encodes and raw buffer access.
func (t *ExTensor) Contiguous() *ExTensor {
	if t.IsContiguous() {
		return t
	}
	return t.materialize()
}

// materialize copies a (generally strided) tensor into fresh row-major
// memory.
func (t *ExTensor) materialize() *ExTensor {
	if t.dtype.IsQuantized() {
		// Quantized tensors never have views; nothing to gather.
		panic("tensor: quantized tensors are always contiguous")
	}
	out := mustNew(t.shape, t.dtype)
	it := newIndexIter(t.shape)
	dst := 0
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		src := t.offset
		for i, x := range idx {
			src += x * t.strides[i]
		}
		out.storeF64(dst, t.loadF64(src))
		dst++
	}
	return out
}

// mustNew allocates or panics; for internal use where the shape and
// dtype were already validated.
func mustNew(shape Shape, dtype DataType) *ExTensor {
	out, err := New(shape, dtype)
	if err != nil {
		panic(err)
	}
	return out
}

// String returns a short description of the tensor.
func (t *ExTensor) String() string {
	return fmt.Sprintf("ExTensor[%s]%v", t.dtype, []int(t.shape))
}
