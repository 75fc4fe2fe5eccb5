package tensor

import (
	"encoding/binary"
	"math"

	bfloat16 "github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"
)

// loadF64 reads the element at a buffer offset (in element units) and
// widens it to float64. The dtype switch is exhaustive over the dense
// members of the closed dtype set.
func (t *ExTensor) loadF64(elemOff int) float64 {
	data := t.buffer.data
	switch t.dtype {
	case Float32:
		bits := binary.LittleEndian.Uint32(data[elemOff*4:])
		return float64(math.Float32frombits(bits))
	case Float16:
		bits := binary.LittleEndian.Uint16(data[elemOff*2:])
		return float64(float16.Frombits(bits).Float32())
	case BFloat16:
		bits := binary.LittleEndian.Uint16(data[elemOff*2:])
		return float64(bfloat16.ToFloat32(bfloat16.BF16(bits)))
	case Int8:
		return float64(int8(data[elemOff]))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(data[elemOff*4:])))
	case Int64:
		return float64(int64(binary.LittleEndian.Uint64(data[elemOff*8:])))
	case Q4A, Q4B:
		panic("tensor: quantized tensors have no per-element load")
	default:
		panic("tensor: unknown dtype")
	}
}

// storeF64 narrows a float64 to the tensor's dtype and writes it at a
// buffer offset in element units.
func (t *ExTensor) storeF64(elemOff int, v float64) {
	data := t.buffer.data
	switch t.dtype {
	case Float32:
		binary.LittleEndian.PutUint32(data[elemOff*4:], math.Float32bits(float32(v)))
	case Float16:
		binary.LittleEndian.PutUint16(data[elemOff*2:], float16.Fromfloat32(float32(v)).Bits())
	case BFloat16:
		binary.LittleEndian.PutUint16(data[elemOff*2:], uint16(bfloat16.FromFloat32(float32(v))))
	case Int8:
		data[elemOff] = byte(int8(v))
	case Int32:
		binary.LittleEndian.PutUint32(data[elemOff*4:], uint32(int32(v)))
	case Int64:
		binary.LittleEndian.PutUint64(data[elemOff*8:], uint64(int64(v)))
	case Q4A, Q4B:
		panic("tensor: quantized tensors have no per-element store")
	default:
		panic("tensor: unknown dtype")
	}
}

// loadI64 reads an integer element without a float round trip.
func (t *ExTensor) loadI64(elemOff int) int64 {
	data := t.buffer.data
	switch t.dtype {
	case Int8:
		return int64(int8(data[elemOff]))
	case Int32:
		return int64(int32(binary.LittleEndian.Uint32(data[elemOff*4:])))
	case Int64:
		return int64(binary.LittleEndian.Uint64(data[elemOff*8:]))
	default:
		panic("tensor: loadI64 on non-integer dtype " + t.dtype.String())
	}
}

// storeI64 writes an integer element without a float round trip.
func (t *ExTensor) storeI64(elemOff int, v int64) {
	data := t.buffer.data
	switch t.dtype {
	case Int8:
		data[elemOff] = byte(int8(v))
	case Int32:
		binary.LittleEndian.PutUint32(data[elemOff*4:], uint32(int32(v)))
	case Int64:
		binary.LittleEndian.PutUint64(data[elemOff*8:], uint64(v))
	default:
		panic("tensor: storeI64 on non-integer dtype " + t.dtype.String())
	}
}

// Float32s returns the tensor's elements converted to a fresh []float32
// in row-major order. Works for any dense dtype, including strided
// views; fails for quantized dtypes, which must be decoded instead.
func (t *ExTensor) Float32s() ([]float32, error) {
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "float32s", A: t.dtype, B: t.dtype, Reason: "quantized tensors must be decoded first"}
	}
	out := make([]float32, t.NumElements())
	it := newIndexIter(t.shape)
	i := 0
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		off := t.offset
		for d, x := range idx {
			off += x * t.strides[d]
		}
		out[i] = float32(t.loadF64(off))
		i++
	}
	return out, nil
}

// Cast returns a fresh tensor with the elements converted to the target
// dense dtype. No implicit promotion happens anywhere else; this is the
// explicit conversion point.
func (t *ExTensor) Cast(dtype DataType) (*ExTensor, error) {
	if t.dtype.IsQuantized() || dtype.IsQuantized() {
		return nil, &DTypeError{Op: "cast", A: t.dtype, B: dtype, Reason: "quantized dtypes convert through the codec API"}
	}
	out, err := New(t.shape, dtype)
	if err != nil {
		return nil, err
	}
	it := newIndexIter(t.shape)
	i := 0
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		off := t.offset
		for d, x := range idx {
			off += x * t.strides[d]
		}
		out.storeF64(i, t.loadF64(off))
		i++
	}
	return out, nil
}
