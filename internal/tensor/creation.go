package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// FromFloat32 creates a Float32 tensor with the given data, copied.
func FromFloat32(data []float32, shape Shape) (*ExTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := New(shape, Float32)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromInt32 creates an Int32 tensor with the given data, copied.
func FromInt32(data []int32, shape Shape) (*ExTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := New(shape, Int32)
	if err != nil {
		return nil, err
	}
	copy(t.AsInt32(), data)
	return t, nil
}

// FromInt64 creates an Int64 tensor with the given data, copied.
func FromInt64(data []int64, shape Shape) (*ExTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := New(shape, Int64)
	if err != nil {
		return nil, err
	}
	copy(t.AsInt64(), data)
	return t, nil
}

// Scalar creates a 0-d Float32 tensor holding one value.
func Scalar(v float32) *ExTensor {
	t := mustNew(Shape{}, Float32)
	t.storeF64(0, float64(v))
	return t
}

// Zeros creates a zero-filled dense tensor.
func Zeros(shape Shape, dtype DataType) (*ExTensor, error) {
	if dtype.IsQuantized() {
		return nil, &DTypeError{Op: "zeros", A: dtype, B: dtype, Reason: "quantized tensors are produced by the codec API"}
	}
	return New(shape, dtype)
}

// Ones creates a one-filled dense tensor.
func Ones(shape Shape, dtype DataType) (*ExTensor, error) {
	return Full(shape, dtype, 1)
}

// Full creates a dense tensor filled with a value.
func Full(shape Shape, dtype DataType, value float64) (*ExTensor, error) {
	t, err := Zeros(shape, dtype)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.NumElements(); i++ {
		t.storeF64(i, value)
	}
	return t, nil
}

// ZerosLike creates a zero tensor with the same shape and dtype.
func ZerosLike(t *ExTensor) *ExTensor {
	out, err := Zeros(t.shape, t.dtype)
	if err != nil {
		panic(err) // shape/dtype come from an existing tensor
	}
	return out
}

// OnesLike creates a one-filled tensor with the same shape and dtype.
func OnesLike(t *ExTensor) *ExTensor {
	out, err := Ones(t.shape, t.dtype)
	if err != nil {
		panic(err)
	}
	return out
}

// Arange creates a 1-D Float32 tensor [start, end) with step 1.
func Arange(start, end float32) (*ExTensor, error) {
	n := int(end - start)
	if n <= 0 {
		return nil, fmt.Errorf("arange: end %v must be greater than start %v", end, start)
	}
	t, err := New(Shape{n}, Float32)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = start + float32(i)
	}
	return t, nil
}

// Randn creates a Float32 tensor with values drawn from a standard
// normal distribution using the Box-Muller transform.
// Uses math/rand intentionally: reproducibility matters more than
// cryptographic strength for initialization.
func Randn(shape Shape, rng *rand.Rand) (*ExTensor, error) {
	t, err := New(shape, Float32)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	for i := 0; i < len(data); i += 2 {
		// Float64 returns values in [0, 1); shift to (0, 1] so the log
		// never sees zero.
		u1 := 1 - rng.Float64()
		u2 := rng.Float64()
		r := math.Sqrt(-2.0 * math.Log(u1))
		data[i] = float32(r * math.Cos(2.0*math.Pi*u2))
		if i+1 < len(data) {
			data[i+1] = float32(r * math.Sin(2.0*math.Pi*u2))
		}
	}
	return t, nil
}
