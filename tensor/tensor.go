// Copyright 2025 The Extensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is the public surface of the ExTensor core: an
// N-dimensional array with explicit row-major layout, a closed runtime
// dtype set, broadcasting arithmetic, and view semantics.
//
// # Basic usage
//
//	x, err := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	if err != nil {
//	    // shape/data length mismatch
//	}
//	y, err := tensor.Add(x, x)
//
// Transpose, Permute, and Slice return views sharing the buffer;
// operations needing dense memory require an explicit Contiguous call.
package tensor

import (
	"math/rand"

	"github.com/extensor-ml/extensor/internal/tensor"
)

// Core types.
type (
	// ExTensor is the N-dimensional array type.
	ExTensor = tensor.ExTensor
	// Shape holds dimension sizes; empty means scalar.
	Shape = tensor.Shape
	// DataType tags the element type.
	DataType = tensor.DataType
)

// Error types surfaced by the core.
type (
	ShapeError         = tensor.ShapeError
	DTypeError         = tensor.DTypeError
	AllocationError    = tensor.AllocationError
	BoundsError        = tensor.BoundsError
	NotContiguousError = tensor.NotContiguousError
)

// The closed dtype set.
const (
	Float32  = tensor.Float32
	Float16  = tensor.Float16
	BFloat16 = tensor.BFloat16
	Int8     = tensor.Int8
	Int32    = tensor.Int32
	Int64    = tensor.Int64
	Q4A      = tensor.Q4A
	Q4B      = tensor.Q4B
)

// Block-quantization layout constants.
const (
	BlockSize     = tensor.BlockSize
	Q4ABlockBytes = tensor.Q4ABlockBytes
	Q4BBlockBytes = tensor.Q4BBlockBytes
)

// New allocates a zero-initialized tensor.
func New(shape Shape, dtype DataType) (*ExTensor, error) {
	return tensor.New(shape, dtype)
}

// FromFloat32 creates a Float32 tensor from a slice, copied.
func FromFloat32(data []float32, shape Shape) (*ExTensor, error) {
	return tensor.FromFloat32(data, shape)
}

// FromInt32 creates an Int32 tensor from a slice, copied.
func FromInt32(data []int32, shape Shape) (*ExTensor, error) {
	return tensor.FromInt32(data, shape)
}

// FromInt64 creates an Int64 tensor from a slice, copied.
func FromInt64(data []int64, shape Shape) (*ExTensor, error) {
	return tensor.FromInt64(data, shape)
}

// Scalar creates a 0-d Float32 tensor.
func Scalar(v float32) *ExTensor { return tensor.Scalar(v) }

// Zeros creates a zero-filled dense tensor.
func Zeros(shape Shape, dtype DataType) (*ExTensor, error) { return tensor.Zeros(shape, dtype) }

// Ones creates a one-filled dense tensor.
func Ones(shape Shape, dtype DataType) (*ExTensor, error) { return tensor.Ones(shape, dtype) }

// Full creates a dense tensor filled with a value.
func Full(shape Shape, dtype DataType, value float64) (*ExTensor, error) {
	return tensor.Full(shape, dtype, value)
}

// Arange creates a 1-D Float32 tensor covering [start, end).
func Arange(start, end float32) (*ExTensor, error) { return tensor.Arange(start, end) }

// Randn creates a Float32 tensor of standard normal samples.
func Randn(shape Shape, rng *rand.Rand) (*ExTensor, error) { return tensor.Randn(shape, rng) }

// ZerosLike creates a zero tensor with the same shape and dtype.
func ZerosLike(t *ExTensor) *ExTensor { return tensor.ZerosLike(t) }

// OnesLike creates a one-filled tensor with the same shape and dtype.
func OnesLike(t *ExTensor) *ExTensor { return tensor.OnesLike(t) }

// BroadcastShapes returns the broadcast result of two shapes.
func BroadcastShapes(a, b Shape) (Shape, error) { return tensor.BroadcastShapes(a, b) }

// Arithmetic, reductions, and matmul.

// Add returns a + b with broadcasting.
func Add(a, b *ExTensor) (*ExTensor, error) { return tensor.Add(a, b) }

// Sub returns a - b with broadcasting.
func Sub(a, b *ExTensor) (*ExTensor, error) { return tensor.Sub(a, b) }

// Mul returns the elementwise product with broadcasting.
func Mul(a, b *ExTensor) (*ExTensor, error) { return tensor.Mul(a, b) }

// Div returns a / b with broadcasting.
func Div(a, b *ExTensor) (*ExTensor, error) { return tensor.Div(a, b) }

// Neg returns -t.
func Neg(t *ExTensor) (*ExTensor, error) { return tensor.Neg(t) }

// AddScalar returns t + s elementwise.
func AddScalar(t *ExTensor, s float64) (*ExTensor, error) { return tensor.AddScalar(t, s) }

// MulScalar returns t * s elementwise.
func MulScalar(t *ExTensor, s float64) (*ExTensor, error) { return tensor.MulScalar(t, s) }

// PowScalar returns t ** p elementwise.
func PowScalar(t *ExTensor, p float64) (*ExTensor, error) { return tensor.PowScalar(t, p) }

// Exp returns e**t elementwise.
func Exp(t *ExTensor) (*ExTensor, error) { return tensor.Exp(t) }

// Log returns the natural logarithm elementwise.
func Log(t *ExTensor) (*ExTensor, error) { return tensor.Log(t) }

// Sqrt returns the square root elementwise.
func Sqrt(t *ExTensor) (*ExTensor, error) { return tensor.Sqrt(t) }

// Sign returns -1, 0, or 1 elementwise.
func Sign(t *ExTensor) (*ExTensor, error) { return tensor.Sign(t) }

// ReLU returns max(x, 0) elementwise.
func ReLU(t *ExTensor) (*ExTensor, error) { return tensor.ReLU(t) }

// Sigmoid returns the logistic function elementwise.
func Sigmoid(t *ExTensor) (*ExTensor, error) { return tensor.Sigmoid(t) }

// Tanh returns the hyperbolic tangent elementwise.
func Tanh(t *ExTensor) (*ExTensor, error) { return tensor.Tanh(t) }

// Sum reduces all elements to a scalar tensor.
func Sum(t *ExTensor) (*ExTensor, error) { return tensor.Sum(t) }

// Mean reduces all elements to their mean.
func Mean(t *ExTensor) (*ExTensor, error) { return tensor.Mean(t) }

// Max reduces all elements to their maximum.
func Max(t *ExTensor) (*ExTensor, error) { return tensor.Max(t) }

// SumDim sums along one dimension.
func SumDim(t *ExTensor, dim int, keepDim bool) (*ExTensor, error) {
	return tensor.SumDim(t, dim, keepDim)
}

// MatMul multiplies matrices with batch broadcasting.
func MatMul(a, b *ExTensor) (*ExTensor, error) { return tensor.MatMul(a, b) }
