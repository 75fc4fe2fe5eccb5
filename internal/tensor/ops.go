package tensor

import "math"

// binaryOp applies a broadcasting elementwise operation. Both operands
// must share one dense dtype; there is no implicit promotion.
func binaryOp(name string, a, b *ExTensor, ff func(x, y float64) float64, fi func(x, y int64) int64) (*ExTensor, error) {
	if a.dtype.IsQuantized() || b.dtype.IsQuantized() {
		return nil, &DTypeError{Op: name, A: a.dtype, B: b.dtype, Reason: "quantized operands must be decoded first"}
	}
	if a.dtype != b.dtype {
		return nil, &DTypeError{Op: name, A: a.dtype, B: b.dtype}
	}
	if a.dtype.IsInt() && fi == nil {
		return nil, &DTypeError{Op: name, A: a.dtype, B: b.dtype, Reason: "requires a floating dtype"}
	}
	outShape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		shapeErr := err.(*ShapeError)
		shapeErr.Op = name
		return nil, shapeErr
	}
	out, err := New(outShape, a.dtype)
	if err != nil {
		return nil, err
	}

	// Fast path: same shape, both dense float32.
	if a.dtype == Float32 && a.shape.Equal(b.shape) && a.IsContiguous() && b.IsContiguous() {
		ad, bd, od := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		for i := range od {
			od[i] = float32(ff(float64(ad[i]), float64(bd[i])))
		}
		return out, nil
	}

	aStr := broadcastStrides(a.shape, a.strides, outShape)
	bStr := broadcastStrides(b.shape, b.strides, outShape)
	isInt := a.dtype.IsInt()

	it := newIndexIter(outShape)
	dst := 0
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		aOff, bOff := a.offset, b.offset
		for d, x := range idx {
			aOff += x * aStr[d]
			bOff += x * bStr[d]
		}
		if isInt {
			out.storeI64(dst, fi(a.loadI64(aOff), b.loadI64(bOff)))
		} else {
			out.storeF64(dst, ff(a.loadF64(aOff), b.loadF64(bOff)))
		}
		dst++
	}
	return out, nil
}

// unaryOp applies an elementwise function over a floating tensor.
func unaryOp(name string, t *ExTensor, f func(x float64) float64) (*ExTensor, error) {
	if t.dtype.IsQuantized() {
		return nil, &DTypeError{Op: name, A: t.dtype, B: t.dtype, Reason: "quantized operands must be decoded first"}
	}
	if !t.dtype.IsFloat() {
		return nil, &DTypeError{Op: name, A: t.dtype, B: t.dtype, Reason: "requires a floating dtype"}
	}
	out, err := New(t.shape, t.dtype)
	if err != nil {
		return nil, err
	}
	it := newIndexIter(t.shape)
	dst := 0
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		off := t.offset
		for d, x := range idx {
			off += x * t.strides[d]
		}
		out.storeF64(dst, f(t.loadF64(off)))
		dst++
	}
	return out, nil
}

// Add returns a + b with broadcasting.
func Add(a, b *ExTensor) (*ExTensor, error) {
	return binaryOp("add", a, b,
		func(x, y float64) float64 { return x + y },
		func(x, y int64) int64 { return x + y })
}

// Sub returns a - b with broadcasting.
func Sub(a, b *ExTensor) (*ExTensor, error) {
	return binaryOp("sub", a, b,
		func(x, y float64) float64 { return x - y },
		func(x, y int64) int64 { return x - y })
}

// Mul returns the elementwise product a * b with broadcasting.
func Mul(a, b *ExTensor) (*ExTensor, error) {
	return binaryOp("mul", a, b,
		func(x, y float64) float64 { return x * y },
		func(x, y int64) int64 { return x * y })
}

// Div returns a / b with broadcasting. Integer division follows Go
// semantics; float division follows IEEE 754.
func Div(a, b *ExTensor) (*ExTensor, error) {
	return binaryOp("div", a, b,
		func(x, y float64) float64 { return x / y },
		func(x, y int64) int64 { return x / y })
}

// Neg returns -t.
func Neg(t *ExTensor) (*ExTensor, error) {
	if t.dtype.IsInt() {
		return binaryOp("neg", ZerosLike(t), t, nil,
			func(x, y int64) int64 { return x - y })
	}
	return unaryOp("neg", t, func(x float64) float64 { return -x })
}

// AddScalar returns t + s elementwise.
func AddScalar(t *ExTensor, s float64) (*ExTensor, error) {
	return unaryOp("add_scalar", t, func(x float64) float64 { return x + s })
}

// MulScalar returns t * s elementwise.
func MulScalar(t *ExTensor, s float64) (*ExTensor, error) {
	return unaryOp("mul_scalar", t, func(x float64) float64 { return x * s })
}

// PowScalar returns t ** p elementwise.
func PowScalar(t *ExTensor, p float64) (*ExTensor, error) {
	return unaryOp("pow_scalar", t, func(x float64) float64 { return math.Pow(x, p) })
}

// Exp returns e**t elementwise.
func Exp(t *ExTensor) (*ExTensor, error) {
	return unaryOp("exp", t, math.Exp)
}

// Log returns the natural logarithm elementwise.
func Log(t *ExTensor) (*ExTensor, error) {
	return unaryOp("log", t, math.Log)
}

// Sqrt returns the square root elementwise.
func Sqrt(t *ExTensor) (*ExTensor, error) {
	return unaryOp("sqrt", t, math.Sqrt)
}

// ReLU returns max(x, 0) elementwise.
func ReLU(t *ExTensor) (*ExTensor, error) {
	return unaryOp("relu", t, func(x float64) float64 {
		if x > 0 {
			return x
		}
		return 0
	})
}

// Sign returns -1, 0, or 1 elementwise.
func Sign(t *ExTensor) (*ExTensor, error) {
	return unaryOp("sign", t, func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	})
}

// Sigmoid returns 1 / (1 + e**-x) elementwise.
func Sigmoid(t *ExTensor) (*ExTensor, error) {
	return unaryOp("sigmoid", t, func(x float64) float64 {
		return 1.0 / (1.0 + math.Exp(-x))
	})
}

// Tanh returns the hyperbolic tangent elementwise.
func Tanh(t *ExTensor) (*ExTensor, error) {
	return unaryOp("tanh", t, math.Tanh)
}
