package tensor

import (
	"errors"
	"strings"
	"testing"
)

func TestMatMul2D(t *testing.T) {
	a := mustFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	b := mustFromFloat32(t, []float32{7, 8, 9, 10, 11, 12}, Shape{3, 2})

	c, err := MatMul(a, b)
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}
	assertShape(t, Shape{2, 2}, c.Shape(), "MatMul shape")
	assertFloats(t, []float32{58, 64, 139, 154}, c.AsFloat32(), "MatMul")
}

func TestMatMulIdentity(t *testing.T) {
	a := mustFromFloat32(t, []float32{1, 2, 3, 4}, Shape{2, 2})
	eye := mustFromFloat32(t, []float32{1, 0, 0, 1}, Shape{2, 2})

	c, err := MatMul(a, eye)
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}
	assertFloats(t, []float32{1, 2, 3, 4}, c.AsFloat32(), "A @ I")
}

func TestMatMulInnerDimMismatch(t *testing.T) {
	a := mustFromFloat32(t, make([]float32, 6), Shape{2, 3})
	b := mustFromFloat32(t, make([]float32, 8), Shape{4, 2})

	_, err := MatMul(a, b)
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("error = %v, want *ShapeError", err)
	}
	if !strings.Contains(err.Error(), "inner dimensions") {
		t.Errorf("error %q does not name the inner dimensions", err)
	}
}

func TestMatMulRankTooLow(t *testing.T) {
	a := mustFromFloat32(t, []float32{1, 2, 3}, Shape{3})
	b := mustFromFloat32(t, make([]float32, 6), Shape{3, 2})

	if _, err := MatMul(a, b); err == nil {
		t.Fatal("MatMul with rank-1 operand succeeded")
	}
}

func TestMatMulBatch(t *testing.T) {
	// Two stacked 2x2 matrices times one shared 2x2.
	a := mustFromFloat32(t, []float32{
		1, 0, 0, 1, // identity
		2, 0, 0, 2, // 2*identity
	}, Shape{2, 2, 2})
	b := mustFromFloat32(t, []float32{5, 6, 7, 8}, Shape{2, 2})

	c, err := MatMul(a, b)
	if err != nil {
		t.Fatalf("MatMul batch: %v", err)
	}
	assertShape(t, Shape{2, 2, 2}, c.Shape(), "batch shape")
	assertFloats(t, []float32{5, 6, 7, 8, 10, 12, 14, 16}, c.AsFloat32(), "batch values")
}

func TestMatMulTransposedView(t *testing.T) {
	// The strided path must read through the view's strides.
	a := mustFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	at, _ := a.Transpose(0, 1) // 3x2
	b := mustFromFloat32(t, []float32{1, 0, 0, 1}, Shape{2, 2})

	c, err := MatMul(at, b)
	if err != nil {
		t.Fatalf("MatMul on view: %v", err)
	}
	assertShape(t, Shape{3, 2}, c.Shape(), "view matmul shape")
	assertFloats(t, []float32{1, 4, 2, 5, 3, 6}, c.AsFloat32(), "view matmul")
}

func TestMatMulRejectsInt(t *testing.T) {
	a, _ := FromInt32([]int32{1, 2, 3, 4}, Shape{2, 2})
	if _, err := MatMul(a, a); err == nil {
		t.Fatal("MatMul on int32 succeeded")
	}
}
