package quant

import (
	"math"
	"math/rand"
	"testing"

	"github.com/extensor-ml/extensor/internal/tensor"
)

func mustFromFloat32(t *testing.T, data []float32, shape tensor.Shape) *tensor.ExTensor {
	t.Helper()
	x, err := tensor.FromFloat32(data, shape)
	if err != nil {
		t.Fatalf("FromFloat32: %v", err)
	}
	return x
}

// Scale code tests

func TestScaleCodeExactValues(t *testing.T) {
	// Powers of two and 3-bit mantissa multiples encode exactly.
	values := []float32{0.125, 0.25, 0.5, 1, 1.5, 2, 3, 4, 112, 0.5625}
	for _, v := range values {
		got := scaleFromCode(scaleToCode(v))
		if got != v {
			t.Errorf("scale %v round-tripped to %v", v, got)
		}
	}
}

func TestScaleCodeZero(t *testing.T) {
	if scaleToCode(0) != 0 {
		t.Error("scaleToCode(0) != 0")
	}
	if scaleFromCode(0) != 0 {
		t.Error("scaleFromCode(0) != 0")
	}
	if scaleToCode(-1) != 0 {
		t.Error("negative scale did not clamp to 0")
	}
}

func TestScaleCodeClampsLarge(t *testing.T) {
	big := scaleFromCode(scaleToCode(1e9))
	if big != scaleFromCode(0x7f) {
		t.Errorf("huge scale decoded to %v, want max representable %v", big, scaleFromCode(0x7f))
	}
}

func TestScaleCodeRelativeError(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		// Normal range of the code; subnormals below 2^-6 trade
		// precision for reaching zero.
		s := float32(math.Exp2(float64(rng.Float32()*14 - 6)))
		got := scaleFromCode(scaleToCode(s))
		rel := math.Abs(float64(got-s)) / float64(s)
		if rel > 1.0/16+1e-6 {
			t.Fatalf("scale %v decoded to %v, relative error %v", s, got, rel)
		}
	}
}

// Codec tests

func TestQ4AExactRoundTrip(t *testing.T) {
	// maxabs 7 gives scale 1.0 (exactly representable), so integers in
	// [-7, 7] survive the codec unchanged.
	data := make([]float32, 32)
	for i := range data {
		data[i] = float32(i%15 - 7)
	}
	x := mustFromFloat32(t, data, tensor.Shape{32})

	q, err := EncodeQ4A(x)
	if err != nil {
		t.Fatalf("EncodeQ4A: %v", err)
	}
	if q.DType() != tensor.Q4A {
		t.Errorf("DType() = %v, want Q4A", q.DType())
	}
	if !q.Shape().Equal(tensor.Shape{32}) {
		t.Errorf("encoded shape = %v, want [32]", q.Shape())
	}
	if q.ByteSize() != 17 {
		t.Errorf("ByteSize() = %d, want 17", q.ByteSize())
	}

	d, err := DecodeQ4A(q)
	if err != nil {
		t.Fatalf("DecodeQ4A: %v", err)
	}
	got := d.AsFloat32()
	for i, want := range data {
		if got[i] != want {
			t.Errorf("index %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestQ4BExactRoundTrip(t *testing.T) {
	// maxabs 2 gives scale 1.0; the 2-bit range {-2, -1, 0, 1} survives
	// unchanged.
	data := make([]float32, 32)
	for i := range data {
		data[i] = float32(i%4 - 2)
	}
	x := mustFromFloat32(t, data, tensor.Shape{32})

	q, err := EncodeQ4B(x)
	if err != nil {
		t.Fatalf("EncodeQ4B: %v", err)
	}
	if q.ByteSize() != 9 {
		t.Errorf("ByteSize() = %d, want 9", q.ByteSize())
	}

	d, err := DecodeQ4B(q)
	if err != nil {
		t.Fatalf("DecodeQ4B: %v", err)
	}
	got := d.AsFloat32()
	for i, want := range data {
		if got[i] != want {
			t.Errorf("index %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestQ4AErrorBound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]float32, 256)
	var maxAbs float64
	for i := range data {
		data[i] = float32(rng.NormFloat64())
		if a := math.Abs(float64(data[i])); a > maxAbs {
			maxAbs = a
		}
	}
	x := mustFromFloat32(t, data, tensor.Shape{256})

	q, err := EncodeQ4A(x)
	if err != nil {
		t.Fatalf("EncodeQ4A: %v", err)
	}
	d, err := Dequantize(q)
	if err != nil {
		t.Fatalf("Dequantize: %v", err)
	}
	got := d.AsFloat32()

	// Per-block scale is at most global maxabs/7; the worst case
	// combines the half-step rounding error with the scale code's 1/16
	// relative error.
	bound := maxAbs / 7
	for i, want := range data {
		if diff := math.Abs(float64(got[i] - want)); diff > bound {
			t.Errorf("index %d: |%v - %v| = %v exceeds %v", i, got[i], want, diff, bound)
		}
	}
}

func TestQ4BErrorBound(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	data := make([]float32, 256)
	var maxAbs float64
	for i := range data {
		data[i] = float32(rng.NormFloat64())
		if a := math.Abs(float64(data[i])); a > maxAbs {
			maxAbs = a
		}
	}
	x := mustFromFloat32(t, data, tensor.Shape{256})

	q, err := EncodeQ4B(x)
	if err != nil {
		t.Fatalf("EncodeQ4B: %v", err)
	}
	d, err := Dequantize(q)
	if err != nil {
		t.Fatalf("Dequantize: %v", err)
	}
	got := d.AsFloat32()

	// The 2-bit range [-2, 1] is asymmetric: a positive block maximum
	// clamps to one step, so the error there reaches a full scale.
	bound := maxAbs / 2 * 1.1
	for i, want := range data {
		if diff := math.Abs(float64(got[i] - want)); diff > bound {
			t.Errorf("index %d: |%v - %v| = %v exceeds %v", i, got[i], want, diff, bound)
		}
	}
}

func TestEncodePadsPartialBlock(t *testing.T) {
	// 40 elements span two blocks; the last 24 lanes of block 1 pad
	// with zeros.
	data := make([]float32, 40)
	for i := range data {
		data[i] = float32(i%15 - 7)
	}
	x := mustFromFloat32(t, data, tensor.Shape{8, 5})

	q, err := EncodeQ4A(x)
	if err != nil {
		t.Fatalf("EncodeQ4A: %v", err)
	}
	if !q.Shape().Equal(tensor.Shape{8, 5}) {
		t.Errorf("encoded shape = %v, want [8 5]", q.Shape())
	}
	if q.ByteSize() != 34 {
		t.Errorf("ByteSize() = %d, want 34 (2 blocks)", q.ByteSize())
	}

	flat, err := DecodeQ4A(q)
	if err != nil {
		t.Fatalf("DecodeQ4A: %v", err)
	}
	if !flat.Shape().Equal(tensor.Shape{64}) {
		t.Errorf("decoded shape = %v, want [64]", flat.Shape())
	}
	got := flat.AsFloat32()
	for i := 40; i < 64; i++ {
		if got[i] != 0 {
			t.Errorf("padding lane %d = %v, want 0", i, got[i])
		}
	}
}

func TestDequantizeRestoresShape(t *testing.T) {
	// i%8-7 keeps maxabs at 7 in both blocks, so every scale is an
	// exact 1.0 and integer lanes survive the round trip unchanged.
	data := make([]float32, 40)
	for i := range data {
		data[i] = float32(i%8 - 7)
	}
	x := mustFromFloat32(t, data, tensor.Shape{8, 5})

	q, err := EncodeQ4A(x)
	if err != nil {
		t.Fatalf("EncodeQ4A: %v", err)
	}
	d, err := Dequantize(q)
	if err != nil {
		t.Fatalf("Dequantize: %v", err)
	}
	if !d.Shape().Equal(tensor.Shape{8, 5}) {
		t.Errorf("shape = %v, want [8 5]", d.Shape())
	}
	if d.NumElements() != 40 {
		t.Errorf("NumElements() = %d, want 40", d.NumElements())
	}
	for i := 0; i < 8; i++ {
		for j := 0; j < 5; j++ {
			got, err := d.At(i, j)
			if err != nil {
				t.Fatalf("At(%d,%d): %v", i, j, err)
			}
			if float32(got) != data[i*5+j] {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, data[i*5+j])
			}
		}
	}
}

func TestAllZeroBlock(t *testing.T) {
	x := mustFromFloat32(t, make([]float32, 32), tensor.Shape{32})

	q, err := EncodeQ4B(x)
	if err != nil {
		t.Fatalf("EncodeQ4B: %v", err)
	}
	d, err := DecodeQ4B(q)
	if err != nil {
		t.Fatalf("DecodeQ4B: %v", err)
	}
	for i, v := range d.AsFloat32() {
		if v != 0 {
			t.Errorf("index %d = %v, want 0", i, v)
		}
	}
}

func TestEncodeRejectsWrongInput(t *testing.T) {
	i32, err := tensor.FromInt32([]int32{1, 2, 3, 4}, tensor.Shape{4})
	if err != nil {
		t.Fatalf("FromInt32: %v", err)
	}
	if _, err := EncodeQ4A(i32); err == nil {
		t.Error("EncodeQ4A on int32 succeeded")
	}

	f := mustFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	view, err := f.Transpose(0, 1)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	if _, err := EncodeQ4A(view); err == nil {
		t.Error("EncodeQ4A on non-contiguous view succeeded")
	}
}

func TestDecodeRejectsWrongDType(t *testing.T) {
	f := mustFromFloat32(t, make([]float32, 32), tensor.Shape{32})
	if _, err := DecodeQ4A(f); err == nil {
		t.Error("DecodeQ4A on float32 succeeded")
	}

	qb, err := EncodeQ4B(f)
	if err != nil {
		t.Fatalf("EncodeQ4B: %v", err)
	}
	if _, err := DecodeQ4A(qb); err == nil {
		t.Error("DecodeQ4A on Q4B tensor succeeded")
	}
	if _, err := Dequantize(f); err == nil {
		t.Error("Dequantize on dense tensor succeeded")
	}
}

func TestQuantizedReshapeThenDequantize(t *testing.T) {
	data := make([]float32, 64)
	for i := range data {
		data[i] = float32(i%15 - 7)
	}
	x := mustFromFloat32(t, data, tensor.Shape{64})

	q, err := EncodeQ4A(x)
	if err != nil {
		t.Fatalf("EncodeQ4A: %v", err)
	}
	r, err := q.Reshape(tensor.Shape{8, 8})
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	d, err := Dequantize(r)
	if err != nil {
		t.Fatalf("Dequantize: %v", err)
	}
	if !d.Shape().Equal(tensor.Shape{8, 8}) {
		t.Errorf("shape = %v, want [8 8]", d.Shape())
	}
}
