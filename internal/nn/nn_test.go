package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/tensor"
)

func TestLinear_Shapes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layer, err := NewLinear(4, 3, rng)
	require.NoError(t, err)

	assert.True(t, layer.W.Value().Shape().Equal(tensor.Shape{4, 3}))
	assert.True(t, layer.B.Value().Shape().Equal(tensor.Shape{3}))
	assert.True(t, layer.W.RequiresGrad())
	assert.True(t, layer.B.RequiresGrad())
	assert.Len(t, layer.Parameters(), 2)
}

func TestLinear_Forward(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layer, err := NewLinear(2, 2, rng)
	require.NoError(t, err)

	// Overwrite the random init with known weights.
	w, err := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	b, err := tensor.FromFloat32([]float32{10, 20}, tensor.Shape{2})
	require.NoError(t, err)
	layer.W = autograd.NewVariable(w, true)
	layer.B = autograd.NewVariable(b, true)

	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	x, err := tensor.FromFloat32([]float32{1, 1, 2, 0}, tensor.Shape{2, 2})
	require.NoError(t, err)
	in := autograd.NewVariable(x, false)

	out, err := layer.Forward(tape, in)
	require.NoError(t, err)

	// [1 1] @ W + b = [1+3+10, 2+4+20]; [2 0] @ W + b = [2+10, 4+20].
	got, err := out.Value().Float32s()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{14, 26, 12, 24}, got, 1e-5)
}

func TestLinear_TrainsOnTape(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	layer, err := NewLinear(1, 1, rng)
	require.NoError(t, err)

	x, err := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{3, 1})
	require.NoError(t, err)
	in := autograd.NewVariable(x, false)

	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	out, err := layer.Forward(tape, in)
	require.NoError(t, err)
	loss, err := tape.Sum(out)
	require.NoError(t, err)
	require.NoError(t, tape.Backward(loss))

	// d(sum(xW + b))/dW = sum(x) = 6; d/db = batch size = 3.
	gw, err := layer.W.Grad().Float32s()
	require.NoError(t, err)
	assert.InDelta(t, 6, gw[0], 1e-5)

	gb, err := layer.B.Grad().Float32s()
	require.NoError(t, err)
	assert.InDelta(t, 3, gb[0], 1e-5)
}

func TestSequential_ForwardAndParams(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	l1, err := NewLinear(4, 8, rng)
	require.NoError(t, err)
	l2, err := NewLinear(8, 2, rng)
	require.NoError(t, err)

	model := &Sequential{Modules: []Module{l1, ReLU{}, l2}}
	assert.Len(t, model.Parameters(), 4)

	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	x, err := tensor.FromFloat32(make([]float32, 8), tensor.Shape{2, 4})
	require.NoError(t, err)
	out, err := model.Forward(tape, autograd.NewVariable(x, false))
	require.NoError(t, err)

	assert.True(t, out.Value().Shape().Equal(tensor.Shape{2, 2}))
}

func TestMSELoss(t *testing.T) {
	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	p, err := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)
	y, err := tensor.FromFloat32([]float32{1, 0, 0}, tensor.Shape{3})
	require.NoError(t, err)

	pred := autograd.NewVariable(p, true)
	target := autograd.NewVariable(y, false)

	loss, err := MSELoss(tape, pred, target)
	require.NoError(t, err)

	v, err := loss.Value().Item()
	require.NoError(t, err)
	// (0 + 4 + 9) / 3
	assert.InDelta(t, 13.0/3, v, 1e-5)

	require.NoError(t, tape.Backward(loss))

	// d/dp mean((p-y)^2) = 2(p-y)/n.
	g, err := pred.Grad().Float32s()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0, 4.0 / 3, 2}, g, 1e-5)
}
