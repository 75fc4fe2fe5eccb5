package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/tensor"
)

func variable(t *testing.T, data []float32) *autograd.Variable {
	t.Helper()
	x, err := tensor.FromFloat32(data, tensor.Shape{len(data)})
	require.NoError(t, err)
	return autograd.NewVariable(x, true)
}

func backwardSquareSum(t *testing.T, p *autograd.Variable) {
	t.Helper()
	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	sq, err := tape.Mul(p, p)
	require.NoError(t, err)
	loss, err := tape.Sum(sq)
	require.NoError(t, err)
	require.NoError(t, tape.Backward(loss))
}

func TestSGD_Step(t *testing.T) {
	p := variable(t, []float32{1, 2, 3})
	opt := NewSGD([]*autograd.Variable{p}, 0.1, 0)

	backwardSquareSum(t, p) // grad = 2x

	require.NoError(t, opt.Step())

	got, err := p.Value().Float32s()
	require.NoError(t, err)
	// x - 0.1 * 2x = 0.8x
	assert.InDeltaSlice(t, []float32{0.8, 1.6, 2.4}, got, 1e-5)
}

func TestSGD_SkipsNilGrads(t *testing.T) {
	p := variable(t, []float32{1, 2})
	opt := NewSGD([]*autograd.Variable{p}, 0.1, 0)

	// No backward has run; Step must leave the parameter alone.
	require.NoError(t, opt.Step())
	got, err := p.Value().Float32s()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1, 2}, got, 1e-5)
}

func TestSGD_Momentum(t *testing.T) {
	p := variable(t, []float32{1})
	opt := NewSGD([]*autograd.Variable{p}, 0.1, 0.9)

	// First step: velocity = grad = 2, update -0.1*2.
	backwardSquareSum(t, p)
	require.NoError(t, opt.Step())
	got, err := p.Value().Float32s()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got[0], 1e-5)

	// Second step from fresh gradient at 0.8: grad = 1.6,
	// velocity = 0.9*2 + 1.6 = 3.4, update -0.34.
	opt.ZeroGrad()
	backwardSquareSum(t, p)
	require.NoError(t, opt.Step())
	got, err = p.Value().Float32s()
	require.NoError(t, err)
	assert.InDelta(t, 0.46, got[0], 1e-4)
}

func TestSGD_ZeroGrad(t *testing.T) {
	p := variable(t, []float32{1, 2})
	opt := NewSGD([]*autograd.Variable{p}, 0.1, 0)

	backwardSquareSum(t, p)
	require.NotNil(t, p.Grad())

	opt.ZeroGrad()
	assert.Nil(t, p.Grad())
}

func TestSGD_Training_Converges(t *testing.T) {
	// Minimize sum(x^2); SGD should drive x toward zero.
	p := variable(t, []float32{5, -3})
	opt := NewSGD([]*autograd.Variable{p}, 0.1, 0)

	for i := 0; i < 50; i++ {
		opt.ZeroGrad()
		backwardSquareSum(t, p)
		require.NoError(t, opt.Step())
	}

	got, err := p.Value().Float32s()
	require.NoError(t, err)
	assert.InDelta(t, 0, got[0], 1e-3)
	assert.InDelta(t, 0, got[1], 1e-3)
}
