// Package nn provides a small neural-network layer API on top of the
// autograd engine. It is a consumer of the core: layers hold Variables,
// forward passes go through tape operations, and optimizers read the
// gradient slots that Backward fills.
package nn

import (
	"math"
	"math/rand"

	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/tensor"
)

// Module is a unit with learnable parameters.
type Module interface {
	// Forward runs the module, recording on the given tape.
	Forward(t *autograd.Tape, in *autograd.Variable) (*autograd.Variable, error)

	// Parameters returns the module's learnable Variables.
	Parameters() []*autograd.Variable
}

// Linear is a fully connected layer: out = in @ W + b.
type Linear struct {
	W *autograd.Variable // [inFeatures, outFeatures]
	B *autograd.Variable // [outFeatures]
}

// NewLinear creates a Linear layer with Xavier-style initialization.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	w, err := tensor.Randn(tensor.Shape{inFeatures, outFeatures}, rng)
	if err != nil {
		return nil, err
	}
	scale := 1.0 / math.Sqrt(float64(inFeatures))
	w, err = tensor.MulScalar(w, scale)
	if err != nil {
		return nil, err
	}
	b, err := tensor.Zeros(tensor.Shape{outFeatures}, tensor.Float32)
	if err != nil {
		return nil, err
	}
	return &Linear{
		W: autograd.NewVariable(w, true),
		B: autograd.NewVariable(b, true),
	}, nil
}

// Forward computes in @ W + b. The bias broadcasts over the batch.
func (l *Linear) Forward(t *autograd.Tape, in *autograd.Variable) (*autograd.Variable, error) {
	h, err := t.MatMul(in, l.W)
	if err != nil {
		return nil, err
	}
	return t.Add(h, l.B)
}

// Parameters returns [W, B].
func (l *Linear) Parameters() []*autograd.Variable {
	return []*autograd.Variable{l.W, l.B}
}

// ReLU is a stateless activation module.
type ReLU struct{}

// Forward applies the rectifier.
func (ReLU) Forward(t *autograd.Tape, in *autograd.Variable) (*autograd.Variable, error) {
	return t.ReLU(in)
}

// Parameters returns nil; ReLU has none.
func (ReLU) Parameters() []*autograd.Variable { return nil }

// Sequential chains modules in order.
type Sequential struct {
	Modules []Module
}

// Forward runs each module on the previous output.
func (s *Sequential) Forward(t *autograd.Tape, in *autograd.Variable) (*autograd.Variable, error) {
	out := in
	var err error
	for _, m := range s.Modules {
		out, err = m.Forward(t, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Parameters concatenates all submodule parameters.
func (s *Sequential) Parameters() []*autograd.Variable {
	var params []*autograd.Variable
	for _, m := range s.Modules {
		params = append(params, m.Parameters()...)
	}
	return params
}
