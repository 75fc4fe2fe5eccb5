// Package autograd implements reverse-mode automatic differentiation
// over ExTensor values: Variables wrap tensors with gradient slots, and
// a Tape records operations during a forward pass so they can be
// replayed backward.
package autograd

import (
	"sync/atomic"

	"github.com/extensor-ml/extensor/internal/tensor"
)

var nextVariableID atomic.Int64

// Variable wraps a tensor with a requires-grad flag and an accumulated
// gradient slot.
//
// Leaves are created with NewVariable; intermediate Variables are
// created by tape operations. The gradient slot is written only by
// Tape.Backward (accumulating, never overwriting) and cleared only by
// ZeroGrad, never implicitly.
type Variable struct {
	id           int64
	value        *tensor.ExTensor
	requiresGrad bool
	grad         *tensor.ExTensor
}

// NewVariable creates a leaf Variable over a tensor.
func NewVariable(value *tensor.ExTensor, requiresGrad bool) *Variable {
	return &Variable{
		id:           nextVariableID.Add(1),
		value:        value,
		requiresGrad: requiresGrad,
	}
}

// ID returns the Variable's process-unique identifier. The tape stores
// these identifiers in its nodes; a Variable never holds a reference
// back to a Tape.
func (v *Variable) ID() int64 {
	return v.id
}

// Value returns the wrapped tensor.
func (v *Variable) Value() *tensor.ExTensor {
	return v.value
}

// RequiresGrad reports whether gradients are tracked for this Variable.
func (v *Variable) RequiresGrad() bool {
	return v.requiresGrad
}

// Grad returns the accumulated gradient, or nil if none has been
// computed since the last ZeroGrad.
func (v *Variable) Grad() *tensor.ExTensor {
	return v.grad
}

// ZeroGrad clears the accumulated gradient.
func (v *Variable) ZeroGrad() {
	v.grad = nil
}

// Detach returns a new leaf sharing the same tensor but with gradient
// tracking severed: operations on the result record nothing about this
// Variable's history.
func (v *Variable) Detach() *Variable {
	return NewVariable(v.value, false)
}

// accumGrad adds a contribution into the gradient slot. A Variable used
// as input to several operations receives one contribution per use.
func (v *Variable) accumGrad(g *tensor.ExTensor) error {
	if v.grad == nil {
		v.grad = g
		return nil
	}
	sum, err := tensor.Add(v.grad, g)
	if err != nil {
		return err
	}
	v.grad = sum
	return nil
}
