// Package optim implements parameter update rules over the autograd
// API. Optimizers consume Variable gradient slots and mutate parameter
// values in place; they record nothing on any tape.
package optim

import (
	"fmt"

	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/tensor"
)

// SGD is stochastic gradient descent with optional momentum:
//
//	v = momentum*v + grad
//	w = w - lr*v
type SGD struct {
	params   []*autograd.Variable
	lr       float64
	momentum float64
	velocity map[int64][]float32 // keyed by Variable ID
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(params []*autograd.Variable, lr, momentum float64) *SGD {
	return &SGD{
		params:   params,
		lr:       lr,
		momentum: momentum,
		velocity: make(map[int64][]float32),
	}
}

// Step applies one update using the gradients accumulated by the last
// backward pass. Parameters without a gradient are skipped.
func (s *SGD) Step() error {
	for _, p := range s.params {
		g := p.Grad()
		if g == nil {
			continue
		}
		if p.Value().DType() != tensor.Float32 {
			return fmt.Errorf("sgd: parameter dtype %s not supported", p.Value().DType())
		}
		w := p.Value().AsFloat32()
		gs, err := g.Float32s()
		if err != nil {
			return err
		}
		if len(gs) != len(w) {
			return fmt.Errorf("sgd: gradient has %d elements, parameter has %d", len(gs), len(w))
		}

		if s.momentum != 0 {
			v, ok := s.velocity[p.ID()]
			if !ok {
				v = make([]float32, len(w))
				s.velocity[p.ID()] = v
			}
			for i := range w {
				v[i] = float32(s.momentum)*v[i] + gs[i]
				w[i] -= float32(s.lr) * v[i]
			}
			continue
		}
		for i := range w {
			w[i] -= float32(s.lr) * gs[i]
		}
	}
	return nil
}

// ZeroGrad clears all parameter gradients for the next pass.
func (s *SGD) ZeroGrad() {
	for _, p := range s.params {
		p.ZeroGrad()
	}
}
