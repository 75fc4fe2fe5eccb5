package nn

import "github.com/extensor-ml/extensor/internal/autograd"

// MSELoss computes mean((pred - target)**2) as a recorded scalar
// Variable, ready to seed a backward pass.
func MSELoss(t *autograd.Tape, pred, target *autograd.Variable) (*autograd.Variable, error) {
	diff, err := t.Sub(pred, target)
	if err != nil {
		return nil, err
	}
	sq, err := t.Mul(diff, diff)
	if err != nil {
		return nil, err
	}
	return t.Mean(sq)
}
