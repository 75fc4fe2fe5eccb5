// Package ops holds the backward formulas for recorded operations.
//
// Each forward operation kind has one formula type capturing the
// minimal forward-time context it needs: saved operands for a multiply,
// the already-computed output for activations whose derivative is
// expressible in terms of the output. Formulas are pure tensor-level
// functions; they know nothing about Variables or the tape.
package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// Formula computes input gradients from the output gradient. The
// returned slice has one entry per forward input, in input order.
type Formula interface {
	Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error)
}
