package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// ExpOp is the backward formula for output = exp(input): the derivative
// is the saved output itself.
type ExpOp struct {
	Out *tensor.ExTensor
}

func (op *ExpOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	grad, err := tensor.Mul(outGrad, op.Out)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}

// LogOp is the backward formula for output = log(input): d = 1/input,
// so the saved operand is the input.
type LogOp struct {
	In *tensor.ExTensor
}

func (op *LogOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	grad, err := tensor.Div(outGrad, op.In)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}
