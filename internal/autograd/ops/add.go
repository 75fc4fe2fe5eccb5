package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// AddOp is the backward formula for output = a + b.
// d(a+b)/da = d(a+b)/db = 1: the output gradient flows to both inputs,
// reduced along any broadcast axes.
type AddOp struct {
	AShape tensor.Shape
	BShape tensor.Shape
}

func (op *AddOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	gradA, err := reduceBroadcast(outGrad, op.AShape)
	if err != nil {
		return nil, err
	}
	gradB, err := reduceBroadcast(outGrad, op.BShape)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{gradA, gradB}, nil
}
