package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// SubOp is the backward formula for output = a - b.
type SubOp struct {
	AShape tensor.Shape
	BShape tensor.Shape
}

func (op *SubOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	gradA, err := reduceBroadcast(outGrad, op.AShape)
	if err != nil {
		return nil, err
	}
	neg, err := tensor.Neg(outGrad)
	if err != nil {
		return nil, err
	}
	gradB, err := reduceBroadcast(neg, op.BShape)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{gradA, gradB}, nil
}
