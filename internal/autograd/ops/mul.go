package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// MulOp is the backward formula for output = a * b.
// d(a*b)/da = b and d(a*b)/db = a, so both operands are saved.
type MulOp struct {
	A *tensor.ExTensor
	B *tensor.ExTensor
}

func (op *MulOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	ga, err := tensor.Mul(outGrad, op.B)
	if err != nil {
		return nil, err
	}
	gradA, err := reduceBroadcast(ga, op.A.Shape())
	if err != nil {
		return nil, err
	}

	gb, err := tensor.Mul(outGrad, op.A)
	if err != nil {
		return nil, err
	}
	gradB, err := reduceBroadcast(gb, op.B.Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{gradA, gradB}, nil
}
