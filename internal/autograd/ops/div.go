package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// DivOp is the backward formula for output = a / b.
// d(a/b)/da = 1/b and d(a/b)/db = -a/b**2.
type DivOp struct {
	A *tensor.ExTensor
	B *tensor.ExTensor
}

func (op *DivOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	ga, err := tensor.Div(outGrad, op.B)
	if err != nil {
		return nil, err
	}
	gradA, err := reduceBroadcast(ga, op.A.Shape())
	if err != nil {
		return nil, err
	}

	bsq, err := tensor.Mul(op.B, op.B)
	if err != nil {
		return nil, err
	}
	quot, err := tensor.Div(op.A, bsq)
	if err != nil {
		return nil, err
	}
	negQuot, err := tensor.Neg(quot)
	if err != nil {
		return nil, err
	}
	gb, err := tensor.Mul(outGrad, negQuot)
	if err != nil {
		return nil, err
	}
	gradB, err := reduceBroadcast(gb, op.B.Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{gradA, gradB}, nil
}
