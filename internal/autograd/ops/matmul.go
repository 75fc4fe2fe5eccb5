package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// MatMulOp is the backward formula for output = a @ b.
//
//	d(A@B)/dA = grad @ B^T
//	d(A@B)/dB = A^T @ grad
//
// with batch axes reduced back to each operand's shape afterwards.
type MatMulOp struct {
	A *tensor.ExTensor
	B *tensor.ExTensor
}

func (op *MatMulOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	bT, err := transposeLast2(op.B)
	if err != nil {
		return nil, err
	}
	ga, err := tensor.MatMul(outGrad, bT)
	if err != nil {
		return nil, err
	}
	gradA, err := reduceBroadcast(ga, op.A.Shape())
	if err != nil {
		return nil, err
	}

	aT, err := transposeLast2(op.A)
	if err != nil {
		return nil, err
	}
	gb, err := tensor.MatMul(aT, outGrad)
	if err != nil {
		return nil, err
	}
	gradB, err := reduceBroadcast(gb, op.B.Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{gradA, gradB}, nil
}

func transposeLast2(t *tensor.ExTensor) (*tensor.ExTensor, error) {
	n := len(t.Shape())
	return t.Transpose(n-2, n-1)
}
