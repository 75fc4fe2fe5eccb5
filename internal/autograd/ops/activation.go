package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// ReLUOp is the backward formula for output = relu(input). The saved
// output is enough: relu output is non-negative, so sign(out) is the
// 0/1 pass-through mask.
type ReLUOp struct {
	Out *tensor.ExTensor
}

func (op *ReLUOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	mask, err := tensor.Sign(op.Out)
	if err != nil {
		return nil, err
	}
	grad, err := tensor.Mul(outGrad, mask)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}

// SigmoidOp is the backward formula for output = sigmoid(input):
// d = out * (1 - out), in terms of the saved output.
type SigmoidOp struct {
	Out *tensor.ExTensor
}

func (op *SigmoidOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	neg, err := tensor.Neg(op.Out)
	if err != nil {
		return nil, err
	}
	oneMinus, err := tensor.AddScalar(neg, 1)
	if err != nil {
		return nil, err
	}
	deriv, err := tensor.Mul(op.Out, oneMinus)
	if err != nil {
		return nil, err
	}
	grad, err := tensor.Mul(outGrad, deriv)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}

// TanhOp is the backward formula for output = tanh(input):
// d = 1 - out**2.
type TanhOp struct {
	Out *tensor.ExTensor
}

func (op *TanhOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	sq, err := tensor.Mul(op.Out, op.Out)
	if err != nil {
		return nil, err
	}
	negSq, err := tensor.Neg(sq)
	if err != nil {
		return nil, err
	}
	deriv, err := tensor.AddScalar(negSq, 1)
	if err != nil {
		return nil, err
	}
	grad, err := tensor.Mul(outGrad, deriv)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}
