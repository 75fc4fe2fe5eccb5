package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// SumOp is the backward formula for output = sum(input): the scalar
// output gradient is broadcast over the input shape.
type SumOp struct {
	InShape tensor.Shape
	DType   tensor.DataType
}

func (op *SumOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	o, err := ones(op.InShape, op.DType)
	if err != nil {
		return nil, err
	}
	grad, err := tensor.Mul(o, outGrad)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}

// MeanOp is the backward formula for output = mean(input): sum
// backward scaled by 1/numel.
type MeanOp struct {
	InShape tensor.Shape
	DType   tensor.DataType
}

func (op *MeanOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	o, err := ones(op.InShape, op.DType)
	if err != nil {
		return nil, err
	}
	grad, err := tensor.Mul(o, outGrad)
	if err != nil {
		return nil, err
	}
	grad, err = tensor.MulScalar(grad, 1.0/float64(op.InShape.NumElements()))
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}
