package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// ReshapeOp is the backward formula for a reshape: the gradient is
// reshaped back to the input's shape. Values pass through unchanged.
type ReshapeOp struct {
	InShape tensor.Shape
}

func (op *ReshapeOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	grad, err := outGrad.Contiguous().Reshape(op.InShape)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad}, nil
}

// TransposeOp is the backward formula for a two-axis transpose: the
// same swap applied to the gradient.
type TransposeOp struct {
	Dim0 int
	Dim1 int
}

func (op *TransposeOp) Backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	grad, err := outGrad.Transpose(op.Dim0, op.Dim1)
	if err != nil {
		return nil, err
	}
	return []*tensor.ExTensor{grad.Contiguous()}, nil
}
