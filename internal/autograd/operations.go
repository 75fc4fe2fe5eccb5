package autograd

import (
	"github.com/extensor-ml/extensor/internal/autograd/ops"
	"github.com/extensor-ml/extensor/internal/tensor"
)

// opNode is a recorded single-output operation: input/output Variables
// plus the backward formula selected for the op kind.
type opNode struct {
	ins     []*Variable
	out     *Variable
	formula ops.Formula
}

func (n *opNode) inputs() []*Variable { return n.ins }
func (n *opNode) output() *Variable   { return n.out }

func (n *opNode) backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	return n.formula.Backward(outGrad)
}

func anyRequiresGrad(vars []*Variable) bool {
	for _, v := range vars {
		if v.requiresGrad {
			return true
		}
	}
	return false
}

// emit wraps a forward result in a Variable and appends exactly one
// node when it must be differentiated: recording enabled and at least
// one input tracked. The formula constructor runs only in that case, so
// untracked forward passes save no context.
func (t *Tape) emit(ins []*Variable, val *tensor.ExTensor, mk func() ops.Formula) *Variable {
	track := t.IsGradEnabled() && anyRequiresGrad(ins)
	out := &Variable{id: nextVariableID.Add(1), value: val, requiresGrad: track}
	if track {
		t.record(&opNode{ins: ins, out: out, formula: mk()})
	}
	return out
}

// Add records a broadcasting elementwise addition.
func (t *Tape) Add(a, b *Variable) (*Variable, error) {
	val, err := tensor.Add(a.value, b.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a, b}, val, func() ops.Formula {
		return &ops.AddOp{AShape: a.value.Shape().Clone(), BShape: b.value.Shape().Clone()}
	}), nil
}

// Sub records a broadcasting elementwise subtraction.
func (t *Tape) Sub(a, b *Variable) (*Variable, error) {
	val, err := tensor.Sub(a.value, b.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a, b}, val, func() ops.Formula {
		return &ops.SubOp{AShape: a.value.Shape().Clone(), BShape: b.value.Shape().Clone()}
	}), nil
}

// Mul records a broadcasting elementwise multiplication. Both operands
// are saved as backward context.
func (t *Tape) Mul(a, b *Variable) (*Variable, error) {
	val, err := tensor.Mul(a.value, b.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a, b}, val, func() ops.Formula {
		return &ops.MulOp{A: a.value, B: b.value}
	}), nil
}

// Div records a broadcasting elementwise division.
func (t *Tape) Div(a, b *Variable) (*Variable, error) {
	val, err := tensor.Div(a.value, b.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a, b}, val, func() ops.Formula {
		return &ops.DivOp{A: a.value, B: b.value}
	}), nil
}

// MatMul records a (batched) matrix multiplication.
func (t *Tape) MatMul(a, b *Variable) (*Variable, error) {
	val, err := tensor.MatMul(a.value, b.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a, b}, val, func() ops.Formula {
		return &ops.MatMulOp{A: a.value, B: b.value}
	}), nil
}

// Sum records a full reduction to a scalar.
func (t *Tape) Sum(a *Variable) (*Variable, error) {
	val, err := tensor.Sum(a.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.SumOp{InShape: a.value.Shape().Clone(), DType: a.value.DType()}
	}), nil
}

// Mean records a full mean reduction to a scalar.
func (t *Tape) Mean(a *Variable) (*Variable, error) {
	val, err := tensor.Mean(a.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.MeanOp{InShape: a.value.Shape().Clone(), DType: a.value.DType()}
	}), nil
}

// Reshape records a shape change preserving element count.
func (t *Tape) Reshape(a *Variable, shape tensor.Shape) (*Variable, error) {
	val, err := a.value.Reshape(shape)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.ReshapeOp{InShape: a.value.Shape().Clone()}
	}), nil
}

// Transpose records a two-axis swap.
func (t *Tape) Transpose(a *Variable, dim0, dim1 int) (*Variable, error) {
	val, err := a.value.Transpose(dim0, dim1)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.TransposeOp{Dim0: dim0, Dim1: dim1}
	}), nil
}

// ReLU records a rectified linear activation. The output is saved as
// backward context; its sign is the pass-through mask.
func (t *Tape) ReLU(a *Variable) (*Variable, error) {
	val, err := tensor.ReLU(a.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.ReLUOp{Out: val}
	}), nil
}

// Sigmoid records a logistic activation, saving the output.
func (t *Tape) Sigmoid(a *Variable) (*Variable, error) {
	val, err := tensor.Sigmoid(a.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.SigmoidOp{Out: val}
	}), nil
}

// Tanh records a hyperbolic tangent activation, saving the output.
func (t *Tape) Tanh(a *Variable) (*Variable, error) {
	val, err := tensor.Tanh(a.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.TanhOp{Out: val}
	}), nil
}

// Exp records an elementwise exponential, saving the output.
func (t *Tape) Exp(a *Variable) (*Variable, error) {
	val, err := tensor.Exp(a.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.ExpOp{Out: val}
	}), nil
}

// Log records an elementwise natural logarithm, saving the input.
func (t *Tape) Log(a *Variable) (*Variable, error) {
	val, err := tensor.Log(a.value)
	if err != nil {
		return nil, err
	}
	return t.emit([]*Variable{a}, val, func() ops.Formula {
		return &ops.LogOp{In: a.value}
	}), nil
}
