package ops

import "github.com/extensor-ml/extensor/internal/tensor"

// reduceBroadcast sums a gradient back down to an operand's shape after
// forward-pass broadcasting.
//
//	forward:  a[3,1] + b[3,4] -> c[3,4]   (a stretched along axis 1)
//	backward: grad_c[3,4] -> grad_a[3,1]  (sum along axis 1)
func reduceBroadcast(grad *tensor.ExTensor, target tensor.Shape) (*tensor.ExTensor, error) {
	if grad.Shape().Equal(target) {
		// Clone so accumulation never aliases a gradient shared with
		// another node.
		return grad.Clone(), nil
	}

	if len(target) == 0 {
		return tensor.Sum(grad)
	}

	// Leading axes the operand never had are summed away first.
	result := grad
	var err error
	for len(result.Shape()) > len(target) {
		result, err = tensor.SumDim(result, 0, false)
		if err != nil {
			return nil, err
		}
	}

	// Then axes where the operand was stretched from size 1.
	for i := range target {
		if target[i] == 1 && result.Shape()[i] > 1 {
			result, err = tensor.SumDim(result, i, true)
			if err != nil {
				return nil, err
			}
		}
	}

	if !result.Shape().Equal(target) {
		return result.Contiguous().Reshape(target)
	}
	return result, nil
}

// ones returns a one-filled float tensor shaped like the given shape,
// used to broadcast a scalar output gradient over an input.
func ones(shape tensor.Shape, dtype tensor.DataType) (*tensor.ExTensor, error) {
	return tensor.Ones(shape, dtype)
}
