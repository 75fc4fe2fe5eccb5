package autograd

import "github.com/extensor-ml/extensor/internal/tensor"

// CheckpointFunc is a forward function eligible for gradient
// checkpointing. It must be deterministic: backward re-executes it.
type CheckpointFunc func(t *Tape, inputs []*Variable) (*Variable, error)

// checkpointNode stands in for a checkpointed function's whole
// sub-graph: only the function and its inputs are retained. Backward
// re-runs the function inside a fresh recording scope to regenerate the
// intermediate nodes, then replays that temporary tape.
type checkpointNode struct {
	ins []*Variable
	out *Variable
	fn  CheckpointFunc
}

func (n *checkpointNode) inputs() []*Variable { return n.ins }
func (n *checkpointNode) output() *Variable   { return n.out }

func (n *checkpointNode) backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error) {
	// Re-execute on fresh leaves so the recomputation accumulates into
	// local gradient slots, not the caller's.
	leaves := make([]*Variable, len(n.ins))
	for i, in := range n.ins {
		leaves[i] = NewVariable(in.value, true)
	}

	sub := NewTape()
	stop := sub.StartRecording()
	out, err := n.fn(sub, leaves)
	stop()
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &GraphError{Reason: "checkpointed function returned no output during recompute"}
	}

	if err := sub.replay(out, outGrad); err != nil {
		return nil, err
	}

	grads := make([]*tensor.ExTensor, len(leaves))
	for i, leaf := range leaves {
		grads[i] = leaf.grad // nil when no gradient flowed; skipped by the caller
	}
	return grads, nil
}

// Checkpoint runs fn without retaining its internal tape nodes,
// recording a single node that can regenerate them on demand during
// backward. This trades recomputation time for reduced memory
// retention across the forward pass.
func (t *Tape) Checkpoint(fn CheckpointFunc, inputs ...*Variable) (*Variable, error) {
	restore := t.NoGrad()
	out, err := fn(t, inputs)
	restore()
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &GraphError{Reason: "checkpointed function returned no output"}
	}

	track := t.IsGradEnabled() && anyRequiresGrad(inputs)
	result := &Variable{id: nextVariableID.Add(1), value: out.value, requiresGrad: track}
	if track {
		t.record(&checkpointNode{ins: inputs, out: result, fn: fn})
	}
	return result, nil
}
