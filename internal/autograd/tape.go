package autograd

import (
	"github.com/extensor-ml/extensor/internal/tensor"
)

// node is one recorded operation: its input and output Variables plus
// whatever it needs to produce input gradients from the output
// gradient.
type node interface {
	inputs() []*Variable
	output() *Variable
	backward(outGrad *tensor.ExTensor) ([]*tensor.ExTensor, error)
}

// Tape records a directed acyclic graph of operations over Variables
// during a recording scope and replays it in reverse to accumulate
// gradients.
//
// Recording state is explicit per-Tape context, not process-global: a
// stack of enabled flags models nested recording and no-grad scopes, so
// suspending and resuming never loses outer state. A fresh tape is
// idle; nothing records until StartRecording.
type Tape struct {
	nodes    []node
	modes    []bool // grad-mode stack; top decides, empty means idle
	consumed bool
}

// NewTape creates an empty, idle tape.
func NewTape() *Tape {
	return &Tape{nodes: make([]node, 0, 64)}
}

// StartRecording enters a recording scope and returns the closure that
// leaves it. The closure must run even on error paths:
//
//	defer tape.StartRecording()()
func (t *Tape) StartRecording() func() {
	return t.push(true)
}

// NoGrad suspends recording for a scope and returns the closure that
// restores the prior state. Nests arbitrarily inside recording or other
// no-grad scopes:
//
//	defer tape.NoGrad()()
func (t *Tape) NoGrad() func() {
	return t.push(false)
}

func (t *Tape) push(enabled bool) func() {
	t.modes = append(t.modes, enabled)
	released := false
	return func() {
		if released {
			return
		}
		released = true
		t.modes = t.modes[:len(t.modes)-1]
	}
}

// SetGradEnabled overrides the current scope's recording state. With no
// scope open it opens one (with no matching release), mirroring an
// imperative global toggle.
func (t *Tape) SetGradEnabled(enabled bool) {
	if len(t.modes) == 0 {
		t.modes = append(t.modes, enabled)
		return
	}
	t.modes[len(t.modes)-1] = enabled
}

// IsGradEnabled reports whether operations are currently recorded.
func (t *Tape) IsGradEnabled() bool {
	return len(t.modes) > 0 && t.modes[len(t.modes)-1]
}

// Len returns the number of recorded nodes.
func (t *Tape) Len() int {
	return len(t.nodes)
}

// Clear drops all recorded nodes and makes the tape reusable for a new
// forward pass. The grad-mode stack is untouched.
func (t *Tape) Clear() {
	t.nodes = t.nodes[:0]
	t.consumed = false
}

// record appends a node when recording is enabled.
func (t *Tape) record(n node) {
	if t.IsGradEnabled() {
		t.nodes = append(t.nodes, n)
	}
}

// BackwardOption configures a backward pass.
type BackwardOption func(*backwardConfig)

type backwardConfig struct {
	retainGraph bool
}

// RetainGraph keeps the tape's nodes alive after the backward pass so a
// second backward call is possible.
func RetainGraph() BackwardOption {
	return func(c *backwardConfig) { c.retainGraph = true }
}

// Backward computes gradients for every recorded Variable reachable
// from loss, accumulating into each input's gradient slot.
//
// loss must be a scalar Variable produced by a recorded operation.
// Unless RetainGraph is given, the tape's nodes are released afterward
// and a second Backward call fails with a GraphError.
func (t *Tape) Backward(loss *Variable, opts ...BackwardOption) error {
	var cfg backwardConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if t.consumed {
		return &GraphError{Reason: "backward called on a consumed tape; pass RetainGraph() to keep nodes alive"}
	}
	if len(t.nodes) == 0 {
		return &GraphError{Reason: "backward called on an empty tape"}
	}
	if loss == nil || loss.value.NumElements() != 1 {
		return &GraphError{Reason: "loss must be a scalar Variable"}
	}
	if !loss.value.DType().IsFloat() {
		return &GraphError{Reason: "loss must have a floating dtype, got " + loss.value.DType().String()}
	}
	onTape := false
	for _, n := range t.nodes {
		if n.output() == loss {
			onTape = true
			break
		}
	}
	if !onTape {
		return &GraphError{Reason: "loss did not participate in any recorded operation"}
	}

	seed := tensor.OnesLike(loss.value)
	if err := t.replay(loss, seed); err != nil {
		return err
	}

	if !cfg.retainGraph {
		t.nodes = nil
		t.consumed = true
	}
	return nil
}

// replay seeds the root's gradient and walks the tape in reverse
// insertion order, invoking each node's backward formula and
// accumulating the resulting input gradients. Also used by checkpoint
// re-execution, where the seed is the checkpoint output's gradient.
func (t *Tape) replay(root *Variable, seed *tensor.ExTensor) error {
	// Recording stays suspended for the whole backward pass so gradient
	// arithmetic is never itself recorded.
	defer t.NoGrad()()

	// Node outputs are the intermediates of this graph; their gradient
	// slots are scratch space for the walk. Clearing them here keeps a
	// retained-graph second backward correct while leaf gradients keep
	// accumulating across passes.
	for _, n := range t.nodes {
		n.output().ZeroGrad()
	}

	if err := root.accumGrad(seed); err != nil {
		return err
	}

	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := t.nodes[i]
		out := n.output()
		if out.grad == nil {
			// No gradient flowed to this node's output.
			continue
		}
		inputGrads, err := n.backward(out.grad)
		if err != nil {
			return err
		}
		ins := n.inputs()
		for j, in := range ins {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if !in.requiresGrad {
				continue
			}
			if err := in.accumGrad(inputGrads[j]); err != nil {
				return err
			}
		}
	}
	return nil
}
