// Copyright 2025 The Extensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autograd exposes tape-based reverse-mode automatic
// differentiation over ExTensor values.
//
// A Tape records operations on Variables while gradient mode is
// enabled; Backward replays the tape in reverse and accumulates
// gradients into the leaves that require them:
//
//	t := autograd.NewTape()
//	defer t.StartRecording()()
//
//	x := autograd.NewVariable(xs, true)
//	y, _ := t.Mul(x, x)
//	loss, _ := t.Sum(y)
//	err := t.Backward(loss)
//
// Gradient mode nests through the closures returned by StartRecording
// and NoGrad, each restoring the previous mode when called.
package autograd

import (
	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/tensor"
)

type (
	// Variable wraps a tensor with gradient tracking state.
	Variable = autograd.Variable
	// Tape records differentiable operations for reverse replay.
	Tape = autograd.Tape
	// GraphError reports structural backward failures.
	GraphError = autograd.GraphError
	// CheckpointFunc is re-executed during backward instead of having
	// its intermediates stored.
	CheckpointFunc = autograd.CheckpointFunc
	// BackwardOption configures a Backward call.
	BackwardOption = autograd.BackwardOption
)

// NewTape creates an empty tape with gradient mode enabled.
func NewTape() *Tape { return autograd.NewTape() }

// NewVariable wraps a tensor, optionally marking it as requiring a
// gradient.
func NewVariable(value *tensor.ExTensor, requiresGrad bool) *Variable {
	return autograd.NewVariable(value, requiresGrad)
}

// RetainGraph keeps the tape intact after Backward so it can be
// replayed again.
func RetainGraph() BackwardOption { return autograd.RetainGraph() }
