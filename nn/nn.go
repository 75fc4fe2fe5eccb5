// Copyright 2025 The Extensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides minimal neural network building blocks layered
// on the autograd tape: Linear, ReLU, Sequential, and the MSE loss.
package nn

import (
	"math/rand"

	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/nn"
)

type (
	// Module is a differentiable component with trainable parameters.
	Module = nn.Module
	// Linear is a fully connected layer with bias.
	Linear = nn.Linear
	// ReLU applies max(x, 0).
	ReLU = nn.ReLU
	// Sequential chains modules in order.
	Sequential = nn.Sequential
)

// NewLinear creates a Linear layer with scaled random weights.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	return nn.NewLinear(inFeatures, outFeatures, rng)
}

// MSELoss computes the mean squared error between prediction and
// target.
func MSELoss(t *autograd.Tape, pred, target *autograd.Variable) (*autograd.Variable, error) {
	return nn.MSELoss(t, pred, target)
}
