// Copyright 2025 The Extensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient descent optimizers for parameters
// tracked by the autograd tape.
package optim

import (
	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/optim"
)

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(params []*autograd.Variable, lr, momentum float64) *SGD {
	return optim.NewSGD(params, lr, momentum)
}
