// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/gradnet/internal/optim"
	"github.com/born-ml/gradnet/nn"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// ErrUnknownOptimizer is returned by New for an unrecognized name.
var ErrUnknownOptimizer = optim.ErrUnknownOptimizer

// Names lists the optimizers New understands.
var Names = optim.Names

// New builds an optimizer by name ("adadelta", "adam", "sgd", "momentum",
// "rmsprop", "adagrad") with the given learning rate; zero selects the
// optimizer's default.
func New(name string, lr float64) (Optimizer, error) {
	return optim.New(name, lr)
}

// Attach zero-initializes the auxiliary state opt needs on every
// parameter.
func Attach(opt Optimizer, params []*nn.Parameter) {
	optim.Attach(opt, params)
}

// Attached reports whether every parameter already carries state owned
// by opt.
func Attached(opt Optimizer, params []*nn.Parameter) bool {
	return optim.Attached(opt, params)
}

// Step averages accumulated gradients over batchSize, adds the
// regularizer derivative, applies the optimizer and clears gradients.
func Step(opt Optimizer, params []*nn.Parameter, reg nn.Regularizer, batchSize int) {
	optim.Step(opt, params, reg, batchSize)
}

// Adadelta

// Adadelta represents the Adadelta optimizer.
type Adadelta = optim.Adadelta

// AdadeltaConfig contains configuration for Adadelta.
type AdadeltaConfig = optim.AdadeltaConfig

// NewAdadelta creates a new Adadelta optimizer.
//
// Example:
//
//	optimizer := optim.NewAdadelta(optim.AdadeltaConfig{Rho: 0.95})
func NewAdadelta(config AdadeltaConfig) *Adadelta {
	return optim.NewAdadelta(config)
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	})
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// RMSProp represents the RMSProp optimizer.
type RMSProp = optim.RMSProp

// RMSPropConfig contains configuration for RMSProp.
type RMSPropConfig = optim.RMSPropConfig

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(config RMSPropConfig) *RMSProp {
	return optim.NewRMSProp(config)
}

// Adagrad represents the Adagrad optimizer.
type Adagrad = optim.Adagrad

// NewAdagrad creates a new Adagrad optimizer.
func NewAdagrad(lr float64) *Adagrad {
	return optim.NewAdagrad(lr)
}
