// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: the per-parameter update rule contract
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//   - Adadelta, RMSProp, Adagrad: adaptive per-element step sizes
//
// Optimizers do not know which parameter they are updating. Each
// parameter carries its own auxiliary tensors (running averages,
// velocities) and hands them to Optimize on every step, so a single
// optimizer value can serve a whole network.
//
// Example usage:
//
//	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//	params := net.Parameters()
//	optim.Attach(opt, params)
//
//	for _, batch := range batches {
//	    for _, ex := range batch {
//	        acts := net.Forward(ex.X, true)
//	        net.Backward(acts, loss.Derivative(acts[len(acts)-1], ex.Y))
//	    }
//	    optim.Step(opt, params, nil, len(batch))
//	}
package optim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/born-ml/gradnet/internal/nn"
	"github.com/born-ml/gradnet/internal/tensor"
)

// epsilon guards every division by a running magnitude estimate.
const epsilon = 1e-8

// ErrUnknownOptimizer is returned by New for an unrecognized name.
var ErrUnknownOptimizer = errors.New("optim: unknown optimizer")

// Names lists the optimizers New understands.
var Names = []string{"adadelta", "adam", "sgd", "momentum", "rmsprop", "adagrad"}

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// ExtraParams returns how many auxiliary tensors, shaped like the
	// parameter, the optimizer needs per parameter.
	ExtraParams() int

	// Optimize turns a raw gradient into the delta to subtract from the
	// parameter. aux holds ExtraParams tensors owned by the parameter;
	// Optimize updates them in place (by replacing the slice elements).
	Optimize(grad *tensor.Tensor, aux []*tensor.Tensor) *tensor.Tensor

	// Update advances per-step hyperparameters. Called once per training
	// step, after every parameter of that step has been optimized.
	Update()
}

// Attach zero-initializes the auxiliary state opt needs on every
// parameter and marks opt as its owner.
func Attach(opt Optimizer, params []*nn.Parameter) {
	n := opt.ExtraParams()
	for _, p := range params {
		p.Attach(opt, n)
	}
}

// Attached reports whether every parameter carries state owned by opt.
func Attached(opt Optimizer, params []*nn.Parameter) bool {
	for _, p := range params {
		if p.Owner() != any(opt) || len(p.Aux()) != opt.ExtraParams() {
			return false
		}
	}
	return true
}

// Step applies one optimization step.
//
// For every parameter the accumulated gradient is averaged over
// batchSize, the regularizer derivative is added (regularized parameters
// only), and the optimizer delta is subtracted from the value. Gradients
// are then cleared and opt.Update is called once.
func Step(opt Optimizer, params []*nn.Parameter, reg nn.Regularizer, batchSize int) {
	if batchSize < 1 {
		batchSize = 1
	}
	for _, p := range params {
		grad := p.Grad().Scale(1 / float64(batchSize))
		if reg != nil && p.Regularized() {
			grad = grad.Add(reg.Derivative(p.Tensor()))
		}
		p.Apply(opt.Optimize(grad, p.Aux()))
		p.ZeroGrad()
	}
	opt.Update()
}

// New builds an optimizer by name with the given learning rate (step size
// for Adadelta). A zero rate selects the optimizer's default.
func New(name string, lr float64) (Optimizer, error) {
	switch strings.ToLower(name) {
	case "adadelta":
		return NewAdadelta(AdadeltaConfig{StepSize: lr}), nil
	case "adam":
		return NewAdam(AdamConfig{LR: lr}), nil
	case "sgd":
		return NewSGD(SGDConfig{LR: lr}), nil
	case "momentum":
		return NewSGD(SGDConfig{LR: lr, Momentum: 0.9}), nil
	case "rmsprop":
		return NewRMSProp(RMSPropConfig{LR: lr}), nil
	case "adagrad":
		return NewAdagrad(lr), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownOptimizer, name, strings.Join(Names, ", "))
	}
}
