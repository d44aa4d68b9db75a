// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - Adadelta: per-element step sizes from a decaying squared-gradient average
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - RMSProp and Adagrad
//   - Optimizer interface for custom optimizers
//
// An optimizer holds hyperparameters only. Per-parameter state lives on
// the parameter itself: Attach allocates ExtraParams zero tensors on each
// parameter, and Optimize receives them on every call.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/gradnet/nn"
//	    "github.com/born-ml/gradnet/optim"
//	)
//
//	func main() {
//	    optimizer := optim.NewAdadelta(optim.AdadeltaConfig{})
//	    params := model.Parameters()
//	    optim.Attach(optimizer, params)
//
//	    for _, batch := range batches {
//	        for _, ex := range batch {
//	            acts := model.Forward(ex.X, true)
//	            model.Backward(acts, loss.Derivative(acts[len(acts)-1], ex.Y))
//	        }
//	        optim.Step(optimizer, params, nn.L2{Lambda: 1e-4}, len(batch))
//	    }
//	}
//
// # Custom Optimizers
//
// Implement the three methods of Optimizer. Optimize must return the
// delta to subtract from the parameter and may replace the elements of
// aux with updated state; Update runs once per step after every
// parameter has been processed, for schedules such as Adam's timestep.
package optim
