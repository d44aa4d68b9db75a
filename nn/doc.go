// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Conv2D, MaxPool2D, Dropout, Flatten
//   - Activations: ReLU, LeakyReLU, Sigmoid, Tanh, Softmax
//   - Loss functions: MSELoss, BinaryCrossEntropyLoss, CrossEntropyLoss
//   - Regularizers: L1, L2, ElasticNet
//   - Sequential networks and Parameter
//
// # Layer Protocol
//
// Every layer is initialized once with its input shape and reports the
// output shape it will produce. Init rejects shapes the layer cannot
// handle with a *tensor.ShapeError. After that:
//
//	out := layer.Forward(in, training)
//	down := layer.Backward(in, out, upstream)
//
// Backward must follow the Forward of the same input. Layers with
// parameters add their gradients to Parameter.Grad on every Backward;
// the optimizer step averages and clears them.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/gradnet/nn"
//	    "github.com/born-ml/gradnet/tensor"
//	)
//
//	func main() {
//	    model := nn.NewSequential(
//	        nn.NewLinear(128),
//	        nn.NewReLU(),
//	        nn.NewLinear(10),
//	        nn.NewSoftmax(),
//	    )
//	    if err := model.Init(tensor.Shape{784}); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    acts := model.Forward(x, true)
//	    loss := nn.NewCrossEntropyLoss()
//	    model.Backward(acts, loss.Derivative(acts[len(acts)-1], y))
//	}
//
// # Max Pooling
//
// MaxPool2D slides a window over the width and height axes of a
// [width, height, depth] input, independently per depth channel. The
// window geometry must tile the input exactly. Backward routes each
// upstream gradient to the input position that won its window; when
// windows overlap a position can receive several contributions, which
// are summed.
//
// # Concurrency
//
// Layers cache per-call state (pooling winners, dropout masks). A network
// must not be used from several goroutines at once.
package nn
