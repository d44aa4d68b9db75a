// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/gradnet/internal/nn"
	"github.com/born-ml/gradnet/internal/parallel"
)

// Layer is the forward/backward contract every network stage implements.
type Layer = nn.Layer

// Trainable is a Layer that owns parameters.
type Trainable = nn.Trainable

// Seedable is a Layer whose initialization or masking draws randomness.
type Seedable = nn.Seedable

// Parameter is a trainable tensor with its gradient and optimizer state.
type Parameter = nn.Parameter

// Initializer produces initial weights.
type Initializer = nn.Initializer

// ErrNotInitialized is returned when a network is used before Init.
var ErrNotInitialized = nn.ErrNotInitialized

// ErrAlreadyInitialized is returned by a second Init on a layer or network.
var ErrAlreadyInitialized = nn.ErrAlreadyInitialized

// Weight initializers.
var (
	Xavier = nn.Xavier
	HeInit = nn.HeInit
)

// Parallelism

// ParallelConfig controls how Conv2D and MaxPool2D split a Forward pass
// across goroutines. Pass it to Sequential.SetParallel.
type ParallelConfig = parallel.Config

// DefaultParallel returns a config sized to GOMAXPROCS.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// SerialParallel returns a config that keeps every layer on the calling
// goroutine.
func SerialParallel() ParallelConfig {
	return parallel.Serial()
}

// Network

// Sequential chains layers, feeding each output into the next layer.
type Sequential = nn.Sequential

// NewSequential creates a network from layers. Call Init with the input
// shape before use.
//
// Example:
//
//	net := nn.NewSequential(
//	    nn.NewConv2D(8, 3, 1, 1),
//	    nn.NewReLU(),
//	    nn.NewMaxPool2D(2, 2),
//	    nn.NewFlatten(),
//	    nn.NewLinear(10),
//	    nn.NewSoftmax(),
//	)
//	if err := net.Init(tensor.Shape{28, 28, 1}); err != nil {
//	    log.Fatal(err)
//	}
func NewSequential(layers ...Layer) *Sequential {
	return nn.NewSequential(layers...)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a linear layer with Xavier initialization and bias.
func NewLinear(units int) *Linear {
	return nn.NewLinear(units)
}

// NewLinearNoBias creates a linear layer without bias.
func NewLinearNoBias(units int) *Linear {
	return nn.NewLinearNoBias(units)
}

// Conv2D represents a 2D convolutional layer over [width, height, depth]
// inputs.
type Conv2D = nn.Conv2D

// NewConv2D creates a convolution with square kernels.
//
// Example:
//
//	conv := nn.NewConv2D(32, 3, 1, 1) // 32 filters, 3x3, stride 1, padding 1
func NewConv2D(filters, kernelSize, stride, padding int) *Conv2D {
	return nn.NewConv2D(filters, kernelSize, stride, padding)
}

// NewConv2DRect creates a convolution with rectangular kernels and
// per-axis strides.
func NewConv2DRect(filters, winWidth, winHeight, strideX, strideY, padding int) *Conv2D {
	return nn.NewConv2DRect(filters, winWidth, winHeight, strideX, strideY, padding)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D = nn.MaxPool2D

// NewMaxPool2D creates a max pooling layer with square windows.
//
// Example:
//
//	pool := nn.NewMaxPool2D(2, 2) // kernel=2, stride=2
func NewMaxPool2D(kernelSize, stride int) *MaxPool2D {
	return nn.NewMaxPool2D(kernelSize, stride)
}

// NewMaxPool2DRect creates a max pooling layer with rectangular windows
// and per-axis strides.
func NewMaxPool2DRect(winWidth, winHeight, strideX, strideY int) *MaxPool2D {
	return nn.NewMaxPool2DRect(winWidth, winHeight, strideX, strideY)
}

// Dropout zeroes inputs with probability rate during training.
type Dropout = nn.Dropout

// NewDropout creates a dropout layer.
func NewDropout(rate float64) *Dropout {
	return nn.NewDropout(rate)
}

// Flatten reshapes any input to a vector.
type Flatten = nn.Flatten

// NewFlatten creates a flatten layer.
func NewFlatten() *Flatten {
	return nn.NewFlatten()
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// LeakyReLU passes alpha*x for negative inputs.
type LeakyReLU = nn.LeakyReLU

// NewLeakyReLU creates a LeakyReLU (alpha 0 selects 0.01).
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return nn.NewLeakyReLU(alpha)
}

// Sigmoid represents the logistic activation.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Tanh represents the hyperbolic tangent activation.
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation layer.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// Softmax normalizes a vector into a probability distribution.
type Softmax = nn.Softmax

// NewSoftmax creates a new Softmax layer.
func NewSoftmax() *Softmax {
	return nn.NewSoftmax()
}

// Loss functions

// Loss scores a prediction against a target.
type Loss = nn.Loss

// MSELoss is the mean squared error.
type MSELoss = nn.MSELoss

// NewMSELoss creates a mean squared error loss.
func NewMSELoss() *MSELoss {
	return nn.NewMSELoss()
}

// BinaryCrossEntropyLoss is the mean binary cross-entropy over outputs.
type BinaryCrossEntropyLoss = nn.BinaryCrossEntropyLoss

// NewBinaryCrossEntropyLoss creates a binary cross-entropy loss.
func NewBinaryCrossEntropyLoss() *BinaryCrossEntropyLoss {
	return nn.NewBinaryCrossEntropyLoss()
}

// CrossEntropyLoss is the categorical cross-entropy of a distribution.
type CrossEntropyLoss = nn.CrossEntropyLoss

// NewCrossEntropyLoss creates a categorical cross-entropy loss.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return nn.NewCrossEntropyLoss()
}

// Regularizers

// Regularizer penalizes parameter magnitude.
type Regularizer = nn.Regularizer

// L1 is the λ·Σ|w| penalty.
type L1 = nn.L1

// L2 is the λ/2·Σw² penalty.
type L2 = nn.L2

// ElasticNet combines L1 and L2 penalties.
type ElasticNet = nn.ElasticNet
