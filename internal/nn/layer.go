// Package nn implements the layers, losses and regularizers of the gradnet
// training engine.
//
// Every layer follows the same three-step contract:
//
//	out, err := layer.Init(inShape)          // once, fixes both shapes
//	y := layer.Forward(x, training)          // any number of times
//	dx := layer.Backward(x, y, dy)           // right after the matching Forward
//
// Layers with learned weights also implement Trainable; Backward
// accumulates their parameter gradients into Parameter.Grad.
//
// Spatial layers (MaxPool2D, Conv2D) use a [width, height, depth] layout,
// so the flat index of (x, y, k) is x*H*D + y*D + k.
package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/gradnet/internal/parallel"
	"github.com/born-ml/gradnet/internal/tensor"
)

// ErrAlreadyInitialized is returned by Init when the layer or network has
// already been initialized.
var ErrAlreadyInitialized = errors.New("already initialized")

// Layer is the interface shared by every network layer.
type Layer interface {
	// Init fixes the input shape and computes the output shape.
	//
	// Returns a *tensor.ShapeError when the input geometry cannot satisfy
	// the layer's structural constraints, and an error wrapping
	// ErrAlreadyInitialized on a second call; the first Init's shapes and
	// caches stay in place. Must precede any Forward or Backward call.
	Init(inputShape tensor.Shape) (tensor.Shape, error)

	// InputShape returns the shape fixed by Init (nil before Init).
	InputShape() tensor.Shape

	// OutputShape returns the shape computed by Init (nil before Init).
	OutputShape() tensor.Shape

	// Forward computes the layer output.
	//
	// Layers that need state for the next Backward call (pooling, dropout,
	// convolution) record it in their own transient cache; nothing else is
	// mutated. training enables train-only behaviour such as dropout.
	Forward(input *tensor.Tensor, training bool) *tensor.Tensor

	// Backward maps the upstream error (shaped like output) to the
	// downstream error (shaped like input).
	//
	// Valid only immediately after the Forward call that produced output
	// from input. Trainable layers also accumulate parameter gradients.
	Backward(input, output, upstream *tensor.Tensor) *tensor.Tensor

	// String describes the layer and its shapes.
	String() string
}

// Trainable is implemented by layers that own learned parameters.
type Trainable interface {
	Layer

	// Parameters returns the layer's learned parameters.
	Parameters() []*Parameter
}

// Seedable is implemented by layers that draw random numbers, either for
// weight initialization or for dropout masks.
type Seedable interface {
	SetSource(src rand.Source)
}

// Parallelizable is implemented by layers whose Forward can fan out over
// goroutines.
type Parallelizable interface {
	SetParallel(cfg parallel.Config)
}

// shapes stores the two shape slots of a layer.
type shapes struct {
	in  tensor.Shape
	out tensor.Shape
}

// InputShape returns the shape fixed by Init.
func (s *shapes) InputShape() tensor.Shape {
	return s.in.Clone()
}

// OutputShape returns the shape computed by Init.
func (s *shapes) OutputShape() tensor.Shape {
	return s.out.Clone()
}

// initOnce fails if Init already succeeded.
func (s *shapes) initOnce(layer string) error {
	if s.in != nil {
		return fmt.Errorf("%s: %w", layer, ErrAlreadyInitialized)
	}
	return nil
}

// fix stores both shapes and returns a copy of out.
func (s *shapes) fix(in, out tensor.Shape) tensor.Shape {
	s.in = in.Clone()
	s.out = out.Clone()
	return out.Clone()
}

// checkInput panics unless input matches the initialized input shape.
func (s *shapes) checkInput(layer string, input *tensor.Tensor) {
	if s.in == nil {
		panic(layer + ": Forward called before Init")
	}
	if !input.Shape().Equal(s.in) {
		panic(layer + ": input shape " + input.Shape().String() + " does not match " + s.in.String())
	}
}
