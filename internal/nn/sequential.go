package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/gradnet/internal/parallel"
	"github.com/born-ml/gradnet/internal/tensor"
)

// ErrNotInitialized is returned when a network is used before Init.
var ErrNotInitialized = errors.New("network not initialized")

// Sequential is a container that chains layers together.
//
// Init threads the shape of each layer's output into the next layer's
// Init. Forward keeps every intermediate activation so Backward can hand
// each layer the input/output pair it saw.
//
// Example:
//
//	net := nn.NewSequential(
//	    nn.NewLinear(4),
//	    nn.NewSigmoid(),
//	    nn.NewLinear(1),
//	    nn.NewSigmoid(),
//	)
//	if err := net.Init(tensor.Shape{2}); err != nil { ... }
//	y := net.Predict(tensor.Vector(0.1, 0.4))
type Sequential struct {
	layers      []Layer
	inputShape  tensor.Shape
	outputShape tensor.Shape
	src         rand.Source
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{layers: layers}
}

// Add appends a layer. Panics after Init.
//
// This allows building models incrementally:
//
//	net := nn.NewSequential()
//	net.Add(nn.NewLinear(128))
//	net.Add(nn.NewReLU())
func (s *Sequential) Add(layer Layer) *Sequential {
	if s.inputShape != nil {
		panic("sequential: Add called after Init")
	}
	s.layers = append(s.layers, layer)
	return s
}

// SetSource seeds every Seedable layer during Init. A nil source leaves
// layers on the global generator.
func (s *Sequential) SetSource(src rand.Source) {
	s.src = src
}

// SetParallel applies cfg to every Parallelizable layer.
func (s *Sequential) SetParallel(cfg parallel.Config) {
	for _, layer := range s.layers {
		if p, ok := layer.(Parallelizable); ok {
			p.SetParallel(cfg)
		}
	}
}

// Init initializes every layer in order.
//
// The first failing layer aborts the build; its *tensor.ShapeError is
// wrapped with the layer position.
func (s *Sequential) Init(inputShape tensor.Shape) error {
	if s.inputShape != nil {
		return fmt.Errorf("sequential: %w", ErrAlreadyInitialized)
	}
	if len(s.layers) == 0 {
		return errors.New("sequential: no layers")
	}

	shape := inputShape.Clone()
	for i, layer := range s.layers {
		if seedable, ok := layer.(Seedable); ok && s.src != nil {
			seedable.SetSource(s.src)
		}
		out, err := layer.Init(shape)
		if err != nil {
			return fmt.Errorf("layer %d (%T): %w", i, layer, err)
		}
		shape = out
	}

	s.inputShape = inputShape.Clone()
	s.outputShape = shape
	return nil
}

// Initialized reports whether Init succeeded.
func (s *Sequential) Initialized() bool {
	return s.inputShape != nil
}

// Forward runs every layer and returns all activations: index 0 is the
// input and index i+1 is the output of layer i.
func (s *Sequential) Forward(input *tensor.Tensor, training bool) []*tensor.Tensor {
	acts := make([]*tensor.Tensor, len(s.layers)+1)
	acts[0] = input
	for i, layer := range s.layers {
		acts[i+1] = layer.Forward(acts[i], training)
	}
	return acts
}

// Backward propagates upstream (the loss gradient with respect to the
// network output) through every layer in reverse, accumulating parameter
// gradients. acts must come from the immediately preceding Forward.
//
// Returns the error with respect to the network input.
func (s *Sequential) Backward(acts []*tensor.Tensor, upstream *tensor.Tensor) *tensor.Tensor {
	err := upstream
	for i := len(s.layers) - 1; i >= 0; i-- {
		err = s.layers[i].Backward(acts[i], acts[i+1], err)
	}
	return err
}

// Predict runs inference on a single example.
func (s *Sequential) Predict(input *tensor.Tensor) *tensor.Tensor {
	acts := s.Forward(input, false)
	return acts[len(acts)-1]
}

// Parameters returns all trainable parameters from all layers.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range s.layers {
		if t, ok := layer.(Trainable); ok {
			params = append(params, t.Parameters()...)
		}
	}
	return params
}

// Layers returns the layers in order.
func (s *Sequential) Layers() []Layer {
	return s.layers
}

// Len returns the number of layers.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// InputShape returns the shape passed to Init.
func (s *Sequential) InputShape() tensor.Shape {
	return s.inputShape.Clone()
}

// OutputShape returns the output shape of the last layer.
func (s *Sequential) OutputShape() tensor.Shape {
	return s.outputShape.Clone()
}

// NumParams returns the total number of learned scalars.
func (s *Sequential) NumParams() int {
	n := 0
	for _, p := range s.Parameters() {
		n += p.Tensor().NumElements()
	}
	return n
}

// Summary returns one line per layer followed by the parameter count.
func (s *Sequential) Summary() string {
	var sb strings.Builder
	for i, layer := range s.layers {
		fmt.Fprintf(&sb, "%2d  %s\n", i, layer)
	}
	fmt.Fprintf(&sb, "params: %d\n", s.NumParams())
	return sb.String()
}
