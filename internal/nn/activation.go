package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/gradnet/internal/tensor"
)

// elementwise carries the shape bookkeeping shared by activation layers:
// the output shape always equals the input shape.
type elementwise struct {
	shapes
	name string
}

// Init accepts any valid shape.
func (e *elementwise) Init(inputShape tensor.Shape) (tensor.Shape, error) {
	if err := e.initOnce(e.name); err != nil {
		return nil, err
	}
	if err := inputShape.Validate(); err != nil {
		return nil, tensor.NewShapeError(e.name, inputShape, "%v", err)
	}
	return e.fix(inputShape, inputShape), nil
}

// String returns the activation name and shape.
func (e *elementwise) String() string {
	return fmt.Sprintf("%s %v", e.name, e.in)
}

// ReLU is a Rectified Linear Unit activation layer.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// Example:
//
//	relu := nn.NewReLU()
//	output := relu.Forward(input, true) // All negative values become 0
type ReLU struct {
	elementwise
}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{elementwise{name: "ReLU"}}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	return input.Map(func(v float64) float64 { return math.Max(0, v) })
}

// Backward passes the error through where the input was positive.
func (r *ReLU) Backward(input, _, upstream *tensor.Tensor) *tensor.Tensor {
	return upstream.Mul(input.Map(func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	}))
}

// LeakyReLU is ReLU with a small slope for negative inputs.
//
// f(x) = x if x > 0, alpha*x otherwise.
type LeakyReLU struct {
	elementwise
	alpha float64
}

// NewLeakyReLU creates a LeakyReLU layer. A zero alpha defaults to 0.01.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	if alpha == 0 {
		alpha = 0.01
	}
	return &LeakyReLU{elementwise: elementwise{name: fmt.Sprintf("LeakyReLU(%g)", alpha)}, alpha: alpha}
}

// Forward applies LeakyReLU.
func (l *LeakyReLU) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	return input.Map(func(v float64) float64 {
		if v > 0 {
			return v
		}
		return l.alpha * v
	})
}

// Backward scales the error by 1 or alpha depending on the input sign.
func (l *LeakyReLU) Backward(input, _, upstream *tensor.Tensor) *tensor.Tensor {
	return upstream.Mul(input.Map(func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return l.alpha
	}))
}

// Sigmoid is a sigmoid activation layer.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// Sigmoid squashes values to the range (0, 1), making it useful for
// binary classification outputs.
type Sigmoid struct {
	elementwise
}

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{elementwise{name: "Sigmoid"}}
}

// Forward applies Sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
func (s *Sigmoid) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	return input.Map(sigmoid)
}

// Backward uses σ'(x) = σ(x)(1 - σ(x)) computed from the cached output.
func (s *Sigmoid) Backward(_, output, upstream *tensor.Tensor) *tensor.Tensor {
	return upstream.Mul(output.Map(func(y float64) float64 { return y * (1 - y) }))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Tanh is a hyperbolic tangent activation layer.
//
// Tanh squashes values to the range (-1, 1).
type Tanh struct {
	elementwise
}

// NewTanh creates a new Tanh activation layer.
func NewTanh() *Tanh {
	return &Tanh{elementwise{name: "Tanh"}}
}

// Forward applies Tanh activation.
func (t *Tanh) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	return input.Map(math.Tanh)
}

// Backward uses tanh'(x) = 1 - tanh²(x).
func (t *Tanh) Backward(_, output, upstream *tensor.Tensor) *tensor.Tensor {
	return upstream.Mul(output.Map(func(y float64) float64 { return 1 - y*y }))
}

// Softmax normalizes its input into a probability distribution over all
// elements.
//
// softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
type Softmax struct {
	elementwise
}

// NewSoftmax creates a new Softmax layer.
func NewSoftmax() *Softmax {
	return &Softmax{elementwise{name: "Softmax"}}
}

// Forward applies a numerically stable softmax.
func (s *Softmax) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	maxVal := input.Max()
	exp := input.Map(func(v float64) float64 { return math.Exp(v - maxVal) })
	return exp.Scale(1 / exp.Sum())
}

// Backward applies the softmax Jacobian:
//
//	dx_i = y_i * (e_i - Σ_j e_j y_j)
func (s *Softmax) Backward(_, output, upstream *tensor.Tensor) *tensor.Tensor {
	dot := floats.Dot(upstream.Data(), output.Data())
	return output.Mul(upstream.AddScalar(-dot))
}
