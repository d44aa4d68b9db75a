package nn

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = W·x + b
// where:
//   - x is the input vector with shape [in_features]
//   - W is the weight matrix with shape [units, in_features]
//   - b is the bias vector with shape [units]
//   - y is the output vector with shape [units]
//
// The input feature count is taken from Init, so a Linear layer only
// needs its unit count up front. Weights are initialized with Xavier
// unless another Initializer is set; biases start at zero.
//
// Example:
//
//	layer := nn.NewLinear(128)
//	out, err := layer.Init(tensor.Shape{784}) // [128]
type Linear struct {
	shapes
	units   int
	useBias bool
	init    Initializer
	src     rand.Source
	weight  *Parameter // [units, in_features]
	bias    *Parameter // [units]
}

// NewLinear creates a Linear layer with bias.
func NewLinear(units int) *Linear {
	if units <= 0 {
		panic(fmt.Sprintf("linear: invalid unit count %d", units))
	}
	return &Linear{
		units:   units,
		useBias: true,
		init:    Xavier,
	}
}

// NewLinearNoBias creates a Linear layer without a bias term.
func NewLinearNoBias(units int) *Linear {
	l := NewLinear(units)
	l.useBias = false
	return l
}

// WithInitializer replaces the weight initializer. Must be called before Init.
func (l *Linear) WithInitializer(init Initializer) *Linear {
	l.init = init
	return l
}

// SetSource sets the random source used for weight initialization.
func (l *Linear) SetSource(src rand.Source) {
	l.src = src
}

// Init allocates weights for a rank-1 input.
func (l *Linear) Init(inputShape tensor.Shape) (tensor.Shape, error) {
	if err := l.initOnce("linear"); err != nil {
		return nil, err
	}
	if len(inputShape) != 1 {
		return nil, tensor.NewShapeError("linear", inputShape, "expected rank 1 input, got rank %d (add a Flatten layer)", len(inputShape))
	}
	if err := inputShape.Validate(); err != nil {
		return nil, tensor.NewShapeError("linear", inputShape, "%v", err)
	}

	inFeatures := inputShape[0]
	l.weight = NewParameter("weight", l.init(inFeatures, l.units, tensor.Shape{l.units, inFeatures}, l.src))
	if l.useBias {
		l.bias = NewParameter("bias", Zeros(tensor.Shape{l.units}))
		l.bias.SetRegularized(false)
	}

	return l.fix(inputShape, tensor.Shape{l.units}), nil
}

// Forward computes W·x + b.
func (l *Linear) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	l.checkInput("linear", input)

	w := l.weightMatrix()
	x := mat.NewVecDense(l.in[0], input.Data())

	y := mat.NewVecDense(l.units, nil)
	y.MulVec(w, x)
	if l.bias != nil {
		y.AddVec(y, mat.NewVecDense(l.units, l.bias.Tensor().Data()))
	}

	return tensor.New(l.out, y.RawVector().Data)
}

// Backward accumulates dW = e·xᵀ and db = e, and returns Wᵀ·e.
func (l *Linear) Backward(input, _, upstream *tensor.Tensor) *tensor.Tensor {
	w := l.weightMatrix()
	x := mat.NewVecDense(l.in[0], input.Data())
	e := mat.NewVecDense(l.units, upstream.Data())

	var dW mat.Dense
	dW.Outer(1, e, x)
	l.weight.Accumulate(tensor.New(tensor.Shape{l.units, l.in[0]}, dW.RawMatrix().Data))
	if l.bias != nil {
		l.bias.Accumulate(upstream)
	}

	down := mat.NewVecDense(l.in[0], nil)
	down.MulVec(w.T(), e)
	return tensor.New(l.in, down.RawVector().Data)
}

// weightMatrix views the weight parameter as a gonum matrix (zero-copy).
func (l *Linear) weightMatrix() *mat.Dense {
	return mat.NewDense(l.units, l.in[0], l.weight.Tensor().Data())
}

// Parameters returns the trainable parameters of this layer.
//
// Returns [weight, bias] if bias is present, otherwise [weight].
func (l *Linear) Parameters() []*Parameter {
	if l.bias != nil {
		return []*Parameter{l.weight, l.bias}
	}
	return []*Parameter{l.weight}
}

// Weight returns the weight parameter (nil before Init).
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter (nil before Init or without bias).
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// Units returns the number of output features.
func (l *Linear) Units() int {
	return l.units
}

// String returns a string representation of the layer.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear(units=%d, bias=%t) %v -> %v", l.units, l.useBias, l.in, l.out)
}
