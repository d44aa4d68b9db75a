package nn

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Dropout randomly zeroes inputs during training (inverted dropout).
//
// In training mode each element is kept with probability 1-rate and
// scaled by 1/(1-rate), so inference needs no rescaling. Outside training
// the layer is the identity. The mask drawn by Forward is reused by the
// next Backward.
type Dropout struct {
	shapes
	rate float64
	src  rand.Source
	mask *tensor.Tensor // nil after an inference Forward
}

// NewDropout creates a Dropout layer. rate must be in [0, 1).
func NewDropout(rate float64) *Dropout {
	if rate < 0 || rate >= 1 {
		panic(fmt.Sprintf("dropout: rate %g outside [0, 1)", rate))
	}
	return &Dropout{rate: rate}
}

// SetSource sets the random source used to draw masks.
func (d *Dropout) SetSource(src rand.Source) {
	d.src = src
}

// Init accepts any valid shape.
func (d *Dropout) Init(inputShape tensor.Shape) (tensor.Shape, error) {
	if err := d.initOnce("dropout"); err != nil {
		return nil, err
	}
	if err := inputShape.Validate(); err != nil {
		return nil, tensor.NewShapeError("dropout", inputShape, "%v", err)
	}
	return d.fix(inputShape, inputShape), nil
}

// Forward masks the input in training mode.
func (d *Dropout) Forward(input *tensor.Tensor, training bool) *tensor.Tensor {
	if !training || d.rate == 0 {
		d.mask = nil
		return input
	}

	keep := distuv.Bernoulli{P: 1 - d.rate, Src: d.src}
	scale := 1 / (1 - d.rate)
	d.mask = tensor.Fill(input.Shape(), func(int) float64 { return keep.Rand() * scale })
	return input.Mul(d.mask)
}

// Backward applies the mask of the last Forward to the error.
func (d *Dropout) Backward(_, _, upstream *tensor.Tensor) *tensor.Tensor {
	if d.mask == nil {
		return upstream
	}
	return upstream.Mul(d.mask)
}

// Rate returns the drop probability.
func (d *Dropout) Rate() float64 {
	return d.rate
}

// String returns a string representation of the layer.
func (d *Dropout) String() string {
	return fmt.Sprintf("Dropout(rate=%g) %v", d.rate, d.in)
}
