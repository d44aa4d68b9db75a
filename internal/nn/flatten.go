package nn

import (
	"fmt"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Flatten reshapes any input into a rank-1 tensor, typically between the
// spatial layers and the first Linear layer.
type Flatten struct {
	shapes
}

// NewFlatten creates a Flatten layer.
func NewFlatten() *Flatten {
	return &Flatten{}
}

// Init computes [prod(inputShape)].
func (f *Flatten) Init(inputShape tensor.Shape) (tensor.Shape, error) {
	if err := f.initOnce("flatten"); err != nil {
		return nil, err
	}
	if err := inputShape.Validate(); err != nil {
		return nil, tensor.NewShapeError("flatten", inputShape, "%v", err)
	}
	return f.fix(inputShape, tensor.Shape{inputShape.NumElements()}), nil
}

// Forward returns the input as a vector.
func (f *Flatten) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	return input.Reshape(f.out...)
}

// Backward restores the input shape.
func (f *Flatten) Backward(_, _, upstream *tensor.Tensor) *tensor.Tensor {
	return upstream.Reshape(f.in...)
}

// String returns a string representation of the layer.
func (f *Flatten) String() string {
	return fmt.Sprintf("Flatten %v -> %v", f.in, f.out)
}
