package nn

import (
	"fmt"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Besides its value, a parameter owns the gradient accumulated over the
// current batch and the auxiliary tensors its optimizer keeps between
// steps (running averages, velocities). Optimizers never track parameter
// identity themselves; they receive the Aux slice on every call.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad()
type Parameter struct {
	name        string
	value       *tensor.Tensor
	grad        *tensor.Tensor
	aux         []*tensor.Tensor
	owner       any
	regularized bool
}

// NewParameter creates a new trainable parameter with a zeroed gradient.
//
// Parameters are regularized by default; biases opt out with
// SetRegularized(false).
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:        name,
		value:       t,
		grad:        tensor.ZerosLike(t),
		regularized: true,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the current parameter value.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.value
}

// Grad returns the gradient accumulated since the last ZeroGrad.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// Accumulate adds g to the gradient accumulator.
func (p *Parameter) Accumulate(g *tensor.Tensor) {
	p.grad.AddInPlace(g)
}

// ZeroGrad resets the gradient accumulator to zeros.
func (p *Parameter) ZeroGrad() {
	clear(p.grad.Data())
}

// Regularized reports whether regularizers apply to this parameter.
func (p *Parameter) Regularized() bool {
	return p.regularized
}

// SetRegularized toggles regularization for this parameter.
func (p *Parameter) SetRegularized(on bool) {
	p.regularized = on
}

// Attach allocates n zero-filled auxiliary tensors shaped like the value
// and records owner as the optimizer they belong to. Any previous
// optimizer state is discarded.
func (p *Parameter) Attach(owner any, n int) {
	p.owner = owner
	p.aux = make([]*tensor.Tensor, n)
	for i := range p.aux {
		p.aux[i] = tensor.ZerosLike(p.value)
	}
}

// Owner returns the optimizer passed to the last Attach, or nil.
func (p *Parameter) Owner() any {
	return p.owner
}

// Aux returns the auxiliary optimizer state. Optimizers replace or
// mutate its elements in place.
func (p *Parameter) Aux() []*tensor.Tensor {
	return p.aux
}

// Apply subtracts delta from the parameter value.
func (p *Parameter) Apply(delta *tensor.Tensor) {
	p.value = p.value.Sub(delta)
}

// String returns "name[shape]".
func (p *Parameter) String() string {
	return fmt.Sprintf("%s%v", p.name, p.value.Shape())
}
