package optim

import "github.com/born-ml/gradnet/internal/tensor"

// Adagrad scales each element by the root of its summed squared
// gradients, so frequently updated weights slow down.
//
//	sumSq = sumSq + grad²
//	delta = lr * grad / (sqrt(sumSq) + eps)
type Adagrad struct {
	lr float64
}

// NewAdagrad creates a new Adagrad optimizer (lr defaults to 0.01).
func NewAdagrad(lr float64) *Adagrad {
	if lr == 0 {
		lr = 0.01
	}
	return &Adagrad{lr: lr}
}

// ExtraParams returns 1: the running sum of squared gradients.
func (a *Adagrad) ExtraParams() int { return 1 }

// Optimize updates aux[0] and returns the delta.
func (a *Adagrad) Optimize(grad *tensor.Tensor, aux []*tensor.Tensor) *tensor.Tensor {
	aux[0] = aux[0].Add(grad.Square())
	return grad.Scale(a.lr).Div(aux[0].Sqrt().AddScalar(epsilon))
}

// Update is a no-op.
func (a *Adagrad) Update() {}
