package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Regularizer penalizes large weights. Its Derivative is added to the
// gradient of every regularized parameter before the optimizer runs.
type Regularizer interface {
	Loss(weights *tensor.Tensor) float64
	Derivative(weights *tensor.Tensor) *tensor.Tensor
}

// L1 adds Lambda·Σ|w|.
type L1 struct {
	Lambda float64
}

// Loss returns Lambda·Σ|w|.
func (r L1) Loss(w *tensor.Tensor) float64 {
	return r.Lambda * w.Map(math.Abs).Sum()
}

// Derivative returns Lambda·sign(w); the subgradient at zero is zero.
func (r L1) Derivative(w *tensor.Tensor) *tensor.Tensor {
	return w.Map(func(v float64) float64 {
		switch {
		case v > 0:
			return r.Lambda
		case v < 0:
			return -r.Lambda
		default:
			return 0
		}
	})
}

func (r L1) String() string { return fmt.Sprintf("L1(%g)", r.Lambda) }

// L2 adds Lambda/2·Σw² (weight decay).
type L2 struct {
	Lambda float64
}

// Loss returns Lambda/2·Σw².
func (r L2) Loss(w *tensor.Tensor) float64 {
	return r.Lambda / 2 * w.Dot(w)
}

// Derivative returns Lambda·w.
func (r L2) Derivative(w *tensor.Tensor) *tensor.Tensor {
	return w.Scale(r.Lambda)
}

func (r L2) String() string { return fmt.Sprintf("L2(%g)", r.Lambda) }

// ElasticNet combines L1 and L2 penalties.
type ElasticNet struct {
	L1Lambda float64
	L2Lambda float64
}

// Loss returns the sum of both penalties.
func (r ElasticNet) Loss(w *tensor.Tensor) float64 {
	return L1{r.L1Lambda}.Loss(w) + L2{r.L2Lambda}.Loss(w)
}

// Derivative returns the sum of both derivatives.
func (r ElasticNet) Derivative(w *tensor.Tensor) *tensor.Tensor {
	return L1{r.L1Lambda}.Derivative(w).Add(L2{r.L2Lambda}.Derivative(w))
}

func (r ElasticNet) String() string {
	return fmt.Sprintf("ElasticNet(l1=%g, l2=%g)", r.L1Lambda, r.L2Lambda)
}
