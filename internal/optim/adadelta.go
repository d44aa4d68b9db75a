package optim

import (
	"fmt"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Adadelta scales each gradient element by the root of an exponential
// moving average of its past squares.
//
// Update rule:
//
//	avgSqGrad = rho * avgSqGrad + (1 - rho) * grad²
//	delta     = stepSize * grad / (sqrt(avgSqGrad) + eps)
//
// The average accumulates without epsilon; epsilon only stabilizes the
// division when gradients have been near zero.
//
// Example:
//
//	opt := optim.NewAdadelta(optim.AdadeltaConfig{}) // rho 0.9, step 0.1
type Adadelta struct {
	rho      float64
	stepSize float64
}

// AdadeltaConfig holds configuration for the Adadelta optimizer.
type AdadeltaConfig struct {
	Rho      float64 // Decay of the squared-gradient average in (0, 1); zero selects 0.9
	StepSize float64 // Step size (default: 0.1)
}

// NewAdadelta creates a new Adadelta optimizer.
func NewAdadelta(config AdadeltaConfig) *Adadelta {
	if config.Rho == 0 {
		config.Rho = 0.9
	}
	if config.StepSize == 0 {
		config.StepSize = 0.1
	}
	if config.Rho <= 0 || config.Rho >= 1 {
		panic(fmt.Sprintf("adadelta: rho %g outside (0, 1)", config.Rho))
	}

	return &Adadelta{
		rho:      config.Rho,
		stepSize: config.StepSize,
	}
}

// ExtraParams returns 1: the running average of squared gradients.
func (a *Adadelta) ExtraParams() int {
	return 1
}

// Optimize updates aux[0] and returns the delta.
func (a *Adadelta) Optimize(grad *tensor.Tensor, aux []*tensor.Tensor) *tensor.Tensor {
	aux[0] = aux[0].Scale(a.rho).Add(grad.Square().Scale(1 - a.rho))
	return grad.Scale(a.stepSize).Div(aux[0].Sqrt().AddScalar(epsilon))
}

// Update is a no-op; Adadelta has no per-step schedule.
func (a *Adadelta) Update() {}

// Rho returns the decay factor.
func (a *Adadelta) Rho() float64 {
	return a.rho
}

// StepSize returns the step size.
func (a *Adadelta) StepSize() float64 {
	return a.stepSize
}
