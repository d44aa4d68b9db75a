package optim

import (
	"fmt"

	"github.com/born-ml/gradnet/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	delta = lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	delta    = lr * velocity
//
// Momentum helps accelerate SGD in relevant directions and dampens oscillations.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	lr       float64
	momentum float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		panic(fmt.Sprintf("sgd: momentum %g outside [0, 1)", config.Momentum))
	}

	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// ExtraParams returns 1 when momentum is enabled (the velocity), else 0.
func (s *SGD) ExtraParams() int {
	if s.momentum == 0 {
		return 0
	}
	return 1
}

// Optimize returns lr * grad, or lr * velocity with momentum.
func (s *SGD) Optimize(grad *tensor.Tensor, aux []*tensor.Tensor) *tensor.Tensor {
	if s.momentum == 0 {
		return grad.Scale(s.lr)
	}
	aux[0] = aux[0].Scale(s.momentum).Add(grad)
	return aux[0].Scale(s.lr)
}

// Update is a no-op.
func (s *SGD) Update() {}

// LR returns the learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float64 {
	return s.momentum
}
