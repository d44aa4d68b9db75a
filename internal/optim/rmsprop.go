package optim

import "github.com/born-ml/gradnet/internal/tensor"

// RMSProp divides the learning rate by a running RMS of recent gradients.
//
//	avgSq = decay * avgSq + (1 - decay) * grad²
//	delta = lr * grad / (sqrt(avgSq) + eps)
type RMSProp struct {
	lr    float64
	decay float64
}

// RMSPropConfig holds configuration for RMSProp.
type RMSPropConfig struct {
	LR    float64 // Learning rate (default: 0.001)
	Decay float64 // Decay of the squared-gradient average (default: 0.9)
}

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(config RMSPropConfig) *RMSProp {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Decay == 0 {
		config.Decay = 0.9
	}
	return &RMSProp{lr: config.LR, decay: config.Decay}
}

// ExtraParams returns 1.
func (r *RMSProp) ExtraParams() int {
	return 1
}

// Optimize updates aux[0] and returns the delta.
func (r *RMSProp) Optimize(grad *tensor.Tensor, aux []*tensor.Tensor) *tensor.Tensor {
	aux[0] = aux[0].Scale(r.decay).Add(grad.Square().Scale(1 - r.decay))
	return grad.Scale(r.lr).Div(aux[0].Sqrt().AddScalar(epsilon))
}

// Update is a no-op.
func (r *RMSProp) Update() {}
