package optim

import (
	"math"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSprop and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	m_t   = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t   = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                          // Bias correction
//	v_hat = v_t / (1 - beta2^t)                          // Bias correction
//	delta = lr * m_hat / (sqrt(v_hat) + eps)
//
// The timestep t starts at 1 and is advanced by Update, so every
// parameter of one step shares the same bias correction.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int // Timestep for bias correction
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = epsilon
	}

	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		t:     1,
	}
}

// ExtraParams returns 2: first and second moment estimates.
func (a *Adam) ExtraParams() int {
	return 2
}

// Optimize updates the moments in aux and returns the bias-corrected delta.
func (a *Adam) Optimize(grad *tensor.Tensor, aux []*tensor.Tensor) *tensor.Tensor {
	biasCorrection1 := 1 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(a.t))

	aux[0] = aux[0].Scale(a.beta1).Add(grad.Scale(1 - a.beta1))
	aux[1] = aux[1].Scale(a.beta2).Add(grad.Square().Scale(1 - a.beta2))

	mHat := aux[0].Scale(1 / biasCorrection1)
	vHat := aux[1].Scale(1 / biasCorrection2)
	return mHat.Scale(a.lr).Div(vHat.Sqrt().AddScalar(a.eps))
}

// Update advances the timestep.
func (a *Adam) Update() {
	a.t++
}

// LR returns the learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// Step returns the current timestep.
func (a *Adam) Step() int {
	return a.t
}
