package optim_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradnet/internal/nn"
	"github.com/born-ml/gradnet/internal/optim"
	"github.com/born-ml/gradnet/internal/tensor"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// newParam builds a single-element parameter with an accumulated gradient.
func newParam(value, grad float64) *nn.Parameter {
	p := nn.NewParameter("x", tensor.Vector(value))
	p.Accumulate(tensor.Vector(grad))
	return p
}

func TestAdadelta_Defaults(t *testing.T) {
	opt := optim.NewAdadelta(optim.AdadeltaConfig{})
	assert.Equal(t, 0.9, opt.Rho())
	assert.Equal(t, 0.1, opt.StepSize())
	assert.Equal(t, 1, opt.ExtraParams())

	assert.PanicsWithValue(t, "adadelta: rho 1 outside (0, 1)", func() { optim.NewAdadelta(optim.AdadeltaConfig{Rho: 1}) })
	assert.PanicsWithValue(t, "adadelta: rho -0.5 outside (0, 1)", func() { optim.NewAdadelta(optim.AdadeltaConfig{Rho: -0.5}) })

	// Zero is not a valid decay; it selects the default.
	assert.Equal(t, 0.9, optim.NewAdadelta(optim.AdadeltaConfig{Rho: 0}).Rho())
	assert.Equal(t, 0.5, optim.NewAdadelta(optim.AdadeltaConfig{Rho: 0.5}).Rho())
}

// TestAdadelta_FirstStep checks the closed form of the first update:
// avg = 0.1g², delta = 0.1g / (sqrt(0.1g²) + 1e-8).
func TestAdadelta_FirstStep(t *testing.T) {
	opt := optim.NewAdadelta(optim.AdadeltaConfig{})

	grad := tensor.Vector(2, -0.5, 1e-3)
	aux := []*tensor.Tensor{tensor.ZerosLike(grad)}
	delta := opt.Optimize(grad, aux)

	for i, g := range grad.Data() {
		avg := 0.1 * g * g
		assert.InDelta(t, avg, aux[0].FlatGet(i), 1e-15, "avg[%d]", i)
		assert.InDelta(t, 0.1*g/(math.Sqrt(avg)+1e-8), delta.FlatGet(i), 1e-12, "delta[%d]", i)
	}
	assert.Equal(t, []float64{2, -0.5, 1e-3}, grad.Data(), "gradient must not change")
}

func TestAdadelta_SecondStep(t *testing.T) {
	opt := optim.NewAdadelta(optim.AdadeltaConfig{})
	aux := []*tensor.Tensor{tensor.Zeros(tensor.Shape{1})}

	opt.Optimize(tensor.Vector(1), aux)
	opt.Update()
	delta := opt.Optimize(tensor.Vector(1), aux)

	// avg = 0.9*0.1 + 0.1*1
	assert.InDelta(t, 0.19, aux[0].FlatGet(0), 1e-15)
	assert.InDelta(t, 0.1/(math.Sqrt(0.19)+1e-8), delta.FlatGet(0), 1e-12)
}

func TestAdadelta_ZeroGradientIsStable(t *testing.T) {
	opt := optim.NewAdadelta(optim.AdadeltaConfig{})
	aux := []*tensor.Tensor{tensor.Zeros(tensor.Shape{3})}

	delta := opt.Optimize(tensor.Zeros(tensor.Shape{3}), aux)
	assert.False(t, delta.HasNaN())
	assert.Equal(t, []float64{0, 0, 0}, delta.Data())
	assert.Equal(t, []float64{0, 0, 0}, aux[0].Data())
}

func TestAdadelta_UpdateIsNoOp(t *testing.T) {
	opt := optim.NewAdadelta(optim.AdadeltaConfig{Rho: 0.5, StepSize: 0.2})
	grad := tensor.Vector(0.3)

	a := opt.Optimize(grad, []*tensor.Tensor{tensor.Zeros(tensor.Shape{1})})
	for range 10 {
		opt.Update()
	}
	b := opt.Optimize(grad, []*tensor.Tensor{tensor.Zeros(tensor.Shape{1})})

	assert.Equal(t, a.Data(), b.Data())
	assert.Equal(t, 0.5, opt.Rho())
	assert.Equal(t, 0.2, opt.StepSize())
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	param := newParam(2.0, 1.0)
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	optim.Attach(opt, []*nn.Parameter{param})
	assert.Empty(t, param.Aux())

	optim.Step(opt, []*nn.Parameter{param}, nil, 1)

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if actual := param.Tensor().FlatGet(0); !floatEqual(actual, 1.9, 1e-12) {
		t.Errorf("SGD update: got %f, want %f", actual, 1.9)
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	param := newParam(1.0, 1.0)
	params := []*nn.Parameter{param}
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	optim.Attach(opt, params)
	require.Len(t, param.Aux(), 1)

	// Step 1: v = 1, x = 1 - 0.1*1 = 0.9
	optim.Step(opt, params, nil, 1)
	assert.InDelta(t, 0.9, param.Tensor().FlatGet(0), 1e-12)

	// Step 2: v = 0.9*1 + 1 = 1.9, x = 0.9 - 0.19 = 0.71
	param.Accumulate(tensor.Vector(1))
	optim.Step(opt, params, nil, 1)
	assert.InDelta(t, 0.71, param.Tensor().FlatGet(0), 1e-12)
	assert.InDelta(t, 1.9, param.Aux()[0].FlatGet(0), 1e-12)

	assert.Panics(t, func() { optim.NewSGD(optim.SGDConfig{Momentum: 1}) })
}

func TestAdam_FirstStepIsSignTimesLR(t *testing.T) {
	opt := optim.NewAdam(optim.AdamConfig{LR: 0.1})
	assert.Equal(t, 2, opt.ExtraParams())
	assert.Equal(t, 1, opt.Step())

	grad := tensor.Vector(0.5, -4)
	aux := []*tensor.Tensor{tensor.ZerosLike(grad), tensor.ZerosLike(grad)}
	delta := opt.Optimize(grad, aux)

	// Bias correction makes m_hat = g and v_hat = g² on step 1.
	assert.InDeltaSlice(t, []float64{0.1, -0.1}, delta.Data(), 1e-8)
	assert.InDeltaSlice(t, []float64{0.05, -0.4}, aux[0].Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.00025, 0.016}, aux[1].Data(), 1e-12)
}

func TestAdam_BiasCorrectionAdvancesOnUpdate(t *testing.T) {
	opt := optim.NewAdam(optim.AdamConfig{LR: 0.1})
	param := newParam(0, 1)
	params := []*nn.Parameter{param}
	optim.Attach(opt, params)

	optim.Step(opt, params, nil, 1)
	assert.Equal(t, 2, opt.Step())

	// Constant gradient keeps m_hat/sqrt(v_hat) at 1 on every step.
	param.Accumulate(tensor.Vector(1))
	optim.Step(opt, params, nil, 1)
	assert.InDelta(t, -0.2, param.Tensor().FlatGet(0), 1e-7)
}

func TestRMSPropAndAdagrad_FirstStep(t *testing.T) {
	grad := tensor.Vector(2)

	rms := optim.NewRMSProp(optim.RMSPropConfig{LR: 0.01})
	aux := []*tensor.Tensor{tensor.Zeros(tensor.Shape{1})}
	delta := rms.Optimize(grad, aux)
	assert.InDelta(t, 0.4, aux[0].FlatGet(0), 1e-12)
	assert.InDelta(t, 0.02/(math.Sqrt(0.4)+1e-8), delta.FlatGet(0), 1e-12)

	ada := optim.NewAdagrad(0.5)
	aux = []*tensor.Tensor{tensor.Zeros(tensor.Shape{1})}
	ada.Optimize(grad, aux)
	delta = ada.Optimize(grad, aux)
	assert.InDelta(t, 8, aux[0].FlatGet(0), 1e-12)
	assert.InDelta(t, 1/(math.Sqrt(8)+1e-8), delta.FlatGet(0), 1e-12)
}

func TestStep_AveragesBatchAndRegularizes(t *testing.T) {
	w := nn.NewParameter("w", tensor.Vector(1))
	b := nn.NewParameter("b", tensor.Vector(1))
	b.SetRegularized(false)
	params := []*nn.Parameter{w, b}

	// Two examples accumulated a total gradient of 4.
	w.Accumulate(tensor.Vector(4))
	b.Accumulate(tensor.Vector(4))

	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	optim.Step(opt, params, nn.L2{Lambda: 0.5}, 2)

	// w: g = 4/2 + 0.5*1 = 2.5, b: g = 2
	assert.InDelta(t, 0.75, w.Tensor().FlatGet(0), 1e-12)
	assert.InDelta(t, 0.8, b.Tensor().FlatGet(0), 1e-12)
	assert.Equal(t, []float64{0}, w.Grad().Data())
	assert.Equal(t, []float64{0}, b.Grad().Data())
}

// TestConvergence_SimpleQuadratic minimizes f(x) = (x - 3)².
func TestConvergence_SimpleQuadratic(t *testing.T) {
	tests := []struct {
		name string
		opt  optim.Optimizer
	}{
		{"adadelta", optim.NewAdadelta(optim.AdadeltaConfig{})},
		{"adam", optim.NewAdam(optim.AdamConfig{LR: 0.1})},
		{"sgd", optim.NewSGD(optim.SGDConfig{LR: 0.1})},
		{"momentum", optim.NewSGD(optim.SGDConfig{LR: 0.01, Momentum: 0.9})},
		{"rmsprop", optim.NewRMSProp(optim.RMSPropConfig{LR: 0.01})},
		{"adagrad", optim.NewAdagrad(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := nn.NewParameter("x", tensor.Vector(0))
			params := []*nn.Parameter{param}
			optim.Attach(tt.opt, params)

			for range 1000 {
				x := param.Tensor().FlatGet(0)
				param.Accumulate(tensor.Vector(2 * (x - 3)))
				optim.Step(tt.opt, params, nil, 1)
			}

			x := param.Tensor().FlatGet(0)
			if !floatEqual(x, 3, 0.1) {
				t.Errorf("%s did not converge: x = %f, want 3", tt.name, x)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, name := range optim.Names {
		opt, err := optim.New(name, 0)
		require.NoError(t, err, name)
		assert.NotNil(t, opt)
	}

	opt, err := optim.New("Adadelta", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, opt.(*optim.Adadelta).StepSize())

	_, err = optim.New("lbfgs", 0)
	assert.True(t, errors.Is(err, optim.ErrUnknownOptimizer))
}

func TestAttached_TracksOwner(t *testing.T) {
	params := []*nn.Parameter{newParam(1, 1), newParam(2, 1)}
	adadelta := optim.NewAdadelta(optim.AdadeltaConfig{})
	rms := optim.NewRMSProp(optim.RMSPropConfig{})

	assert.False(t, optim.Attached(adadelta, params))
	optim.Attach(adadelta, params)
	assert.True(t, optim.Attached(adadelta, params))

	optim.Step(adadelta, params, nil, 1)
	require.NotZero(t, params[0].Aux()[0].FlatGet(0))

	// Same aux count, different optimizer: not attached.
	assert.False(t, optim.Attached(rms, params))
	assert.False(t, optim.Attached(optim.NewAdadelta(optim.AdadeltaConfig{}), params))

	optim.Attach(rms, params)
	assert.True(t, optim.Attached(rms, params))
	for _, p := range params {
		assert.Equal(t, []float64{0}, p.Aux()[0].Data())
	}
}
