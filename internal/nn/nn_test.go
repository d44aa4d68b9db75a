package nn

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradnet/internal/tensor"
)

func TestLinear_ForwardKnownWeights(t *testing.T) {
	layer := NewLinear(2)
	out, err := layer.Init(tensor.Shape{3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, out)

	// W = [[1 2 3] [4 5 6]], b = [0.5 -1]
	copy(layer.Weight().Tensor().Data(), []float64{1, 2, 3, 4, 5, 6})
	copy(layer.Bias().Tensor().Data(), []float64{0.5, -1})

	y := layer.Forward(tensor.Vector(1, 0, -1), false)
	assert.Equal(t, []float64{-1.5, -3}, y.Data())

	// Backward: dx = Wᵀe, dW = e·xᵀ, db = e.
	dx := layer.Backward(tensor.Vector(1, 0, -1), y, tensor.Vector(1, 2))
	assert.Equal(t, []float64{9, 12, 15}, dx.Data())
	assert.Equal(t, []float64{1, 0, -1, 2, 0, -2}, layer.Weight().Grad().Data())
	assert.Equal(t, []float64{1, 2}, layer.Bias().Grad().Data())

	// A second Backward accumulates.
	layer.Backward(tensor.Vector(1, 0, -1), y, tensor.Vector(1, 2))
	assert.Equal(t, []float64{2, 4}, layer.Bias().Grad().Data())
}

func TestLinear_InitRejectsRank(t *testing.T) {
	_, err := NewLinear(2).Init(tensor.Shape{2, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tensor.ErrShape))
	assert.Panics(t, func() { NewLinear(0) })
}

func TestLinear_NoBias(t *testing.T) {
	layer := NewLinearNoBias(4)
	_, err := layer.Init(tensor.Shape{2})
	require.NoError(t, err)
	assert.Len(t, layer.Parameters(), 1)
	assert.Nil(t, layer.Bias())
}

func TestLinear_XavierBounds(t *testing.T) {
	layer := NewLinear(10)
	layer.SetSource(rand.NewPCG(1, 2))
	_, err := layer.Init(tensor.Shape{20})
	require.NoError(t, err)

	bound := math.Sqrt(6.0 / 30.0)
	for _, w := range layer.Weight().Tensor().Data() {
		assert.LessOrEqual(t, math.Abs(w), bound)
	}
	assert.True(t, layer.Weight().Regularized())
	assert.False(t, layer.Bias().Regularized())
}

func TestLinear_SeededInitIsDeterministic(t *testing.T) {
	a, b := NewLinear(3), NewLinear(3)
	a.SetSource(rand.NewPCG(7, 7))
	b.SetSource(rand.NewPCG(7, 7))
	_, err := a.Init(tensor.Shape{3})
	require.NoError(t, err)
	_, err = b.Init(tensor.Shape{3})
	require.NoError(t, err)
	assert.Equal(t, a.Weight().Tensor().Data(), b.Weight().Tensor().Data())
}

func TestActivations_ForwardValues(t *testing.T) {
	x := tensor.Vector(-2, 0, 3)

	tests := []struct {
		layer Layer
		want  []float64
	}{
		{NewReLU(), []float64{0, 0, 3}},
		{NewLeakyReLU(0.5), []float64{-1, 0, 3}},
		{NewSigmoid(), []float64{1 / (1 + math.Exp(2)), 0.5, 1 / (1 + math.Exp(-3))}},
		{NewTanh(), []float64{math.Tanh(-2), 0, math.Tanh(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.layer.String(), func(t *testing.T) {
			out, err := tt.layer.Init(x.Shape())
			require.NoError(t, err)
			assert.Equal(t, x.Shape(), out)
			assert.InDeltaSlice(t, tt.want, tt.layer.Forward(x, false).Data(), 1e-12)
			assert.Equal(t, []float64{-2, 0, 3}, x.Data(), "input must not change")
		})
	}
}

func TestSoftmax_SumsToOneAndIsStable(t *testing.T) {
	s := NewSoftmax()
	_, err := s.Init(tensor.Shape{3})
	require.NoError(t, err)

	y := s.Forward(tensor.Vector(1000, 1001, 1002), false)
	assert.False(t, y.HasNaN())
	assert.InDelta(t, 1.0, y.Sum(), 1e-12)
	assert.Equal(t, 2, y.ArgMax())
}

func TestLeakyReLU_DefaultAlpha(t *testing.T) {
	l := NewLeakyReLU(0)
	assert.Equal(t, 0.01, l.alpha)
}

func TestDropout(t *testing.T) {
	d := NewDropout(0.5)
	d.SetSource(rand.NewPCG(1, 1))
	_, err := d.Init(tensor.Shape{1000})
	require.NoError(t, err)

	x := tensor.Ones(tensor.Shape{1000})

	t.Run("inference is identity", func(t *testing.T) {
		y := d.Forward(x, false)
		assert.Equal(t, x.Data(), y.Data())
		assert.Equal(t, x.Data(), d.Backward(x, y, x).Data())
	})

	t.Run("training masks and rescales", func(t *testing.T) {
		y := d.Forward(x, true)
		kept := 0
		for _, v := range y.Data() {
			if v != 0 {
				assert.Equal(t, 2.0, v)
				kept++
			}
		}
		assert.InDelta(t, 500, kept, 100)

		// Backward reuses the same mask.
		dx := d.Backward(x, y, x)
		assert.Equal(t, y.Data(), dx.Data())
	})

	assert.Panics(t, func() { NewDropout(1) })
	assert.Panics(t, func() { NewDropout(-0.1) })
}

func TestFlatten(t *testing.T) {
	f := NewFlatten()
	out, err := f.Init(tensor.Shape{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{24}, out)

	x := tensor.Fill(tensor.Shape{2, 3, 4}, func(i int) float64 { return float64(i) })
	y := f.Forward(x, false)
	assert.Equal(t, x.Data(), y.Data())
	assert.Equal(t, tensor.Shape{2, 3, 4}, f.Backward(x, y, y).Shape())
}

func TestConv2D_KnownValues(t *testing.T) {
	// Single 2x2 filter of ones over a 3x3 single-channel input gives the
	// sum of each 2x2 block.
	conv := NewConv2D(1, 2, 1, 0).WithoutBias()
	out, err := conv.Init(tensor.Shape{3, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2, 1}, out)
	copy(conv.Weight().Tensor().Data(), []float64{1, 1, 1, 1})

	x := tensor.Fill(tensor.Shape{3, 3, 1}, func(i int) float64 { return float64(i + 1) })
	// x=0: 1 2 3, x=1: 4 5 6, x=2: 7 8 9
	y := conv.Forward(x, false)
	assert.Equal(t, []float64{12, 16, 24, 28}, y.Data())
}

func TestConv2D_InitRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name  string
		conv  *Conv2D
		input tensor.Shape
	}{
		{"does not tile", NewConv2D(1, 2, 2, 0), tensor.Shape{5, 4, 1}},
		{"window exceeds padded", NewConv2D(1, 5, 1, 0), tensor.Shape{3, 3, 1}},
		{"rank", NewConv2D(1, 2, 1, 0), tensor.Shape{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.conv.Init(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tensor.ErrShape))
			assert.Nil(t, tt.conv.Weight())
		})
	}

	// Padding can make an otherwise non-tiling geometry valid.
	out, err := NewConv2D(4, 2, 2, 1).Init(tensor.Shape{4, 4, 3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 3, 4}, out)
}

func TestConv2D_ConstructorPanics(t *testing.T) {
	assert.Panics(t, func() { NewConv2D(0, 3, 1, 0) })
	assert.Panics(t, func() { NewConv2D(1, 0, 1, 0) })
	assert.Panics(t, func() { NewConv2D(1, 3, 0, 0) })
	assert.Panics(t, func() { NewConv2D(1, 3, 1, -1) })
}

func TestLosses_Values(t *testing.T) {
	p := tensor.Vector(0.8, 0.2)
	y := tensor.Vector(1, 0)

	assert.InDelta(t, (0.04+0.04)/2, NewMSELoss().Loss(p, y), 1e-12)
	assert.InDelta(t, -math.Log(0.8), NewBinaryCrossEntropyLoss().Loss(p, y), 1e-12)
	assert.InDelta(t, -math.Log(0.8), NewCrossEntropyLoss().Loss(p, y), 1e-12)

	// Saturated predictions stay finite.
	bce := NewBinaryCrossEntropyLoss()
	assert.False(t, math.IsInf(bce.Loss(tensor.Vector(0), tensor.Vector(1)), 0))
	assert.False(t, bce.Derivative(tensor.Vector(1), tensor.Vector(0)).HasNaN())

	assert.Panics(t, func() { NewMSELoss().Loss(p, tensor.Vector(1)) })
}

func TestParameter_Lifecycle(t *testing.T) {
	p := NewParameter("w", tensor.Vector(1, 2))
	assert.Equal(t, "w[2]", p.String())
	assert.Equal(t, []float64{0, 0}, p.Grad().Data())

	p.Accumulate(tensor.Vector(0.5, 0.5))
	p.Accumulate(tensor.Vector(0.5, 0.5))
	assert.Equal(t, []float64{1, 1}, p.Grad().Data())
	p.ZeroGrad()
	assert.Equal(t, []float64{0, 0}, p.Grad().Data())

	assert.Nil(t, p.Owner())
	p.Attach("opt", 2)
	assert.Equal(t, "opt", p.Owner())
	require.Len(t, p.Aux(), 2)
	for _, a := range p.Aux() {
		assert.Equal(t, []float64{0, 0}, a.Data())
	}

	before := p.Tensor()
	p.Apply(tensor.Vector(0.5, 1))
	assert.Equal(t, []float64{0.5, 1}, p.Tensor().Data())
	assert.Equal(t, []float64{1, 2}, before.Data(), "Apply must not mutate the previous value")
}
