package nn

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradnet/internal/tensor"
)

const (
	gradEpsilon   = 1e-6
	gradTolerance = 1e-5
)

// randomTensor draws N(0, 1) values from a deterministic source.
func randomTensor(shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	return tensor.Fill(shape, func(int) float64 { return rng.NormFloat64() })
}

// projected returns f(x) = Σ e_i * layer(x)_i, a scalar whose gradient
// with respect to the layer input is exactly Backward(x, y, e).
func projected(layer Layer, x, e *tensor.Tensor) float64 {
	return layer.Forward(x, false).Dot(e)
}

// checkInputGradient compares Backward against central differences.
func checkInputGradient(t *testing.T, layer Layer, x *tensor.Tensor, rng *rand.Rand) {
	t.Helper()

	e := randomTensor(layer.OutputShape(), rng)
	y := layer.Forward(x, false)
	analytic := layer.Backward(x, y, e)
	require.Equal(t, x.Shape(), analytic.Shape())

	for i := range x.NumElements() {
		plus := x.Clone()
		plus.FlatSet(i, plus.FlatGet(i)+gradEpsilon)
		minus := x.Clone()
		minus.FlatSet(i, minus.FlatGet(i)-gradEpsilon)

		numeric := (projected(layer, plus, e) - projected(layer, minus, e)) / (2 * gradEpsilon)
		assert.InDelta(t, numeric, analytic.FlatGet(i), gradTolerance, "d/dx[%d]", i)
	}
}

// checkParamGradients compares accumulated parameter gradients against
// central differences.
func checkParamGradients(t *testing.T, layer Trainable, x *tensor.Tensor, rng *rand.Rand) {
	t.Helper()

	e := randomTensor(layer.OutputShape(), rng)
	for _, p := range layer.Parameters() {
		p.ZeroGrad()
	}
	layer.Backward(x, layer.Forward(x, false), e)

	for _, p := range layer.Parameters() {
		data := p.Tensor().Data()
		for i := range data {
			orig := data[i]
			data[i] = orig + gradEpsilon
			fPlus := projected(layer, x, e)
			data[i] = orig - gradEpsilon
			fMinus := projected(layer, x, e)
			data[i] = orig

			numeric := (fPlus - fMinus) / (2 * gradEpsilon)
			assert.InDelta(t, numeric, p.Grad().FlatGet(i), gradTolerance, "d/d%s[%d]", p.Name(), i)
		}
	}
}

func TestGradients_Linear(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	layer := NewLinear(3)
	layer.SetSource(rand.NewPCG(2, 2))
	_, err := layer.Init(tensor.Shape{4})
	require.NoError(t, err)

	// Non-zero bias so it participates in the forward pass.
	copy(layer.Bias().Tensor().Data(), []float64{0.1, -0.2, 0.3})

	x := randomTensor(tensor.Shape{4}, rng)
	checkInputGradient(t, layer, x, rng)
	checkParamGradients(t, layer, x, rng)
}

func TestGradients_Activations(t *testing.T) {
	layers := map[string]Layer{
		"relu":      NewReLU(),
		"leakyrelu": NewLeakyReLU(0.1),
		"sigmoid":   NewSigmoid(),
		"tanh":      NewTanh(),
		"softmax":   NewSoftmax(),
	}

	for name, layer := range layers {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(3, 3))
			_, err := layer.Init(tensor.Shape{6})
			require.NoError(t, err)
			checkInputGradient(t, layer, randomTensor(tensor.Shape{6}, rng), rng)
		})
	}
}

func TestGradients_Conv2D(t *testing.T) {
	tests := []struct {
		name  string
		conv  *Conv2D
		input tensor.Shape
	}{
		{"3x3 stride 1 no padding", NewConv2D(2, 3, 1, 0), tensor.Shape{4, 5, 2}},
		{"3x3 stride 1 padding 1", NewConv2D(2, 3, 1, 1), tensor.Shape{4, 4, 1}},
		{"rect stride 2", NewConv2DRect(3, 2, 3, 2, 1, 0), tensor.Shape{6, 5, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(4, 4))
			tt.conv.SetSource(rand.NewPCG(5, 5))
			_, err := tt.conv.Init(tt.input)
			require.NoError(t, err)
			for i := range tt.conv.Bias().Tensor().Data() {
				tt.conv.Bias().Tensor().Data()[i] = rng.NormFloat64()
			}

			x := randomTensor(tt.input, rng)
			checkInputGradient(t, tt.conv, x, rng)
			checkParamGradients(t, tt.conv, x, rng)
		})
	}
}

func TestGradients_MaxPool2D(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))
	pool := NewMaxPool2D(2, 1)
	_, err := pool.Init(tensor.Shape{4, 4, 2})
	require.NoError(t, err)

	// Distinct values keep every maximum away from a tie under the
	// finite-difference perturbation.
	perm := rng.Perm(32)
	x := tensor.Fill(tensor.Shape{4, 4, 2}, func(i int) float64 { return float64(perm[i]) })
	checkInputGradient(t, pool, x, rng)
}

func TestGradients_Losses(t *testing.T) {
	losses := []Loss{NewMSELoss(), NewBinaryCrossEntropyLoss(), NewCrossEntropyLoss()}
	predicted := tensor.Vector(0.2, 0.7, 0.1)
	target := tensor.Vector(0, 1, 0)

	for _, loss := range losses {
		t.Run(loss.String(), func(t *testing.T) {
			analytic := loss.Derivative(predicted, target)
			for i := range predicted.NumElements() {
				plus := predicted.Clone()
				plus.FlatSet(i, plus.FlatGet(i)+gradEpsilon)
				minus := predicted.Clone()
				minus.FlatSet(i, minus.FlatGet(i)-gradEpsilon)

				numeric := (loss.Loss(plus, target) - loss.Loss(minus, target)) / (2 * gradEpsilon)
				assert.InDelta(t, numeric, analytic.FlatGet(i), gradTolerance, "dL/dp[%d]", i)
			}
		})
	}
}

func TestGradients_Regularizers(t *testing.T) {
	regs := map[string]Regularizer{
		"l1":      L1{Lambda: 0.3},
		"l2":      L2{Lambda: 0.3},
		"elastic": ElasticNet{L1Lambda: 0.1, L2Lambda: 0.2},
	}
	w := tensor.Vector(0.5, -1.5, 2)

	for name, reg := range regs {
		t.Run(name, func(t *testing.T) {
			analytic := reg.Derivative(w)
			for i := range w.NumElements() {
				plus := w.Clone()
				plus.FlatSet(i, plus.FlatGet(i)+gradEpsilon)
				minus := w.Clone()
				minus.FlatSet(i, minus.FlatGet(i)-gradEpsilon)

				numeric := (reg.Loss(plus) - reg.Loss(minus)) / (2 * gradEpsilon)
				assert.InDelta(t, numeric, analytic.FlatGet(i), gradTolerance, "dR/dw[%d]", i)
			}
		})
	}
}

func TestGradients_SequentialChain(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 8))
	net := NewSequential(
		NewConv2D(2, 2, 1, 0),
		NewTanh(),
		NewMaxPool2D(2, 1),
		NewFlatten(),
		NewLinear(3),
		NewSoftmax(),
	)
	net.SetSource(rand.NewPCG(9, 9))
	require.NoError(t, net.Init(tensor.Shape{5, 5, 1}))

	x := randomTensor(tensor.Shape{5, 5, 1}, rng)
	target := tensor.Vector(0, 1, 0)
	loss := NewCrossEntropyLoss()

	lossAt := func(in *tensor.Tensor) float64 {
		return loss.Loss(net.Predict(in), target)
	}

	acts := net.Forward(x, true)
	analytic := net.Backward(acts, loss.Derivative(acts[len(acts)-1], target))

	for i := range x.NumElements() {
		plus := x.Clone()
		plus.FlatSet(i, plus.FlatGet(i)+gradEpsilon)
		minus := x.Clone()
		minus.FlatSet(i, minus.FlatGet(i)-gradEpsilon)

		numeric := (lossAt(plus) - lossAt(minus)) / (2 * gradEpsilon)
		assert.InDelta(t, numeric, analytic.FlatGet(i), 1e-4, "dL/dx[%d]", i)
	}
}
