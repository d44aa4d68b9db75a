package nn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// A nil src draws from the global math/rand/v2 source.
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	return tensor.Fill(shape, func(int) float64 { return dist.Rand() })
}

// He initialization for weights feeding ReLU-family activations.
//
// Draws from N(0, 2/fan_in).
func He(fanIn int, shape tensor.Shape, src rand.Source) *tensor.Tensor {
	dist := distuv.Normal{Mu: 0, Sigma: math.Sqrt(2.0 / float64(fanIn)), Src: src}
	return tensor.Fill(shape, func(int) float64 { return dist.Rand() })
}

// Initializer fills a freshly allocated weight tensor.
type Initializer func(fanIn, fanOut int, shape tensor.Shape, src rand.Source) *tensor.Tensor

// HeInit adapts He to the Initializer signature.
func HeInit(fanIn, _ int, shape tensor.Shape, src rand.Source) *tensor.Tensor {
	return He(fanIn, shape, src)
}

// Zeros creates a tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros(shape tensor.Shape) *tensor.Tensor {
	return tensor.Zeros(shape)
}
