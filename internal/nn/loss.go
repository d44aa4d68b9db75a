package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/gradnet/internal/tensor"
)

// probEps clamps probabilities away from 0 and 1 before taking logs.
const probEps = 1e-15

// Loss measures the error of one prediction and supplies the gradient
// that seeds backward propagation.
type Loss interface {
	// Loss returns the scalar loss of predicted against target.
	Loss(predicted, target *tensor.Tensor) float64

	// Derivative returns dLoss/dPredicted, shaped like predicted.
	Derivative(predicted, target *tensor.Tensor) *tensor.Tensor

	String() string
}

func checkLossShapes(name string, predicted, target *tensor.Tensor) {
	if !predicted.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("%s: predictions %v and targets %v must have the same shape",
			name, predicted.Shape(), target.Shape()))
	}
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is commonly used for regression tasks where the goal is to predict
// continuous values.
type MSELoss struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Loss computes mean((p - t)²).
func (*MSELoss) Loss(predicted, target *tensor.Tensor) float64 {
	checkLossShapes("MSELoss", predicted, target)
	diff := predicted.Sub(target)
	return diff.Dot(diff) / float64(diff.NumElements())
}

// Derivative computes 2(p - t)/n.
func (*MSELoss) Derivative(predicted, target *tensor.Tensor) *tensor.Tensor {
	checkLossShapes("MSELoss", predicted, target)
	return predicted.Sub(target).Scale(2 / float64(predicted.NumElements()))
}

func (*MSELoss) String() string { return "MSELoss" }

// BinaryCrossEntropyLoss is the log loss for independent probabilities,
// usually behind a Sigmoid output.
//
// Loss = -mean(t·log(p) + (1-t)·log(1-p))
type BinaryCrossEntropyLoss struct{}

// NewBinaryCrossEntropyLoss creates a binary cross-entropy loss.
func NewBinaryCrossEntropyLoss() *BinaryCrossEntropyLoss {
	return &BinaryCrossEntropyLoss{}
}

// Loss computes the mean binary cross-entropy.
func (*BinaryCrossEntropyLoss) Loss(predicted, target *tensor.Tensor) float64 {
	checkLossShapes("BinaryCrossEntropyLoss", predicted, target)
	p, t := predicted.Data(), target.Data()
	var sum float64
	for i := range p {
		q := clampProb(p[i])
		sum -= t[i]*math.Log(q) + (1-t[i])*math.Log(1-q)
	}
	return sum / float64(len(p))
}

// Derivative computes (p - t) / (p(1-p)) / n.
func (*BinaryCrossEntropyLoss) Derivative(predicted, target *tensor.Tensor) *tensor.Tensor {
	checkLossShapes("BinaryCrossEntropyLoss", predicted, target)
	p, t := predicted.Data(), target.Data()
	n := float64(len(p))
	return tensor.Fill(predicted.Shape(), func(i int) float64 {
		q := clampProb(p[i])
		return (q - t[i]) / (q * (1 - q)) / n
	})
}

func (*BinaryCrossEntropyLoss) String() string { return "BinaryCrossEntropyLoss" }

// CrossEntropyLoss is the categorical cross-entropy for one-hot targets,
// usually behind a Softmax output.
//
// Loss = -Σ t·log(p)
type CrossEntropyLoss struct{}

// NewCrossEntropyLoss creates a categorical cross-entropy loss.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return &CrossEntropyLoss{}
}

// Loss computes -Σ t·log(p).
func (*CrossEntropyLoss) Loss(predicted, target *tensor.Tensor) float64 {
	checkLossShapes("CrossEntropyLoss", predicted, target)
	p, t := predicted.Data(), target.Data()
	var sum float64
	for i := range p {
		if t[i] != 0 {
			sum -= t[i] * math.Log(clampProb(p[i]))
		}
	}
	return sum
}

// Derivative computes -t/p.
func (*CrossEntropyLoss) Derivative(predicted, target *tensor.Tensor) *tensor.Tensor {
	checkLossShapes("CrossEntropyLoss", predicted, target)
	p, t := predicted.Data(), target.Data()
	return tensor.Fill(predicted.Shape(), func(i int) float64 {
		return -t[i] / clampProb(p[i])
	})
}

func (*CrossEntropyLoss) String() string { return "CrossEntropyLoss" }

func clampProb(p float64) float64 {
	return math.Min(math.Max(p, probEps), 1-probEps)
}
