package train

import (
	"github.com/born-ml/gradnet/internal/data"
	"github.com/born-ml/gradnet/internal/nn"
	"github.com/born-ml/gradnet/internal/tensor"
)

// Result is the outcome of evaluating a network on a dataset.
type Result struct {
	Loss     float64 // Mean loss
	Accuracy float64 // Fraction of examples classified correctly
	N        int
}

// Evaluate runs net in inference mode over ds.
//
// Single-output networks are scored as binary classifiers with a 0.5
// threshold; wider outputs compare the argmax of prediction and target.
func Evaluate(net *nn.Sequential, loss nn.Loss, ds *data.Dataset) Result {
	if ds.Len() == 0 {
		return Result{}
	}
	var total float64
	var correct int
	for i, x := range ds.X {
		out := net.Predict(x)
		total += loss.Loss(out, ds.Y[i])
		if Correct(out, ds.Y[i]) {
			correct++
		}
	}
	return Result{
		Loss:     total / float64(ds.Len()),
		Accuracy: float64(correct) / float64(ds.Len()),
		N:        ds.Len(),
	}
}

// Correct reports whether a prediction matches its target.
func Correct(predicted, target *tensor.Tensor) bool {
	if predicted.NumElements() == 1 {
		return (predicted.FlatGet(0) >= 0.5) == (target.FlatGet(0) >= 0.5)
	}
	return predicted.ArgMax() == target.ArgMax()
}
