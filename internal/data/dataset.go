// Package data provides in-memory datasets and synthetic generators used
// to train and evaluate networks.
package data

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/gradnet/internal/tensor"
)

// Dataset errors.
var (
	ErrEmpty      = errors.New("data: empty dataset")
	ErrMismatched = errors.New("data: inputs and targets differ in length")
)

// Dataset is a list of (input, target) pairs.
type Dataset struct {
	X []*tensor.Tensor
	Y []*tensor.Tensor
}

// New pairs inputs with targets.
func New(x, y []*tensor.Tensor) (*Dataset, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d inputs, %d targets", ErrMismatched, len(x), len(y))
	}
	return &Dataset{X: x, Y: y}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.X)
}

// Validate reports whether the dataset can be trained on.
func (d *Dataset) Validate() error {
	if len(d.X) != len(d.Y) {
		return fmt.Errorf("%w: %d inputs, %d targets", ErrMismatched, len(d.X), len(d.Y))
	}
	if len(d.X) == 0 {
		return ErrEmpty
	}
	return nil
}

// Shuffle permutes the examples in place, keeping pairs together.
func (d *Dataset) Shuffle(src rand.Source) {
	rand.New(src).Shuffle(len(d.X), func(i, j int) {
		d.X[i], d.X[j] = d.X[j], d.X[i]
		d.Y[i], d.Y[j] = d.Y[j], d.Y[i]
	})
}

// Split returns the first frac of the examples and the rest. The
// underlying tensors are shared.
func (d *Dataset) Split(frac float64) (head, tail *Dataset) {
	if frac < 0 || frac > 1 {
		panic(fmt.Sprintf("data: split fraction %g outside [0, 1]", frac))
	}
	n := int(float64(d.Len()) * frac)
	return &Dataset{X: d.X[:n], Y: d.Y[:n]}, &Dataset{X: d.X[n:], Y: d.Y[n:]}
}

// Batches splits [0, Len) into consecutive index ranges of at most size
// examples.
func (d *Dataset) Batches(size int) [][2]int {
	if size < 1 {
		size = 1
	}
	var out [][2]int
	for start := 0; start < d.Len(); start += size {
		out = append(out, [2]int{start, min(start+size, d.Len())})
	}
	return out
}

// Concat joins datasets in order.
func Concat(sets ...*Dataset) *Dataset {
	out := &Dataset{}
	for _, s := range sets {
		out.X = append(out.X, s.X...)
		out.Y = append(out.Y, s.Y...)
	}
	return out
}

// Standardize rescales every input feature to zero mean and unit
// variance across the dataset, in place. Constant features are only
// centered. It returns the per-feature means and standard deviations.
func (d *Dataset) Standardize() (mean, std []float64) {
	if d.Len() == 0 {
		return nil, nil
	}
	n := d.X[0].NumElements()
	mean = make([]float64, n)
	std = make([]float64, n)

	column := make([]float64, d.Len())
	for f := range n {
		for i, x := range d.X {
			column[i] = x.FlatGet(f)
		}
		mean[f], std[f] = stat.PopMeanStdDev(column, nil)
		for _, x := range d.X {
			v := x.FlatGet(f) - mean[f]
			if std[f] > 0 {
				v /= std[f]
			}
			x.FlatSet(f, v)
		}
	}
	return mean, std
}

// OneHot returns a length-n vector with a 1 at class.
func OneHot(class, n int) *tensor.Tensor {
	if class < 0 || class >= n {
		panic(fmt.Sprintf("data: class %d outside [0, %d)", class, n))
	}
	t := tensor.Zeros(tensor.Shape{n})
	t.FlatSet(class, 1)
	return t
}

// Gaussian draws n points from an isotropic normal around center, all
// sharing target.
func Gaussian(center []float64, stddev float64, n int, target *tensor.Tensor, src rand.Source) *Dataset {
	dists := make([]distuv.Normal, len(center))
	for i, c := range center {
		dists[i] = distuv.Normal{Mu: c, Sigma: stddev, Src: src}
	}

	out := &Dataset{X: make([]*tensor.Tensor, n), Y: make([]*tensor.Tensor, n)}
	for i := range n {
		out.X[i] = tensor.Fill(tensor.Shape{len(center)}, func(j int) float64 { return dists[j].Rand() })
		out.Y[i] = target.Clone()
	}
	return out
}

// XORBlobs returns four clusters at the corners of [0, 0.5]² labelled
// with the XOR of their coordinates: (0,0) and (0.5,0.5) are 0, the
// other two are 1. Targets are single-element vectors.
func XORBlobs(perCluster int, stddev float64, src rand.Source) *Dataset {
	corners := []struct {
		center []float64
		label  float64
	}{
		{[]float64{0, 0}, 0},
		{[]float64{0, 0.5}, 1},
		{[]float64{0.5, 0}, 1},
		{[]float64{0.5, 0.5}, 0},
	}

	sets := make([]*Dataset, len(corners))
	for i, c := range corners {
		sets[i] = Gaussian(c.center, stddev, perCluster, tensor.Vector(c.label), src)
	}
	return Concat(sets...)
}

// Blobs returns classes Gaussian clusters evenly spaced on a circle of
// the given radius, with one-hot targets.
func Blobs(classes, perClass int, radius, stddev float64, src rand.Source) *Dataset {
	sets := make([]*Dataset, classes)
	for c := range classes {
		angle := 2 * math.Pi * float64(c) / float64(classes)
		center := []float64{radius * math.Cos(angle), radius * math.Sin(angle)}
		sets[c] = Gaussian(center, stddev, perClass, OneHot(c, classes), src)
	}
	return Concat(sets...)
}
