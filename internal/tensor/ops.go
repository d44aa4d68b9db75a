package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// checkSameShape panics unless a and b have identical shapes.
func checkSameShape(op string, a, b *Tensor) {
	if !a.shape.Equal(b.shape) {
		panic(fmt.Sprintf("tensor.%s: shape mismatch %v vs %v", op, a.shape, b.shape))
	}
}

// Add returns t + other elementwise.
func (t *Tensor) Add(other *Tensor) *Tensor {
	checkSameShape("Add", t, other)
	return New(t.shape, floats.AddTo(make([]float64, len(t.data)), t.data, other.data))
}

// Sub returns t - other elementwise.
func (t *Tensor) Sub(other *Tensor) *Tensor {
	checkSameShape("Sub", t, other)
	return New(t.shape, floats.SubTo(make([]float64, len(t.data)), t.data, other.data))
}

// Mul returns t * other elementwise (Hadamard product).
func (t *Tensor) Mul(other *Tensor) *Tensor {
	checkSameShape("Mul", t, other)
	return New(t.shape, floats.MulTo(make([]float64, len(t.data)), t.data, other.data))
}

// Div returns t / other elementwise.
func (t *Tensor) Div(other *Tensor) *Tensor {
	checkSameShape("Div", t, other)
	return New(t.shape, floats.DivTo(make([]float64, len(t.data)), t.data, other.data))
}

// Scale returns t * c.
func (t *Tensor) Scale(c float64) *Tensor {
	return New(t.shape, floats.ScaleTo(make([]float64, len(t.data)), c, t.data))
}

// AddScalar returns t + c.
func (t *Tensor) AddScalar(c float64) *Tensor {
	out := t.Clone()
	floats.AddConst(c, out.data)
	return out
}

// Map returns a tensor with f applied to every element.
func (t *Tensor) Map(f func(float64) float64) *Tensor {
	data := make([]float64, len(t.data))
	for i, v := range t.data {
		data[i] = f(v)
	}
	return New(t.shape, data)
}

// Sqrt returns the elementwise square root.
func (t *Tensor) Sqrt() *Tensor {
	return t.Map(math.Sqrt)
}

// Square returns the elementwise square.
func (t *Tensor) Square() *Tensor {
	return t.Mul(t)
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	return floats.Sum(t.data)
}

// Max returns the largest element.
func (t *Tensor) Max() float64 {
	return floats.Max(t.data)
}

// ArgMax returns the flat index of the largest element. Ties resolve to
// the lowest index.
func (t *Tensor) ArgMax() int {
	return floats.MaxIdx(t.data)
}

// Dot returns the inner product of the flattened tensors.
func (t *Tensor) Dot(other *Tensor) float64 {
	checkSameShape("Dot", t, other)
	return floats.Dot(t.data, other.data)
}

// Equal reports whether t and other have the same shape and values.
func (t *Tensor) Equal(other *Tensor) bool {
	return t.shape.Equal(other.shape) && floats.Equal(t.data, other.data)
}

// EqualApprox reports whether t and other have the same shape and values
// within tol.
func (t *Tensor) EqualApprox(other *Tensor, tol float64) bool {
	return t.shape.Equal(other.shape) && floats.EqualApprox(t.data, other.data, tol)
}

// HasNaN reports whether any element is NaN.
func (t *Tensor) HasNaN() bool {
	return floats.HasNaN(t.data)
}

// AddInPlace accumulates other into t.
//
// This is the one arithmetic method that mutates its receiver. It exists
// for gradient accumulators owned by a single parameter and must not be
// used on tensors shared with callers.
func (t *Tensor) AddInPlace(other *Tensor) {
	checkSameShape("AddInPlace", t, other)
	floats.Add(t.data, other.data)
}
