// Package tensor implements the dense float64 tensor used by every layer
// and optimizer.
//
// A Tensor is a shape plus flat row-major storage. Arithmetic is
// value-like: Add, Mul, Scale and friends return new tensors and never
// modify their operands. The only mutating entry points are FlatSet, Set
// and the slice returned by Data, which layers use to fill freshly
// allocated outputs.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is an N-dimensional array of float64 values.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
//	u := t.AddScalar(1).Scale(2) // t is unchanged
type Tensor struct {
	shape Shape
	data  []float64
}

// New wraps data in a tensor of the given shape without copying.
//
// The caller hands ownership of data to the tensor. Panics if the shape
// is invalid or len(data) does not match the shape.
func New(shape Shape, data []float64) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	if shape.NumElements() != len(data) {
		panic(fmt.Sprintf("tensor: shape %v requires %d elements, got %d", shape, shape.NumElements(), len(data)))
	}
	return &Tensor{shape: shape.Clone(), data: data}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	buf := make([]float64, len(data))
	copy(buf, data)
	return &Tensor{shape: shape.Clone(), data: buf}, nil
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the flat backing storage (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// FlatGet returns the element at flat index i.
func (t *Tensor) FlatGet(i int) float64 {
	return t.data[i]
}

// FlatSet stores v at flat index i.
func (t *Tensor) FlatSet(i int, v float64) {
	t.data[i] = v
}

// At returns the element at the given coordinate.
func (t *Tensor) At(coords ...int) float64 {
	return t.data[t.shape.Offset(coords...)]
}

// Set stores v at the given coordinate.
func (t *Tensor) Set(v float64, coords ...int) {
	t.data[t.shape.Offset(coords...)] = v
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	buf := make([]float64, len(t.data))
	copy(buf, t.data)
	return &Tensor{shape: t.shape.Clone(), data: buf}
}

// Reshape returns a copy of t with a new shape holding the same number
// of elements.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	s := Shape(shape)
	if s.NumElements() != len(t.data) {
		panic(fmt.Sprintf("tensor: cannot reshape %v (%d elements) to %v", t.shape, len(t.data), s))
	}
	return New(s, t.Clone().data)
}

// String returns a compact representation like Tensor[2 2](1 2 3 4).
func (t *Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor%v(", t.shape)
	for i, v := range t.data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == 16 {
			fmt.Fprintf(&sb, "... %d more", len(t.data)-i)
			break
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(')')
	return sb.String()
}
