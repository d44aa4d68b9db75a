// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/gradnet/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense float64 tensor.
type Tensor = tensor.Tensor

// ShapeError reports an input shape a layer cannot accept.
type ShapeError = tensor.ShapeError

// ErrShape matches every ShapeError via errors.Is.
var ErrShape = tensor.ErrShape

// New wraps data (without copying) as a tensor of the given shape.
// Panics if len(data) does not match the shape.
func New(shape Shape, data []float64) *Tensor {
	return tensor.New(shape, data)
}

// FromSlice copies data into a new tensor of the given shape.
//
// Example:
//
//	t, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// ZerosLike creates a zero tensor with the shape of t.
func ZerosLike(t *Tensor) *Tensor {
	return tensor.ZerosLike(t)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// Vector creates a rank-1 tensor from values.
func Vector(values ...float64) *Tensor {
	return tensor.Vector(values...)
}

// Fill creates a tensor whose i-th flat element is f(i).
//
// Example:
//
//	ramp := tensor.Fill(tensor.Shape{4, 4, 1}, func(i int) float64 { return float64(i) })
func Fill(shape Shape, f func(i int) float64) *Tensor {
	return tensor.Fill(shape, f)
}

// NewShapeError creates a ShapeError for layer.
func NewShapeError(layer string, input Shape, format string, args ...any) *ShapeError {
	return tensor.NewShapeError(layer, input, format, args...)
}
