// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors used by gradnet.
//
// # Overview
//
// A Tensor is a shape plus a flat row-major buffer. This package provides:
//   - Construction helpers (Zeros, Ones, Full, Vector, Fill, FromSlice)
//   - Element-wise arithmetic that returns new tensors
//   - Reductions (Sum, Max, ArgMax, Dot)
//   - ShapeError, reported when a layer cannot accept an input shape
//
// # Basic Usage
//
//	import "github.com/born-ml/gradnet/tensor"
//
//	func main() {
//	    x := tensor.Vector(1, 2, 3)
//	    y := tensor.Ones(tensor.Shape{3})
//
//	    z := x.Add(y).Scale(0.5) // [1 1.5 2]
//	    fmt.Println(z.Sum())
//	}
//
// # Layout
//
// Image-like tensors use the shape [width, height, depth]. The element at
// (x, y, k) lives at flat index x*height*depth + y*depth + k, so depth
// varies fastest and width slowest.
//
// # Mutation
//
// Arithmetic never modifies its receiver or argument. Data returns the
// backing slice, and FlatSet, Set and AddInPlace write through it; these
// are meant for owners of a tensor such as layers accumulating gradients.
package tensor
