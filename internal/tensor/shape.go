package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Offset returns the flat row-major index of the given coordinate.
//
// The last dimension varies fastest:
//
//	offset(i0, ..., ik) = Σ ij * Π_{m>j} shape[m]
//
// Panics if the number of coordinates does not match the rank or any
// coordinate is out of range.
func (s Shape) Offset(coords ...int) int {
	if len(coords) != len(s) {
		panic(fmt.Sprintf("tensor: %d coordinates for rank %d shape %v", len(coords), len(s), s))
	}
	offset := 0
	for i, c := range coords {
		if c < 0 || c >= s[i] {
			panic(fmt.Sprintf("tensor: coordinate %d out of range [0, %d) at axis %d", c, s[i], i))
		}
		offset = offset*s[i] + c
	}
	return offset
}

// String formats the shape as [d0 d1 ...].
func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}
