package tensor

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return New(shape, make([]float64, shape.NumElements()))
}

// ZerosLike creates a zero tensor with the same shape as t.
func ZerosLike(t *Tensor) *Tensor {
	return Zeros(t.shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = value
	}
	return New(shape, data)
}

// Vector creates a rank-1 tensor from values.
//
// Example:
//
//	x := tensor.Vector(0.5, -1) // shape [2]
func Vector(values ...float64) *Tensor {
	data := make([]float64, len(values))
	copy(data, values)
	return New(Shape{len(values)}, data)
}

// Fill creates a tensor whose elements are produced by f(flatIndex).
func Fill(shape Shape, f func(i int) float64) *Tensor {
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = f(i)
	}
	return New(shape, data)
}
