package nn

import (
	"fmt"

	"github.com/born-ml/gradnet/internal/parallel"
	"github.com/born-ml/gradnet/internal/tensor"
)

// point is an absolute (x, y) input coordinate.
type point struct {
	x, y int
}

// MaxPool2D is a 2D max pooling layer.
//
// Max pooling reduces spatial dimensions by taking the maximum value
// in each window, independently for every depth slice. MaxPool2D has no
// learnable parameters.
//
// Input shape:  [width, height, depth]
// Output shape: [out_width, out_height, depth]
//
// Where:
//
//	out_width  = (width - winWidth) / strideX + 1
//	out_height = (height - winHeight) / strideY + 1
//
// The window must tile the input exactly; Init fails otherwise. Inputs are
// never padded.
//
// Forward records the position of each window maximum. Backward routes
// the whole upstream error of an output element to that position, so
// Backward is only valid right after the Forward that filled the cache.
// The layer is not safe for concurrent use, although Forward itself may
// split its windows across goroutines (see SetParallel).
//
// Example:
//
//	pool := nn.NewMaxPool2D(2, 2)
//	out, err := pool.Init(tensor.Shape{28, 28, 8}) // [14 14 8]
type MaxPool2D struct {
	shapes
	winWidth  int
	winHeight int
	strideX   int
	strideY   int
	maxIdx    []point // argmax per output element, flat output order
	par       parallel.Config
}

// NewMaxPool2D creates a square max pooling layer.
//
// Common patterns:
//   - NewMaxPool2D(2, 2): Standard 2x2 non-overlapping pooling
//   - NewMaxPool2D(3, 1): Overlapping 3x3 pooling
func NewMaxPool2D(kernelSize, stride int) *MaxPool2D {
	return NewMaxPool2DRect(kernelSize, kernelSize, stride, stride)
}

// NewMaxPool2DRect creates a max pooling layer with independent window
// sizes and strides per spatial axis.
func NewMaxPool2DRect(winWidth, winHeight, strideX, strideY int) *MaxPool2D {
	if winWidth <= 0 || winHeight <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid window %dx%d", winWidth, winHeight))
	}
	if strideX <= 0 || strideY <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %dx%d", strideX, strideY))
	}

	return &MaxPool2D{
		winWidth:  winWidth,
		winHeight: winHeight,
		strideX:   strideX,
		strideY:   strideY,
		par:       parallel.DefaultConfig(),
	}
}

// SetParallel controls how Forward spreads (column, channel) pairs over
// goroutines. Results do not depend on cfg.
func (m *MaxPool2D) SetParallel(cfg parallel.Config) {
	m.par = cfg
}

// Init validates the window geometry against inputShape and allocates the
// argmax cache.
func (m *MaxPool2D) Init(inputShape tensor.Shape) (tensor.Shape, error) {
	if err := m.initOnce("maxpool2d"); err != nil {
		return nil, err
	}
	if len(inputShape) != 3 {
		return nil, tensor.NewShapeError("maxpool2d", inputShape, "expected [width height depth], got rank %d", len(inputShape))
	}
	if err := inputShape.Validate(); err != nil {
		return nil, tensor.NewShapeError("maxpool2d", inputShape, "%v", err)
	}

	w, err := pooledDim(inputShape, inputShape[0], m.winWidth, m.strideX, "width")
	if err != nil {
		return nil, err
	}
	h, err := pooledDim(inputShape, inputShape[1], m.winHeight, m.strideY, "height")
	if err != nil {
		return nil, err
	}

	out := tensor.Shape{w, h, inputShape[2]}
	m.maxIdx = make([]point, out.NumElements())
	return m.fix(inputShape, out), nil
}

// pooledDim computes (in - win)/stride + 1 for one spatial axis.
func pooledDim(inputShape tensor.Shape, in, win, stride int, axis string) (int, error) {
	if win > in {
		return 0, tensor.NewShapeError("maxpool2d", inputShape, "window %s %d exceeds input %s %d", axis, win, axis, in)
	}
	if (in-win)%stride != 0 {
		return 0, tensor.NewShapeError("maxpool2d", inputShape,
			"window %s %d with stride %d does not tile input %s %d", axis, win, stride, axis, in)
	}
	return (in-win)/stride + 1, nil
}

// Forward takes the maximum of every window and records its position.
//
// Windows are scanned relative-x outer, relative-y inner, and a later
// value only replaces the running maximum when strictly greater, so ties
// resolve to the first position in that order.
func (m *MaxPool2D) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	m.checkInput("maxpool2d", input)

	H, D := m.in[1], m.in[2]
	outW, outH := m.out[0], m.out[1]
	inputData := input.Data()
	res := make([]float64, m.out.NumElements())

	// Every (i, k) pair owns the output elements (i*outH + j)*D + k.
	parallel.ForGrid(outW, D, func(i, k int) {
		x0 := i * m.strideX
		for j := 0; j < outH; j++ {
			y0 := j * m.strideY
			best := point{x0, y0}
			maxVal := inputData[x0*H*D+y0*D+k]

			for rx := 0; rx < m.winWidth; rx++ {
				x := x0 + rx
				for ry := 0; ry < m.winHeight; ry++ {
					y := y0 + ry
					if val := inputData[x*H*D+y*D+k]; val > maxVal {
						maxVal = val
						best = point{x, y}
					}
				}
			}

			idx := (i*outH+j)*D + k
			res[idx] = maxVal
			m.maxIdx[idx] = best
		}
	}, m.par)

	return tensor.New(m.out, res)
}

// Backward routes each upstream error value to the input position that
// produced the corresponding maximum.
//
// Positions shared by overlapping windows (stride < window) accumulate
// the contributions of every window whose maximum they were.
func (m *MaxPool2D) Backward(_, _, upstream *tensor.Tensor) *tensor.Tensor {
	H, D := m.in[1], m.in[2]
	res := make([]float64, m.in.NumElements())
	errData := upstream.Data()

	outIdx := 0
	for range m.out[0] * m.out[1] {
		for k := 0; k < D; k++ {
			p := m.maxIdx[outIdx]
			res[p.x*H*D+p.y*D+k] += errData[outIdx]
			outIdx++
		}
	}

	return tensor.New(m.in, res)
}

// ArgMax returns the (x, y) input position recorded for the output
// element at flat index i during the last Forward.
func (m *MaxPool2D) ArgMax(i int) (x, y int) {
	p := m.maxIdx[i]
	return p.x, p.y
}

// String returns a string representation of the layer.
func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(window=%dx%d, stride=%dx%d) %v -> %v",
		m.winWidth, m.winHeight, m.strideX, m.strideY, m.in, m.out)
}

// ComputeOutputSize computes output spatial dimensions for a given input
// size without validating the tiling constraint.
//
// Returns: [out_width, out_height].
func (m *MaxPool2D) ComputeOutputSize(inputW, inputH int) [2]int {
	outW := (inputW-m.winWidth)/m.strideX + 1
	outH := (inputH-m.winHeight)/m.strideY + 1
	return [2]int{outW, outH}
}
