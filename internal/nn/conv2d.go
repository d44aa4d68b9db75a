package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/gradnet/internal/parallel"
	"github.com/born-ml/gradnet/internal/tensor"
)

// Conv2D is a 2D convolution layer over [width, height, depth] inputs.
//
// Each of the filters spans winWidth x winHeight x depth and slides over
// the (optionally zero-padded) input with the given strides:
//
//	out[i, j, f] = b[f] + Σ_{rx, ry, k} W[f, rx, ry, k] * in[i*sx+rx-p, j*sy+ry-p, k]
//
// Output shape: [out_width, out_height, filters] where
//
//	out_width  = (width + 2*padding - winWidth) / strideX + 1
//	out_height = (height + 2*padding - winHeight) / strideY + 1
//
// As with MaxPool2D, the windows must tile the padded input exactly.
//
// Example:
//
//	conv := nn.NewConv2D(8, 3, 1, 1) // 8 filters, 3x3, stride 1, padding 1
//	out, err := conv.Init(tensor.Shape{28, 28, 1}) // [28 28 8]
type Conv2D struct {
	shapes
	filters   int
	winWidth  int
	winHeight int
	strideX   int
	strideY   int
	padding   int
	useBias   bool
	init      Initializer
	src       rand.Source
	weight    *Parameter // [filters, winWidth, winHeight, depth]
	bias      *Parameter // [filters]
	par       parallel.Config
}

// NewConv2D creates a convolution with square kernels and equal strides.
func NewConv2D(filters, kernelSize, stride, padding int) *Conv2D {
	return NewConv2DRect(filters, kernelSize, kernelSize, stride, stride, padding)
}

// NewConv2DRect creates a convolution with independent window sizes and
// strides per spatial axis.
func NewConv2DRect(filters, winWidth, winHeight, strideX, strideY, padding int) *Conv2D {
	if filters <= 0 {
		panic(fmt.Sprintf("conv2d: invalid filter count %d", filters))
	}
	if winWidth <= 0 || winHeight <= 0 {
		panic(fmt.Sprintf("conv2d: invalid window %dx%d", winWidth, winHeight))
	}
	if strideX <= 0 || strideY <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %dx%d", strideX, strideY))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	return &Conv2D{
		filters:   filters,
		winWidth:  winWidth,
		winHeight: winHeight,
		strideX:   strideX,
		strideY:   strideY,
		padding:   padding,
		useBias:   true,
		init:      Xavier,
		par:       parallel.DefaultConfig(),
	}
}

// WithInitializer replaces the weight initializer. Must be called before Init.
func (c *Conv2D) WithInitializer(init Initializer) *Conv2D {
	c.init = init
	return c
}

// WithoutBias disables the bias term. Must be called before Init.
func (c *Conv2D) WithoutBias() *Conv2D {
	c.useBias = false
	return c
}

// SetSource sets the random source used for weight initialization.
func (c *Conv2D) SetSource(src rand.Source) {
	c.src = src
}

// SetParallel controls how Forward spreads output columns over
// goroutines. Results do not depend on cfg.
func (c *Conv2D) SetParallel(cfg parallel.Config) {
	c.par = cfg
}

// Init validates the geometry and allocates the filters.
func (c *Conv2D) Init(inputShape tensor.Shape) (tensor.Shape, error) {
	if err := c.initOnce("conv2d"); err != nil {
		return nil, err
	}
	if len(inputShape) != 3 {
		return nil, tensor.NewShapeError("conv2d", inputShape, "expected [width height depth], got rank %d", len(inputShape))
	}
	if err := inputShape.Validate(); err != nil {
		return nil, tensor.NewShapeError("conv2d", inputShape, "%v", err)
	}

	w, err := c.convDim(inputShape, inputShape[0], c.winWidth, c.strideX, "width")
	if err != nil {
		return nil, err
	}
	h, err := c.convDim(inputShape, inputShape[1], c.winHeight, c.strideY, "height")
	if err != nil {
		return nil, err
	}

	depth := inputShape[2]
	area := c.winWidth * c.winHeight
	c.weight = NewParameter("weight",
		c.init(area*depth, area*c.filters, tensor.Shape{c.filters, c.winWidth, c.winHeight, depth}, c.src))
	if c.useBias {
		c.bias = NewParameter("bias", Zeros(tensor.Shape{c.filters}))
		c.bias.SetRegularized(false)
	}

	return c.fix(inputShape, tensor.Shape{w, h, c.filters}), nil
}

// convDim computes (in + 2p - win)/stride + 1 for one spatial axis.
func (c *Conv2D) convDim(inputShape tensor.Shape, in, win, stride int, axis string) (int, error) {
	padded := in + 2*c.padding
	if win > padded {
		return 0, tensor.NewShapeError("conv2d", inputShape, "window %s %d exceeds padded input %s %d", axis, win, axis, padded)
	}
	if (padded-win)%stride != 0 {
		return 0, tensor.NewShapeError("conv2d", inputShape,
			"window %s %d with stride %d does not tile padded input %s %d", axis, win, stride, axis, padded)
	}
	return (padded-win)/stride + 1, nil
}

// forEachTap calls fn for every (output, weight, input) index triple that
// contributes to the convolution. Taps that fall into the zero padding
// are skipped.
func (c *Conv2D) forEachTap(fn func(outIdx, wIdx, inIdx int)) {
	for i := 0; i < c.out[0]; i++ {
		c.columnTaps(i, fn)
	}
}

// columnTaps visits the taps of output column i. Distinct columns touch
// disjoint output indices.
func (c *Conv2D) columnTaps(i int, fn func(outIdx, wIdx, inIdx int)) {
	W, H, D := c.in[0], c.in[1], c.in[2]
	outH := c.out[1]

	for j := 0; j < outH; j++ {
		for f := 0; f < c.filters; f++ {
			outIdx := (i*outH+j)*c.filters + f
			for rx := 0; rx < c.winWidth; rx++ {
				x := i*c.strideX + rx - c.padding
				if x < 0 || x >= W {
					continue
				}
				for ry := 0; ry < c.winHeight; ry++ {
					y := j*c.strideY + ry - c.padding
					if y < 0 || y >= H {
						continue
					}
					wBase := ((f*c.winWidth+rx)*c.winHeight + ry) * D
					inBase := (x*H + y) * D
					for k := 0; k < D; k++ {
						fn(outIdx, wBase+k, inBase+k)
					}
				}
			}
		}
	}
}

// Forward computes the convolution.
func (c *Conv2D) Forward(input *tensor.Tensor, _ bool) *tensor.Tensor {
	c.checkInput("conv2d", input)

	in := input.Data()
	w := c.weight.Tensor().Data()
	res := make([]float64, c.out.NumElements())

	if c.bias != nil {
		b := c.bias.Tensor().Data()
		for i := range res {
			res[i] = b[i%c.filters]
		}
	}

	tap := func(outIdx, wIdx, inIdx int) {
		res[outIdx] += w[wIdx] * in[inIdx]
	}
	parallel.For(c.out[0], func(i int) { c.columnTaps(i, tap) }, c.par)

	return tensor.New(c.out, res)
}

// Backward accumulates filter and bias gradients and returns the error
// with respect to the input.
func (c *Conv2D) Backward(input, _, upstream *tensor.Tensor) *tensor.Tensor {
	in := input.Data()
	e := upstream.Data()
	w := c.weight.Tensor().Data()

	dW := make([]float64, len(w))
	down := make([]float64, len(in))

	c.forEachTap(func(outIdx, wIdx, inIdx int) {
		dW[wIdx] += e[outIdx] * in[inIdx]
		down[inIdx] += e[outIdx] * w[wIdx]
	})
	c.weight.Accumulate(tensor.New(c.weight.Tensor().Shape(), dW))

	if c.bias != nil {
		db := make([]float64, c.filters)
		for i, v := range e {
			db[i%c.filters] += v
		}
		c.bias.Accumulate(tensor.New(tensor.Shape{c.filters}, db))
	}

	return tensor.New(c.in, down)
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (c *Conv2D) Parameters() []*Parameter {
	if c.bias != nil {
		return []*Parameter{c.weight, c.bias}
	}
	return []*Parameter{c.weight}
}

// Weight returns the filter parameter (nil before Init).
func (c *Conv2D) Weight() *Parameter {
	return c.weight
}

// Bias returns the bias parameter (nil before Init or without bias).
func (c *Conv2D) Bias() *Parameter {
	return c.bias
}

// String returns a string representation of the layer.
func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(filters=%d, window=%dx%d, stride=%dx%d, padding=%d) %v -> %v",
		c.filters, c.winWidth, c.winHeight, c.strideX, c.strideY, c.padding, c.in, c.out)
}
