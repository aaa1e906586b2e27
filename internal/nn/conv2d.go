package nn

import (
	"fmt"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// Conv2D is a 2-D convolutional layer with independent strides per spatial
// axis and no built-in padding. Callers pad the input first with the tensor
// padding engine, choosing the border mode per axis; keeping padding out of
// the layer is what lets a periodic axis wrap while the other is zero-padded.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, (h-kernel_h)/strideH+1, (w-kernel_w)/strideW+1]
type Conv2D struct {
	inChannels  int
	outChannels int
	kernelSize  [2]int
	stride      [2]int
	useBias     bool

	weight *Parameter
	bias   *Parameter // nil without bias
}

// NewConv2D creates a 2-D convolution with Xavier-initialized weights and,
// when requested, a zero-initialized bias.
func NewConv2D(inChannels, outChannels, kernelH, kernelW, strideH, strideW int, useBias bool) *Conv2D {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %dx%d", kernelH, kernelW))
	}
	if strideH <= 0 || strideW <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride (%d, %d)", strideH, strideW))
	}

	fanIn := inChannels * kernelH * kernelW
	fanOut := outChannels * kernelH * kernelW
	weight := Xavier(fanIn, fanOut, tensor.Shape{outChannels, inChannels, kernelH, kernelW})

	c := &Conv2D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  [2]int{kernelH, kernelW},
		stride:      [2]int{strideH, strideW},
		useBias:     useBias,
		weight:      NewParameter("conv2d.weight", weight),
	}
	if useBias {
		c.bias = NewParameter("conv2d.bias", tensor.Zeros(tensor.Shape{outChannels}))
	}
	return c
}

// Forward applies the convolution to a pre-padded input.
func (c *Conv2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) == 4 && shape[1] != c.inChannels {
		return nil, fmt.Errorf("conv2d: input has %d channels, layer expects %d: %w",
			shape[1], c.inChannels, tensor.ErrShape)
	}
	out, err := tensor.Conv2D(input, c.weight.Tensor(), c.stride[0], c.stride[1])
	if err != nil {
		return nil, err
	}
	if c.useBias {
		addChannelBias(out, c.bias.Tensor().Data())
	}
	return out, nil
}

// Parameters returns the trainable parameters.
func (c *Conv2D) Parameters() []*Parameter {
	if c.useBias {
		return []*Parameter{c.weight, c.bias}
	}
	return []*Parameter{c.weight}
}

// Weight exposes the kernel parameter.
func (c *Conv2D) Weight() *Parameter { return c.weight }

// KernelSize returns the kernel dimensions [kernel_h, kernel_w].
func (c *Conv2D) KernelSize() [2]int { return c.kernelSize }

// Stride returns the per-axis strides [strideH, strideW].
func (c *Conv2D) Stride() [2]int { return c.stride }

// String returns a one-line description of the layer.
func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(in=%d, out=%d, kernel=%dx%d, stride=(%d, %d), bias=%v)",
		c.inChannels, c.outChannels, c.kernelSize[0], c.kernelSize[1],
		c.stride[0], c.stride[1], c.useBias)
}

// addChannelBias adds bias[f] to every spatial position of channel f. The
// output tensor is freshly allocated by the caller, so writing in place here
// does not break the no-mutation contract.
func addChannelBias(out *tensor.Tensor, bias []float64) {
	shape := out.Shape()
	plane := 1
	for _, d := range shape[2:] {
		plane *= d
	}
	data := out.Data()
	channels := shape[1]
	for b := 0; b < shape[0]; b++ {
		for f := 0; f < channels; f++ {
			seg := data[(b*channels+f)*plane : (b*channels+f+1)*plane]
			for i := range seg {
				seg[i] += bias[f]
			}
		}
	}
}
