package nn

import (
	"fmt"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// Conv1D is a 1-D convolutional layer over [batch, channels, length] input.
// The pose predictors use it to refine the per-axis response sequence after
// the 2-D stages have been collapsed by a max-reduction. Like Conv2D it
// performs a valid convolution; the caller pads first.
type Conv1D struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	useBias     bool

	weight *Parameter
	bias   *Parameter
}

// NewConv1D creates a 1-D convolution with Xavier-initialized weights.
func NewConv1D(inChannels, outChannels, kernelSize, stride int, useBias bool) *Conv1D {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv1d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv1d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv1d: invalid stride %d", stride))
	}

	fanIn := inChannels * kernelSize
	fanOut := outChannels * kernelSize
	weight := Xavier(fanIn, fanOut, tensor.Shape{outChannels, inChannels, kernelSize})

	c := &Conv1D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		useBias:     useBias,
		weight:      NewParameter("conv1d.weight", weight),
	}
	if useBias {
		c.bias = NewParameter("conv1d.bias", tensor.Zeros(tensor.Shape{outChannels}))
	}
	return c
}

// Forward applies the convolution to a pre-padded [batch, channels, length]
// input.
func (c *Conv1D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) == 3 && shape[1] != c.inChannels {
		return nil, fmt.Errorf("conv1d: input has %d channels, layer expects %d: %w",
			shape[1], c.inChannels, tensor.ErrShape)
	}
	out, err := tensor.Conv1D(input, c.weight.Tensor(), c.stride)
	if err != nil {
		return nil, err
	}
	if c.useBias {
		addChannelBias(out, c.bias.Tensor().Data())
	}
	return out, nil
}

// Parameters returns the trainable parameters.
func (c *Conv1D) Parameters() []*Parameter {
	if c.useBias {
		return []*Parameter{c.weight, c.bias}
	}
	return []*Parameter{c.weight}
}

// Weight exposes the kernel parameter.
func (c *Conv1D) Weight() *Parameter { return c.weight }

// KernelSize returns the kernel length.
func (c *Conv1D) KernelSize() int { return c.kernelSize }

// String returns a one-line description of the layer.
func (c *Conv1D) String() string {
	return fmt.Sprintf("Conv1D(in=%d, out=%d, kernel=%d, stride=%d, bias=%v)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.useBias)
}
