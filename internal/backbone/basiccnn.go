package backbone

import (
	"fmt"

	"github.com/siddhantmittal7/equivariant-transformers/internal/nn"
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// BasicCNNConfig configures the reference classifier backbone.
type BasicCNNConfig struct {
	// InputChannels is the image channel count.
	InputChannels int
	// OutputSize is the number of output classes/features.
	OutputSize int
	// Features is the channel width of the hidden convolutions.
	Features int
	// PadModeV and PadModeU select the border policy per axis; PadNone
	// reproduces an unpadded (shrinking) stack, PadCyclic wraps a periodic
	// axis.
	PadModeV, PadModeU tensor.PadMode
	// Strides are the strides of the first three convolutions.
	Strides [3]int
	// Pool enables 2x2 average pooling after each of the first three
	// stages.
	Pool [3]bool
}

func (c *BasicCNNConfig) applyDefaults() {
	if c.Features == 0 {
		c.Features = 20
	}
	if c.Strides == [3]int{} {
		c.Strides = [3]int{1, 1, 1}
	}
}

func (c *BasicCNNConfig) validate() error {
	if c.InputChannels < 1 {
		return fmt.Errorf("basiccnn: InputChannels %d must be positive: %w", c.InputChannels, tensor.ErrShape)
	}
	if c.OutputSize < 1 {
		return fmt.Errorf("basiccnn: OutputSize %d must be positive: %w", c.OutputSize, tensor.ErrShape)
	}
	for _, s := range c.Strides {
		if s < 1 {
			return fmt.Errorf("basiccnn: strides %v must be positive: %w", c.Strides, tensor.ErrShape)
		}
	}
	return nil
}

// BasicCNN is a seven-layer convolutional classifier with per-axis selectable
// padding, usable directly as the feature extractor behind a pose head or as
// the classification network after spatial-transformer resampling. The final
// convolution maps to OutputSize channels and the spatial extent collapses by
// a global max, yielding [batch, OutputSize].
type BasicCNN struct {
	cfg    BasicCNNConfig
	convs  [7]*nn.Conv2D
	norms  [6]*nn.BatchNorm2D
	nonlin nn.Activation
}

// NewBasicCNN validates the configuration and builds the network.
func NewBasicCNN(cfg BasicCNNConfig) (*BasicCNN, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	nf := cfg.Features
	b := &BasicCNN{cfg: cfg, nonlin: nn.ReLU()}
	in := cfg.InputChannels
	for i := 0; i < 6; i++ {
		stride := 1
		if i < 3 {
			stride = cfg.Strides[i]
		}
		b.convs[i] = nn.NewConv2D(in, nf, 3, 3, stride, stride, false)
		b.norms[i] = nn.NewBatchNorm2D(nf)
		in = nf
	}
	b.convs[6] = nn.NewConv2D(nf, cfg.OutputSize, 3, 3, 1, 1, true)
	return b, nil
}

// Eval switches all normalization layers to their running statistics.
func (b *BasicCNN) Eval() {
	for _, n := range b.norms {
		n.Eval()
	}
}

// Forward maps a [batch, channels, height, width] image to [batch,
// OutputSize] class scores.
func (b *BasicCNN) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	hspec := tensor.SymmetricPad(1, b.cfg.PadModeV)
	wspec := tensor.SymmetricPad(1, b.cfg.PadModeU)

	out := x
	var err error
	for i := 0; i < 6; i++ {
		if out, err = tensor.Pad2D(out, hspec, wspec); err != nil {
			return nil, err
		}
		if out, err = b.convs[i].Forward(out); err != nil {
			return nil, err
		}
		if out, err = b.norms[i].Forward(out); err != nil {
			return nil, err
		}
		out = b.nonlin(out)
		if i < 3 && b.cfg.Pool[i] {
			if out, err = tensor.AvgPool2D(out, 2, 2); err != nil {
				return nil, err
			}
		}
	}
	if out, err = tensor.Pad2D(out, hspec, wspec); err != nil {
		return nil, err
	}
	if out, err = b.convs[6].Forward(out); err != nil {
		return nil, err
	}

	// Global spatial max per class channel.
	shape := out.Shape()
	flat, err := out.Reshape(shape[0], shape[1], shape[2]*shape[3])
	if err != nil {
		return nil, err
	}
	return tensor.MaxAlong(flat, 2)
}

// OutChannels reports the output feature count.
func (b *BasicCNN) OutChannels() int {
	return b.cfg.OutputSize
}

// SpatialStride reports the cumulative downsampling of the conv stack.
func (b *BasicCNN) SpatialStride() int {
	stride := 1
	for i, s := range b.cfg.Strides {
		stride *= s
		if b.cfg.Pool[i] {
			stride *= 2
		}
	}
	return stride
}

// Parameters returns all trainable parameters.
func (b *BasicCNN) Parameters() []*nn.Parameter {
	var params []*nn.Parameter
	for i, c := range b.convs {
		params = append(params, c.Parameters()...)
		if i < 6 {
			params = append(params, b.norms[i].Parameters()...)
		}
	}
	return params
}

// String returns a one-line description of the network.
func (b *BasicCNN) String() string {
	return fmt.Sprintf("BasicCNN(in=%d, features=%d, out=%d, pad=(%s, %s))",
		b.cfg.InputChannels, b.cfg.Features, b.cfg.OutputSize, b.cfg.PadModeV, b.cfg.PadModeU)
}
