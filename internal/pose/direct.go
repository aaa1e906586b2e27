package pose

import (
	"fmt"

	"github.com/siddhantmittal7/equivariant-transformers/internal/nn"
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// DirectConfig configures a direct-regression pose predictor.
//
// Zero values pick the conventional defaults: kernel size 5, per-stage
// strides (2, 2), LeakyReLU(0.1) activation between stages and a tanh output
// bound.
type DirectConfig struct {
	// InChannels is the channel count of the incoming feature map.
	InChannels int
	// Features is the channel width of the two convolutional stages.
	Features int
	// KernelSize is the (odd) kernel edge length and also the side of the
	// adaptive pooling grid feeding the fully connected output layer.
	KernelSize int
	// Strides holds the stride of each 2-D stage.
	Strides [2]int
	// PeriodicU and PeriodicV select cyclic padding per axis; the regression
	// head has no centroid step, so periodicity only affects padding.
	PeriodicU, PeriodicV bool
	// NumOutputs is the number of regressed scalars; must be at least 1.
	NumOutputs int
	// Nonlin is the activation between stages.
	Nonlin nn.Activation
	// Output is the saturating nonlinearity applied to the regression
	// outputs, tanh by default, keeping each scalar in (-1, 1).
	Output nn.Activation
}

func (c *DirectConfig) applyDefaults() {
	if c.KernelSize == 0 {
		c.KernelSize = 5
	}
	if c.Strides == [2]int{} {
		c.Strides = [2]int{2, 2}
	}
	if c.Nonlin == nil {
		c.Nonlin = nn.LeakyReLU(0.1)
	}
	if c.Output == nil {
		c.Output = nn.Tanh()
	}
}

func (c *DirectConfig) validate() error {
	if c.NumOutputs < 1 {
		return fmt.Errorf("direct head: NumOutputs %d must be at least 1: %w", c.NumOutputs, ErrConfig)
	}
	if c.InChannels < 1 {
		return fmt.Errorf("direct head: InChannels %d must be positive: %w", c.InChannels, ErrConfig)
	}
	if c.Features < 1 {
		return fmt.Errorf("direct head: Features %d must be positive: %w", c.Features, ErrConfig)
	}
	if c.KernelSize < 1 || c.KernelSize%2 == 0 {
		return fmt.Errorf("direct head: KernelSize %d must be odd and positive: %w", c.KernelSize, ErrConfig)
	}
	if c.Strides[0] < 1 || c.Strides[1] < 1 {
		return fmt.Errorf("direct head: Strides %v must be positive: %w", c.Strides, ErrConfig)
	}
	return nil
}

// DirectPosePredictor regresses pose scalars without an intermediate response
// map: two padded conv+norm+activation stages, adaptive max pooling to a
// fixed KernelSize×KernelSize grid, then a fully connected layer whose
// outputs pass through the configured saturating nonlinearity.
type DirectPosePredictor struct {
	cfg          DirectConfig
	uMode, vMode tensor.PadMode

	conv1, conv2 *nn.Conv2D
	bn1, bn2     *nn.BatchNorm2D
	fc           *nn.Linear
}

// NewDirectPosePredictor validates the configuration and builds the head.
func NewDirectPosePredictor(cfg DirectConfig) (*DirectPosePredictor, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	uMode, vMode := padModes(cfg.PeriodicU, cfg.PeriodicV)
	k := cfg.KernelSize
	return &DirectPosePredictor{
		cfg:   cfg,
		uMode: uMode,
		vMode: vMode,
		conv1: nn.NewConv2D(cfg.InChannels, cfg.Features, k, k, cfg.Strides[0], cfg.Strides[0], false),
		conv2: nn.NewConv2D(cfg.Features, cfg.Features, k, k, cfg.Strides[1], cfg.Strides[1], false),
		bn1:   nn.NewBatchNorm2D(cfg.Features),
		bn2:   nn.NewBatchNorm2D(cfg.Features),
		fc:    nn.NewLinear(cfg.Features*k*k, cfg.NumOutputs),
	}, nil
}

// Eval switches the normalization layers to their running statistics.
func (p *DirectPosePredictor) Eval() {
	p.bn1.Eval()
	p.bn2.Eval()
}

// Train switches the normalization layers back to batch statistics.
func (p *DirectPosePredictor) Train() {
	p.bn1.Train()
	p.bn2.Train()
}

// Forward regresses the configured scalars from a [batch, channels, height,
// width] feature map. Result.Poses holds one [batch] tensor per output;
// Result.Heatmaps holds matching nil placeholders, for interface symmetry
// with the soft-argmax head.
func (p *DirectPosePredictor) Forward(x *tensor.Tensor) (*Result, error) {
	half := p.cfg.KernelSize / 2
	hspec := tensor.SymmetricPad(half, p.vMode)
	wspec := tensor.SymmetricPad(half, p.uMode)

	out, err := tensor.Pad2D(x, hspec, wspec)
	if err != nil {
		return nil, err
	}
	if out, err = p.conv1.Forward(out); err != nil {
		return nil, err
	}
	if out, err = p.bn1.Forward(out); err != nil {
		return nil, err
	}
	out = p.cfg.Nonlin(out)

	if out, err = tensor.Pad2D(out, hspec, wspec); err != nil {
		return nil, err
	}
	if out, err = p.conv2.Forward(out); err != nil {
		return nil, err
	}
	if out, err = p.bn2.Forward(out); err != nil {
		return nil, err
	}
	phi := p.cfg.Nonlin(out)

	k := p.cfg.KernelSize
	pooled, err := tensor.AdaptiveMaxPool2D(phi, k, k)
	if err != nil {
		return nil, err
	}
	batch := pooled.Shape()[0]
	flat, err := pooled.Reshape(batch, p.cfg.Features*k*k)
	if err != nil {
		return nil, err
	}
	scores, err := p.fc.Forward(flat)
	if err != nil {
		return nil, err
	}
	scores = p.cfg.Output(scores)

	res := &Result{
		Poses:    make([]*tensor.Tensor, p.cfg.NumOutputs),
		Heatmaps: make([]*tensor.Tensor, p.cfg.NumOutputs),
	}
	data := scores.Data()
	for o := 0; o < p.cfg.NumOutputs; o++ {
		col := tensor.Zeros(tensor.Shape{batch})
		for b := 0; b < batch; b++ {
			col.Data()[b] = data[b*p.cfg.NumOutputs+o]
		}
		res.Poses[o] = col
	}
	return res, nil
}

// Parameters returns all trainable parameters of the head.
func (p *DirectPosePredictor) Parameters() []*nn.Parameter {
	params := append([]*nn.Parameter{}, p.conv1.Parameters()...)
	params = append(params, p.bn1.Parameters()...)
	params = append(params, p.conv2.Parameters()...)
	params = append(params, p.bn2.Parameters()...)
	return append(params, p.fc.Parameters()...)
}

// String returns a one-line description of the head.
func (p *DirectPosePredictor) String() string {
	return fmt.Sprintf("DirectPosePredictor(in=%d, features=%d, kernel=%d, strides=%v, outputs=%d)",
		p.cfg.InChannels, p.cfg.Features, p.cfg.KernelSize, p.cfg.Strides, p.cfg.NumOutputs)
}
