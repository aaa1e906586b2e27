package pose

import (
	"fmt"
	"math"

	"github.com/siddhantmittal7/equivariant-transformers/internal/coords"
	"github.com/siddhantmittal7/equivariant-transformers/internal/nn"
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// EquivariantConfig configures a soft-argmax pose predictor.
//
// Zero values pick the conventional defaults: kernel size 5, per-stage
// strides (2, 2) and LeakyReLU(0.1) activation.
type EquivariantConfig struct {
	// InChannels is the channel count of the incoming feature map.
	InChannels int
	// Features is the channel width of the two convolutional stages.
	Features int
	// KernelSize is the (odd) kernel edge length of every convolution.
	KernelSize int
	// Strides holds the stride of each 2-D stage, applied to both spatial
	// axes of that stage.
	Strides [2]int
	// PeriodicU and PeriodicV mark the width and height axes as wrapping.
	// A periodic axis is padded cyclically and reduced with a circular mean.
	PeriodicU, PeriodicV bool
	// ReturnU and ReturnV select which axes to estimate. At least one must
	// be set; construction fails otherwise.
	ReturnU, ReturnV bool
	// Nonlin is the activation between stages.
	Nonlin nn.Activation
}

func (c *EquivariantConfig) applyDefaults() {
	if c.KernelSize == 0 {
		c.KernelSize = 5
	}
	if c.Strides == [2]int{} {
		c.Strides = [2]int{2, 2}
	}
	if c.Nonlin == nil {
		c.Nonlin = nn.LeakyReLU(0.1)
	}
}

func (c *EquivariantConfig) validate() error {
	if !c.ReturnU && !c.ReturnV {
		return fmt.Errorf("equivariant head: at least one of ReturnU and ReturnV must be set: %w", ErrConfig)
	}
	if c.InChannels < 1 {
		return fmt.Errorf("equivariant head: InChannels %d must be positive: %w", c.InChannels, ErrConfig)
	}
	if c.Features < 1 {
		return fmt.Errorf("equivariant head: Features %d must be positive: %w", c.Features, ErrConfig)
	}
	if c.KernelSize < 1 || c.KernelSize%2 == 0 {
		return fmt.Errorf("equivariant head: KernelSize %d must be odd and positive: %w", c.KernelSize, ErrConfig)
	}
	if c.Strides[0] < 1 || c.Strides[1] < 1 {
		return fmt.Errorf("equivariant head: Strides %v must be positive: %w", c.Strides, ErrConfig)
	}
	return nil
}

// EquivariantPosePredictor estimates a continuous pose coordinate per spatial
// axis by soft-argmax over learned response maps.
//
// The forward pass runs two padded conv+norm+activation stages, collapses the
// result along the opposing axis by max-reduction for each requested axis,
// refines the 1-D response with a padded convolution, normalizes it with a
// softmax and reduces it with Centroid using the axis's tracked coordinate
// step. A learned scalar bias, bounded by tanh, is added to each estimate, so
// outputs stay within [-1, 1].
type EquivariantPosePredictor struct {
	cfg          EquivariantConfig
	uMode, vMode tensor.PadMode

	conv1, conv2 *nn.Conv2D
	bn1, bn2     *nn.BatchNorm2D
	convU, convV *nn.Conv1D
	biasU, biasV *nn.Parameter
}

// NewEquivariantPosePredictor validates the configuration and builds the
// head. Layer weights are Xavier-initialized; the output biases start at
// zero.
func NewEquivariantPosePredictor(cfg EquivariantConfig) (*EquivariantPosePredictor, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	uMode, vMode := padModes(cfg.PeriodicU, cfg.PeriodicV)
	k := cfg.KernelSize
	p := &EquivariantPosePredictor{
		cfg:   cfg,
		uMode: uMode,
		vMode: vMode,
		conv1: nn.NewConv2D(cfg.InChannels, cfg.Features, k, k, cfg.Strides[0], cfg.Strides[0], false),
		conv2: nn.NewConv2D(cfg.Features, cfg.Features, k, k, cfg.Strides[1], cfg.Strides[1], false),
		bn1:   nn.NewBatchNorm2D(cfg.Features),
		bn2:   nn.NewBatchNorm2D(cfg.Features),
		biasU: nn.NewParameter("bias_u", tensor.Zeros(tensor.Shape{1})),
		biasV: nn.NewParameter("bias_v", tensor.Zeros(tensor.Shape{1})),
	}
	if cfg.ReturnU {
		p.convU = nn.NewConv1D(cfg.Features, 1, k, 1, false)
	}
	if cfg.ReturnV {
		p.convV = nn.NewConv1D(cfg.Features, 1, k, 1, false)
	}
	return p, nil
}

// Eval switches the normalization layers to their running statistics.
func (p *EquivariantPosePredictor) Eval() {
	p.bn1.Eval()
	p.bn2.Eval()
}

// Train switches the normalization layers back to batch statistics.
func (p *EquivariantPosePredictor) Train() {
	p.bn1.Train()
	p.bn2.Train()
}

// Forward estimates the requested pose coordinates from a [batch, channels,
// height, width] feature map. See Result for the output layout.
func (p *EquivariantPosePredictor) Forward(x *tensor.Tensor) (*Result, error) {
	vFrame, uFrame, err := coords.NewImageFrames(x)
	if err != nil {
		return nil, err
	}
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
	vFrame = vFrame.Advance(p.cfg.Strides[0])
	uFrame = uFrame.Advance(p.cfg.Strides[0])
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
	vFrame = vFrame.Advance(p.cfg.Strides[1])
	uFrame = uFrame.Advance(p.cfg.Strides[1])
	if out, err = p.bn2.Forward(out); err != nil {
		return nil, err
	}
	phi := p.cfg.Nonlin(out)

	res := &Result{}
	if p.cfg.ReturnU {
		pose, heatmap, err := p.axisEstimate(phi, 2, p.convU, wspec, uFrame, p.cfg.PeriodicU, p.biasU)
		if err != nil {
			return nil, err
		}
		res.Poses = append(res.Poses, pose)
		res.Heatmaps = append(res.Heatmaps, heatmap)
	}
	if p.cfg.ReturnV {
		pose, heatmap, err := p.axisEstimate(phi, 3, p.convV, hspec, vFrame, p.cfg.PeriodicV, p.biasV)
		if err != nil {
			return nil, err
		}
		res.Poses = append(res.Poses, pose)
		res.Heatmaps = append(res.Heatmaps, heatmap)
	}
	return res, nil
}

// axisEstimate collapses the feature map along reduceAxis, refines the
// surviving axis with a padded 1-D convolution, and reduces the softmax
// response to a biased scalar estimate.
func (p *EquivariantPosePredictor) axisEstimate(
	phi *tensor.Tensor,
	reduceAxis int,
	conv *nn.Conv1D,
	spec tensor.PadSpec,
	frame coords.AxisFrame,
	periodic bool,
	bias *nn.Parameter,
) (pose, heatmap *tensor.Tensor, err error) {
	out, err := tensor.MaxAlong(phi, reduceAxis) // [batch, features, bins]
	if err != nil {
		return nil, nil, err
	}
	if out, err = tensor.Pad1D(out, spec); err != nil {
		return nil, nil, err
	}
	if out, err = conv.Forward(out); err != nil {
		return nil, nil, err
	}
	shape := out.Shape() // [batch, 1, bins]
	logits, err := out.Reshape(shape[0], shape[2])
	if err != nil {
		return nil, nil, err
	}
	heatmap, err = tensor.Softmax(logits, -1)
	if err != nil {
		return nil, nil, err
	}
	pose, err = Centroid(heatmap, frame.Delta(), reduceFor(periodic))
	if err != nil {
		return nil, nil, err
	}
	pose = tensor.AddScalar(pose, math.Tanh(bias.Tensor().Data()[0]))
	return pose, heatmap, nil
}

// Parameters returns all trainable parameters of the head.
func (p *EquivariantPosePredictor) Parameters() []*nn.Parameter {
	params := append([]*nn.Parameter{}, p.conv1.Parameters()...)
	params = append(params, p.bn1.Parameters()...)
	params = append(params, p.conv2.Parameters()...)
	params = append(params, p.bn2.Parameters()...)
	if p.convU != nil {
		params = append(params, p.convU.Parameters()...)
	}
	if p.convV != nil {
		params = append(params, p.convV.Parameters()...)
	}
	return append(params, p.biasU, p.biasV)
}

// BiasU exposes the learned u output bias.
func (p *EquivariantPosePredictor) BiasU() *nn.Parameter { return p.biasU }

// BiasV exposes the learned v output bias.
func (p *EquivariantPosePredictor) BiasV() *nn.Parameter { return p.biasV }

// Conv1 exposes the first stage convolution.
func (p *EquivariantPosePredictor) Conv1() *nn.Conv2D { return p.conv1 }

// Conv2 exposes the second stage convolution.
func (p *EquivariantPosePredictor) Conv2() *nn.Conv2D { return p.conv2 }

// ConvU exposes the u-axis refinement convolution (nil when u is not
// requested).
func (p *EquivariantPosePredictor) ConvU() *nn.Conv1D { return p.convU }

// ConvV exposes the v-axis refinement convolution (nil when v is not
// requested).
func (p *EquivariantPosePredictor) ConvV() *nn.Conv1D { return p.convV }

// String returns a one-line description of the head.
func (p *EquivariantPosePredictor) String() string {
	return fmt.Sprintf("EquivariantPosePredictor(in=%d, features=%d, kernel=%d, strides=%v, periodic=(%v, %v), return=(%v, %v))",
		p.cfg.InChannels, p.cfg.Features, p.cfg.KernelSize, p.cfg.Strides,
		p.cfg.PeriodicU, p.cfg.PeriodicV, p.cfg.ReturnU, p.cfg.ReturnV)
}
