package nn

import (
	"fmt"
	"math"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// BatchNorm2D normalizes each channel of a [batch, channels, height, width]
// tensor: y = gamma * (x - mean) / sqrt(var + eps) + beta.
//
// In training mode the statistics come from the current batch and the running
// estimates are updated with exponential smoothing; in inference mode the
// running estimates are used directly. Gamma starts at one and beta at zero,
// so a freshly constructed layer in inference mode is the identity.
type BatchNorm2D struct {
	channels int
	eps      float64
	momentum float64
	training bool

	gamma *Parameter
	beta  *Parameter

	runningMean []float64
	runningVar  []float64
}

// NewBatchNorm2D creates a batch-normalization layer for the given channel
// count with eps 1e-5 and momentum 0.1, starting in training mode.
func NewBatchNorm2D(channels int) *BatchNorm2D {
	if channels <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid channel count %d", channels))
	}
	runningVar := make([]float64, channels)
	for i := range runningVar {
		runningVar[i] = 1
	}
	return &BatchNorm2D{
		channels:    channels,
		eps:         1e-5,
		momentum:    0.1,
		training:    true,
		gamma:       NewParameter("batchnorm.gamma", tensor.Full(tensor.Shape{channels}, 1)),
		beta:        NewParameter("batchnorm.beta", tensor.Zeros(tensor.Shape{channels})),
		runningMean: make([]float64, channels),
		runningVar:  runningVar,
	}
}

// Train switches to batch statistics.
func (b *BatchNorm2D) Train() { b.training = true }

// Eval switches to the running statistics.
func (b *BatchNorm2D) Eval() { b.training = false }

// Forward normalizes the input per channel.
func (b *BatchNorm2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) != 4 {
		return nil, fmt.Errorf("batchnorm2d: input must be 4-D [N,C,H,W], got %v: %w", shape, tensor.ErrShape)
	}
	if shape[1] != b.channels {
		return nil, fmt.Errorf("batchnorm2d: input has %d channels, layer expects %d: %w",
			shape[1], b.channels, tensor.ErrShape)
	}
	n, c := shape[0], shape[1]
	plane := shape[2] * shape[3]
	count := float64(n * plane)

	mean := b.runningMean
	variance := b.runningVar
	if b.training {
		mean = make([]float64, c)
		variance = make([]float64, c)
		data := input.Data()
		for ch := 0; ch < c; ch++ {
			sum := 0.0
			for batch := 0; batch < n; batch++ {
				seg := data[(batch*c+ch)*plane : (batch*c+ch+1)*plane]
				for _, v := range seg {
					sum += v
				}
			}
			m := sum / count
			sq := 0.0
			for batch := 0; batch < n; batch++ {
				seg := data[(batch*c+ch)*plane : (batch*c+ch+1)*plane]
				for _, v := range seg {
					d := v - m
					sq += d * d
				}
			}
			mean[ch] = m
			variance[ch] = sq / count
			b.runningMean[ch] = (1-b.momentum)*b.runningMean[ch] + b.momentum*m
			b.runningVar[ch] = (1-b.momentum)*b.runningVar[ch] + b.momentum*variance[ch]
		}
	}

	out := input.Clone()
	data := out.Data()
	gamma := b.gamma.Tensor().Data()
	beta := b.beta.Tensor().Data()
	for ch := 0; ch < c; ch++ {
		scale := gamma[ch] / math.Sqrt(variance[ch]+b.eps)
		shift := beta[ch] - mean[ch]*scale
		for batch := 0; batch < n; batch++ {
			seg := data[(batch*c+ch)*plane : (batch*c+ch+1)*plane]
			for i, v := range seg {
				seg[i] = v*scale + shift
			}
		}
	}
	return out, nil
}

// Parameters returns gamma and beta.
func (b *BatchNorm2D) Parameters() []*Parameter {
	return []*Parameter{b.gamma, b.beta}
}

// String returns a one-line description of the layer.
func (b *BatchNorm2D) String() string {
	return fmt.Sprintf("BatchNorm2D(channels=%d, eps=%g)", b.channels, b.eps)
}
