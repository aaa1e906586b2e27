// Package coords tracks the geometric relationship between feature-map pixel
// indices and normalized input coordinates, and provides the coordinate-grid
// types a surrounding spatial-transformer pipeline consumes.
//
// Normalized coordinates span [-1, 1] across the input extent, with 0 at the
// image center. AxisFrame records, per spatial axis, the affine map from an
// output pixel index back to the normalized input coordinate of that pixel's
// receptive-field center as strided convolutions deform it.
package coords

import (
	"fmt"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// AxisFrame is the affine map coordinate = index*Scale - Offset for one
// spatial axis. It is a pure value: Advance returns a new frame and all
// samples of a batch share the same frame, since spatial geometry does not
// depend on the batch index.
type AxisFrame struct {
	// Scale is the normalized-coordinate step between adjacent pixels. It
	// starts at 2/(inputLen-1) and accumulates the product of all strides
	// passed through; it is always positive.
	Scale float64
	// Offset centers the coordinate range so index (inputLen-1)/2 maps to 0.
	Offset float64
}

// NewAxisFrame builds the frame for an axis of the given input length.
func NewAxisFrame(inputLen int) (AxisFrame, error) {
	if inputLen < 2 {
		return AxisFrame{}, fmt.Errorf("coords: axis length %d must be at least 2", inputLen)
	}
	scale := 2 / float64(inputLen-1)
	return AxisFrame{
		Scale:  scale,
		Offset: scale * float64(inputLen-1) / 2,
	}, nil
}

// Advance composes the frame with a center-preserving strided operation: the
// index-to-coordinate step grows by the stride while the offset is unchanged.
// Composing strides s1 then s2 is identical to a single stride s1*s2.
// Asymmetric padding or even kernels would shift the origin and are not
// modeled here; all layers in this module pad symmetrically.
func (f AxisFrame) Advance(stride int) AxisFrame {
	if stride < 1 {
		panic(fmt.Sprintf("coords: invalid stride %d", stride))
	}
	return AxisFrame{Scale: f.Scale * float64(stride), Offset: f.Offset}
}

// Coordinate maps an output pixel index to its normalized input coordinate.
func (f AxisFrame) Coordinate(index int) float64 {
	return float64(index)*f.Scale - f.Offset
}

// Delta returns the coordinate distance between adjacent output pixels. This
// is the bin step handed to the centroid estimator.
func (f AxisFrame) Delta() float64 {
	return f.Scale
}

// String describes the frame for logs and test failures.
func (f AxisFrame) String() string {
	return fmt.Sprintf("AxisFrame(scale=%g, offset=%g)", f.Scale, f.Offset)
}

// NewImageFrames builds the (v, u) axis frames for a [N, C, H, W] image
// tensor: v tracks the height axis, u the width axis.
func NewImageFrames(x *tensor.Tensor) (v, u AxisFrame, err error) {
	shape := x.Shape()
	if len(shape) != 4 {
		return AxisFrame{}, AxisFrame{}, fmt.Errorf("coords: expected 4-D image tensor, got shape %v", shape)
	}
	if v, err = NewAxisFrame(shape[2]); err != nil {
		return AxisFrame{}, AxisFrame{}, err
	}
	if u, err = NewAxisFrame(shape[3]); err != nil {
		return AxisFrame{}, AxisFrame{}, err
	}
	return v, u, nil
}
