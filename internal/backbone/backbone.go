// Package backbone defines the feature-extractor contract the pose heads
// consume and ships one small reference implementation. The heads treat a
// backbone as a black box from image to feature map; any network satisfying
// FeatureExtractor plugs in.
package backbone

import (
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// FeatureExtractor maps a [batch, channels, height, width] image to either a
// feature map of the same rank or a [batch, features] vector. Implementations
// must be deterministic for fixed parameters and preserve batch order.
type FeatureExtractor interface {
	Forward(x *tensor.Tensor) (*tensor.Tensor, error)
	// OutChannels reports the channel count of the produced features.
	OutChannels() int
	// SpatialStride reports the cumulative downsampling factor between the
	// input image and the feature map (1 when fully resolution-preserving).
	SpatialStride() int
}
