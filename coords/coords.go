// Copyright 2025 Equivariant Transformers Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package coords is the public API for coordinate tracking and grid
// transforms: the per-axis affine map from feature-map pixel index to
// normalized input coordinate, and the Transform objects a surrounding
// spatial-transformer pipeline applies to coordinate grids.
package coords

import (
	"github.com/siddhantmittal7/equivariant-transformers/internal/coords"
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// AxisFrame is the affine map coordinate = index*Scale - Offset for one
// spatial axis.
type AxisFrame = coords.AxisFrame

// NewAxisFrame builds the frame for an axis of the given input length.
func NewAxisFrame(inputLen int) (AxisFrame, error) { return coords.NewAxisFrame(inputLen) }

// NewImageFrames builds the (v, u) axis frames for a [N, C, H, W] image.
func NewImageFrames(x *tensor.Tensor) (v, u AxisFrame, err error) {
	return coords.NewImageFrames(x)
}

// IdentityGrid builds a [h, w, 2] coordinate grid covering [-1, 1].
func IdentityGrid(h, w int) (*tensor.Tensor, error) { return coords.IdentityGrid(h, w) }

// Transform deforms a [batch, h, w, 2] coordinate grid.
type Transform = coords.Transform

// Shift translates grid coordinates by per-sample offsets, wrapping periodic
// axes back into [-1, 1).
type Shift = coords.Shift
