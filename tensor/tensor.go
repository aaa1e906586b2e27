// Copyright 2025 Equivariant Transformers Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is the public API of the numeric core: a dense float64 CPU
// tensor with pure operations, the axis-selective padding engine and the
// valid-mode convolutions the pose heads are built on.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{1, 1, 32, 32})
//	padded, err := tensor.Pad2D(x,
//	    tensor.SymmetricPad(2, tensor.PadZero),   // height: zero borders
//	    tensor.SymmetricPad(2, tensor.PadCyclic), // width: wraps around
//	)
package tensor

import (
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// Shape holds tensor dimensions, outermost axis first.
type Shape = tensor.Shape

// Tensor is a dense row-major float64 array; operations never mutate inputs.
type Tensor = tensor.Tensor

// PadMode selects the border-handling policy for one spatial axis.
type PadMode = tensor.PadMode

// Supported padding modes.
const (
	PadNone      PadMode = tensor.PadNone
	PadZero      PadMode = tensor.PadZero
	PadReflect   PadMode = tensor.PadReflect
	PadReplicate PadMode = tensor.PadReplicate
	PadCyclic    PadMode = tensor.PadCyclic
)

// PadSpec describes per-side padding amounts and the border mode for an axis.
type PadSpec = tensor.PadSpec

// ErrShape marks errors caused by incompatible tensor dimensions.
var ErrShape = tensor.ErrShape

// Creation functions.

// New creates a zero-filled tensor, validating the shape.
func New(shape Shape) (*Tensor, error) { return tensor.New(shape) }

// Zeros creates a zero-filled tensor, panicking on an invalid shape.
func Zeros(shape Shape) *Tensor { return tensor.Zeros(shape) }

// Full creates a tensor with every element set to value.
func Full(shape Shape, value float64) *Tensor { return tensor.Full(shape, value) }

// FromSlice creates a tensor copying data into the given shape.
func FromSlice(data []float64, shape Shape) (*Tensor, error) { return tensor.FromSlice(data, shape) }

// Padding engine.

// SymmetricPad builds a PadSpec with the same amount on both sides.
func SymmetricPad(amount int, mode PadMode) PadSpec { return tensor.SymmetricPad(amount, mode) }

// Pad1D pads the last axis of a tensor according to spec.
func Pad1D(x *Tensor, spec PadSpec) (*Tensor, error) { return tensor.Pad1D(x, spec) }

// Pad2D pads the last two axes independently (hspec for height, wspec for
// width).
func Pad2D(x *Tensor, hspec, wspec PadSpec) (*Tensor, error) { return tensor.Pad2D(x, hspec, wspec) }

// Convolution and pooling.

// Conv2D performs a valid-mode 2-D cross-correlation with per-axis strides.
func Conv2D(input, kernel *Tensor, strideH, strideW int) (*Tensor, error) {
	return tensor.Conv2D(input, kernel, strideH, strideW)
}

// Conv1D performs a valid-mode 1-D cross-correlation.
func Conv1D(input, kernel *Tensor, stride int) (*Tensor, error) {
	return tensor.Conv1D(input, kernel, stride)
}

// AvgPool2D averages kernel×kernel windows over the spatial axes.
func AvgPool2D(x *Tensor, kernel, stride int) (*Tensor, error) {
	return tensor.AvgPool2D(x, kernel, stride)
}

// MaxPool2D takes the maximum over kernel×kernel windows.
func MaxPool2D(x *Tensor, kernel, stride int) (*Tensor, error) {
	return tensor.MaxPool2D(x, kernel, stride)
}

// AdaptiveMaxPool2D reduces the spatial axes to a fixed outH×outW grid.
func AdaptiveMaxPool2D(x *Tensor, outH, outW int) (*Tensor, error) {
	return tensor.AdaptiveMaxPool2D(x, outH, outW)
}

// Element-wise and reduction operations.

// Add returns the element-wise sum of two equally shaped tensors.
func Add(a, b *Tensor) (*Tensor, error) { return tensor.Add(a, b) }

// AddScalar returns x + s element-wise.
func AddScalar(x *Tensor, s float64) *Tensor { return tensor.AddScalar(x, s) }

// Scale returns x * s element-wise.
func Scale(x *Tensor, s float64) *Tensor { return tensor.Scale(x, s) }

// Tanh applies the hyperbolic tangent element-wise.
func Tanh(x *Tensor) *Tensor { return tensor.Tanh(x) }

// LeakyReLU applies x for x >= 0 and alpha*x otherwise.
func LeakyReLU(x *Tensor, alpha float64) *Tensor { return tensor.LeakyReLU(x, alpha) }

// Softmax normalizes along one axis so each slice sums to 1.
func Softmax(x *Tensor, axis int) (*Tensor, error) { return tensor.Softmax(x, axis) }

// MaxAlong reduces one axis to its maximum, removing it from the shape.
func MaxAlong(x *Tensor, axis int) (*Tensor, error) { return tensor.MaxAlong(x, axis) }

// MeanAlong reduces one axis to its mean, removing it from the shape.
func MeanAlong(x *Tensor, axis int) (*Tensor, error) { return tensor.MeanAlong(x, axis) }

// Narrow extracts length elements starting at start along an axis.
func Narrow(x *Tensor, axis, start, length int) (*Tensor, error) {
	return tensor.Narrow(x, axis, start, length)
}

// Cat concatenates tensors along an axis.
func Cat(tensors []*Tensor, axis int) (*Tensor, error) { return tensor.Cat(tensors, axis) }
