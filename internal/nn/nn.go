// Package nn implements the small set of neural-network layers the pose
// predictors and reference backbone are built from: convolutions without
// built-in padding (border handling is owned by the tensor padding engine so
// it can be cyclic per axis), batch normalization, and a fully connected
// layer.
//
// Layer constructors panic on structurally impossible arguments (non-positive
// channel counts and the like); Forward methods return errors for input
// tensors whose shapes do not fit the layer.
package nn

import (
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// Activation is an element-wise nonlinearity applied between layers.
type Activation func(*tensor.Tensor) *tensor.Tensor

// LeakyReLU returns the leaky rectifier with the given negative slope. The
// pose predictors default to slope 0.1.
func LeakyReLU(alpha float64) Activation {
	return func(x *tensor.Tensor) *tensor.Tensor {
		return tensor.LeakyReLU(x, alpha)
	}
}

// ReLU is the standard rectifier activation.
func ReLU() Activation {
	return tensor.ReLU
}

// Tanh is the saturating hyperbolic tangent activation, used to bound
// regression outputs to (-1, 1).
func Tanh() Activation {
	return tensor.Tanh
}
