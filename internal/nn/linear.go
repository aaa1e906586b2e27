package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// Linear is a fully connected layer computing y = x @ W^T + b.
//
// Input shape:  [batch, in_features]
// Weight shape: [out_features, in_features]
// Output shape: [batch, out_features]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
}

// NewLinear creates a fully connected layer with Xavier-initialized weights
// and zero bias.
func NewLinear(inFeatures, outFeatures int) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures})
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("linear.weight", weight),
		bias:        NewParameter("linear.bias", tensor.Zeros(tensor.Shape{outFeatures})),
	}
}

// Forward applies the affine map to a [batch, in_features] input.
func (l *Linear) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("linear: input must be 2-D [batch, features], got %v: %w", shape, tensor.ErrShape)
	}
	if shape[1] != l.inFeatures {
		return nil, fmt.Errorf("linear: input has %d features, layer expects %d: %w",
			shape[1], l.inFeatures, tensor.ErrShape)
	}
	n := shape[0]
	xm := mat.NewDense(n, l.inFeatures, input.Data())
	wm := mat.NewDense(l.outFeatures, l.inFeatures, l.weight.Tensor().Data())
	var prod mat.Dense
	prod.Mul(xm, wm.T()) // [batch, out_features]

	out := tensor.Zeros(tensor.Shape{n, l.outFeatures})
	data := out.Data()
	pm := prod.RawMatrix()
	bias := l.bias.Tensor().Data()
	for b := 0; b < n; b++ {
		row := pm.Data[b*pm.Stride : b*pm.Stride+l.outFeatures]
		for j, v := range row {
			data[b*l.outFeatures+j] = v + bias[j]
		}
	}
	return out, nil
}

// Parameters returns weight and bias.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight exposes the weight parameter.
func (l *Linear) Weight() *Parameter { return l.weight }

// String returns a one-line description of the layer.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear(in=%d, out=%d)", l.inFeatures, l.outFeatures)
}
