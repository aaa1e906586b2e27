package nn

import "github.com/siddhantmittal7/equivariant-transformers/internal/tensor"

// Parameter is a learned tensor owned by a layer. The library only ever reads
// parameters during forward evaluation; an external training procedure updates
// them through Tensor and the gradient slot.
type Parameter struct {
	name   string
	tensor *tensor.Tensor
	grad   *tensor.Tensor
}

// NewParameter wraps an initialized tensor as a named parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name, e.g. "conv1.weight".
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter values.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before any backward pass.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// SetGrad stores a gradient computed by an external training procedure.
func (p *Parameter) SetGrad(g *tensor.Tensor) {
	p.grad = g
}

// ZeroGrad drops the stored gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
