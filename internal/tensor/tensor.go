// Package tensor implements the dense numeric core used by the pose-prediction
// heads: a float64 CPU tensor with pure (non-mutating) operations, the
// axis-selective padding engine, valid-mode convolution, and pooling.
//
// Every operation returns a freshly allocated tensor; inputs are never written
// to. Shape failures are reported as errors wrapping ErrShape so callers can
// classify them with errors.Is.
package tensor

import (
	"errors"
	"fmt"
)

// ErrShape marks errors caused by tensor dimensions that are incompatible with
// the requested operation (padding wider than the axis, pooling to a grid
// larger than the input, mismatched operand shapes).
var ErrShape = errors.New("incompatible tensor shape")

// Tensor is a dense row-major float64 array. The zero value is not usable;
// construct tensors with New, Zeros, Full or FromSlice.
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}, nil
}

// Zeros creates a zero-filled tensor. It panics on an invalid shape; use New
// when the shape comes from untrusted input.
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return t
}

// Full creates a tensor with every element set to value.
func Full(shape Shape, value float64) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// FromSlice creates a tensor that copies data into the given shape.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("tensor: %d elements do not fill shape %v (%d needed): %w",
			len(data), shape, shape.NumElements(), ErrShape)
	}
	t := &Tensor{shape: shape.Clone(), data: make([]float64, len(data))}
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's dimensions. The returned slice must not be modified.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Dim returns the size of one axis. Negative axes count from the end.
func (t *Tensor) Dim(axis int) int {
	if axis < 0 {
		axis += len(t.shape)
	}
	return t.shape[axis]
}

// NumElements returns the total element count.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// Data exposes the underlying row-major storage. Callers that write through
// this slice take ownership of the tensor; the library itself never mutates a
// tensor it has handed out.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{shape: t.shape.Clone(), data: make([]float64, len(t.data))}
	copy(out.data, t.data)
	return out
}

// At reads the element at the given multi-dimensional index.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.flatIndex(indices)]
}

// Set writes the element at the given multi-dimensional index.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.flatIndex(indices)] = value
}

// Reshape returns a view-copy with the same elements in a new shape.
func (t *Tensor) Reshape(dims ...int) (*Tensor, error) {
	newShape := Shape(dims)
	if err := newShape.Validate(); err != nil {
		return nil, err
	}
	if newShape.NumElements() != t.NumElements() {
		return nil, fmt.Errorf("tensor: cannot reshape %v to %v: %w", t.shape, newShape, ErrShape)
	}
	out := &Tensor{shape: newShape.Clone(), data: make([]float64, len(t.data))}
	copy(out.data, t.data)
	return out, nil
}

func (t *Tensor) flatIndex(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: %d indices for %d-D tensor", len(indices), len(t.shape)))
	}
	idx := 0
	for i, ix := range indices {
		if ix < 0 || ix >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range [0,%d) on axis %d", ix, t.shape[i], i))
		}
		idx = idx*t.shape[i] + ix
	}
	return idx
}

// String returns a compact description, not the full contents.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v)", t.shape)
}
