package tensor

import "fmt"

// Shape holds the dimensions of a tensor, outermost axis first.
// The conventional layouts in this module are [batch, channels, height, width]
// for images and [batch, channels, length] for 1-D signals.
type Shape []int

// NumElements returns the total element count. A zero-length shape is a scalar.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate reports an error when any dimension is non-positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("shape %v: dimension %d is %d, must be positive: %w", s, i, dim, ErrShape)
		}
	}
	return nil
}

// Equal reports whether two shapes have identical rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// outerInner splits the shape around an axis: the product of all dimensions
// before the axis and the product of all dimensions after it. Reduction and
// padding kernels iterate outer×inner blocks around the axis.
func (s Shape) outerInner(axis int) (outer, inner int) {
	outer, inner = 1, 1
	for i := 0; i < axis; i++ {
		outer *= s[i]
	}
	for i := axis + 1; i < len(s); i++ {
		inner *= s[i]
	}
	return outer, inner
}
