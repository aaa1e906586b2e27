package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Add returns the element-wise sum of two tensors of identical shape.
func Add(a, b *Tensor) (*Tensor, error) {
	if !a.shape.Equal(b.shape) {
		return nil, fmt.Errorf("add: shapes %v and %v differ: %w", a.shape, b.shape, ErrShape)
	}
	out := a.Clone()
	floats.Add(out.data, b.data)
	return out, nil
}

// AddScalar returns x + s applied element-wise.
func AddScalar(x *Tensor, s float64) *Tensor {
	out := x.Clone()
	floats.AddConst(s, out.data)
	return out
}

// Scale returns x * s applied element-wise.
func Scale(x *Tensor, s float64) *Tensor {
	out := x.Clone()
	floats.Scale(s, out.data)
	return out
}

// Tanh applies the hyperbolic tangent element-wise.
func Tanh(x *Tensor) *Tensor {
	out := x.Clone()
	for i, v := range out.data {
		out.data[i] = math.Tanh(v)
	}
	return out
}

// ReLU applies max(0, x) element-wise.
func ReLU(x *Tensor) *Tensor {
	out := x.Clone()
	for i, v := range out.data {
		if v < 0 {
			out.data[i] = 0
		}
	}
	return out
}

// LeakyReLU applies x for x >= 0 and alpha*x otherwise.
func LeakyReLU(x *Tensor, alpha float64) *Tensor {
	out := x.Clone()
	for i, v := range out.data {
		if v < 0 {
			out.data[i] = alpha * v
		}
	}
	return out
}

// Softmax normalizes along one axis so each slice sums to 1. The maximum is
// subtracted before exponentiation for numerical stability.
func Softmax(x *Tensor, axis int) (*Tensor, error) {
	axis, err := resolveAxis(x.shape, axis, "softmax")
	if err != nil {
		return nil, err
	}
	out := x.Clone()
	n := x.shape[axis]
	outer, inner := x.shape.outerInner(axis)
	if inner == 1 {
		// Contiguous rows: vectorized path.
		for o := 0; o < outer; o++ {
			row := out.data[o*n : (o+1)*n]
			m := floats.Max(row)
			for i, v := range row {
				row[i] = math.Exp(v - m)
			}
			floats.Scale(1/floats.Sum(row), row)
		}
		return out, nil
	}
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*n*inner + in
			m := math.Inf(-1)
			for a := 0; a < n; a++ {
				if v := out.data[base+a*inner]; v > m {
					m = v
				}
			}
			sum := 0.0
			for a := 0; a < n; a++ {
				e := math.Exp(out.data[base+a*inner] - m)
				out.data[base+a*inner] = e
				sum += e
			}
			for a := 0; a < n; a++ {
				out.data[base+a*inner] /= sum
			}
		}
	}
	return out, nil
}

// MaxAlong reduces one axis to its maximum, removing the axis from the shape.
// Reducing a [N, C, H, W] tensor along axis 2 yields [N, C, W].
func MaxAlong(x *Tensor, axis int) (*Tensor, error) {
	axis, err := resolveAxis(x.shape, axis, "max")
	if err != nil {
		return nil, err
	}
	if len(x.shape) < 2 {
		return nil, fmt.Errorf("max: cannot reduce %d-D tensor: %w", len(x.shape), ErrShape)
	}
	outShape := make(Shape, 0, len(x.shape)-1)
	outShape = append(outShape, x.shape[:axis]...)
	outShape = append(outShape, x.shape[axis+1:]...)
	out := Zeros(outShape)

	n := x.shape[axis]
	outer, inner := x.shape.outerInner(axis)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*n*inner + in
			m := x.data[base]
			for a := 1; a < n; a++ {
				if v := x.data[base+a*inner]; v > m {
					m = v
				}
			}
			out.data[o*inner+in] = m
		}
	}
	return out, nil
}

// MeanAlong reduces one axis to its arithmetic mean, removing the axis.
func MeanAlong(x *Tensor, axis int) (*Tensor, error) {
	axis, err := resolveAxis(x.shape, axis, "mean")
	if err != nil {
		return nil, err
	}
	outShape := make(Shape, 0, len(x.shape)-1)
	outShape = append(outShape, x.shape[:axis]...)
	outShape = append(outShape, x.shape[axis+1:]...)
	out := Zeros(outShape)

	n := x.shape[axis]
	outer, inner := x.shape.outerInner(axis)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*n*inner + in
			sum := 0.0
			for a := 0; a < n; a++ {
				sum += x.data[base+a*inner]
			}
			out.data[o*inner+in] = sum / float64(n)
		}
	}
	return out, nil
}

// Narrow extracts length elements starting at start along an axis.
func Narrow(x *Tensor, axis, start, length int) (*Tensor, error) {
	axis, err := resolveAxis(x.shape, axis, "narrow")
	if err != nil {
		return nil, err
	}
	n := x.shape[axis]
	if start < 0 || length <= 0 || start+length > n {
		return nil, fmt.Errorf("narrow: window [%d,%d) outside axis of length %d: %w",
			start, start+length, n, ErrShape)
	}
	outShape := x.shape.Clone()
	outShape[axis] = length
	out := Zeros(outShape)

	outer, inner := x.shape.outerInner(axis)
	for o := 0; o < outer; o++ {
		src := x.data[(o*n+start)*inner : (o*n+start+length)*inner]
		dst := out.data[o*length*inner : (o+1)*length*inner]
		copy(dst, src)
	}
	return out, nil
}

// Cat concatenates tensors along an axis. All other dimensions must agree.
func Cat(tensors []*Tensor, axis int) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("cat: no tensors given: %w", ErrShape)
	}
	first := tensors[0]
	axis, err := resolveAxis(first.shape, axis, "cat")
	if err != nil {
		return nil, err
	}
	total := 0
	for i, t := range tensors {
		if len(t.shape) != len(first.shape) {
			return nil, fmt.Errorf("cat: tensor %d has rank %d, want %d: %w",
				i, len(t.shape), len(first.shape), ErrShape)
		}
		for d := range t.shape {
			if d != axis && t.shape[d] != first.shape[d] {
				return nil, fmt.Errorf("cat: tensor %d shape %v incompatible with %v on axis %d: %w",
					i, t.shape, first.shape, d, ErrShape)
			}
		}
		total += t.shape[axis]
	}
	outShape := first.shape.Clone()
	outShape[axis] = total
	out := Zeros(outShape)

	outer, inner := first.shape.outerInner(axis)
	for o := 0; o < outer; o++ {
		offset := 0
		for _, t := range tensors {
			n := t.shape[axis]
			src := t.data[o*n*inner : (o+1)*n*inner]
			dst := out.data[(o*total+offset)*inner:]
			copy(dst[:n*inner], src)
			offset += n
		}
	}
	return out, nil
}

func resolveAxis(shape Shape, axis int, op string) (int, error) {
	if axis < 0 {
		axis += len(shape)
	}
	if axis < 0 || axis >= len(shape) {
		return 0, fmt.Errorf("%s: axis out of range for shape %v: %w", op, shape, ErrShape)
	}
	return axis, nil
}
