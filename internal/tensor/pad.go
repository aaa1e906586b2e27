package tensor

import "fmt"

// PadMode selects the border-handling policy for one spatial axis.
type PadMode int

// Supported padding modes. PadCyclic wraps the axis around and is used on
// periodic coordinate axes (for example the angular axis of a polar or
// log-polar image); the remaining modes are the standard border policies.
const (
	PadNone PadMode = iota
	PadZero
	PadReflect
	PadReplicate
	PadCyclic
)

// String returns a human-readable mode name.
func (m PadMode) String() string {
	switch m {
	case PadNone:
		return "none"
	case PadZero:
		return "zero"
	case PadReflect:
		return "reflect"
	case PadReplicate:
		return "replicate"
	case PadCyclic:
		return "cyclic"
	default:
		return "unknown"
	}
}

// PadSpec describes the padding applied to one axis: the amounts prepended
// (Before) and appended (After) and the border mode. PadNone ignores the
// amounts entirely and leaves the tensor untouched.
type PadSpec struct {
	Before int
	After  int
	Mode   PadMode
}

// SymmetricPad builds a PadSpec with the same amount on both sides.
func SymmetricPad(amount int, mode PadMode) PadSpec {
	return PadSpec{Before: amount, After: amount, Mode: mode}
}

// Pad1D pads the last axis of a tensor according to spec. The input is never
// mutated; when the spec is a no-op the input tensor is returned as is.
func Pad1D(x *Tensor, spec PadSpec) (*Tensor, error) {
	return padAxis(x, len(x.shape)-1, spec)
}

// Pad2D pads the last two axes of a tensor independently: wspec applies to the
// width (last) axis and hspec to the height (second-to-last) axis. The axes
// are independent memory dimensions, so the application order does not affect
// the result; width is padded first.
func Pad2D(x *Tensor, hspec, wspec PadSpec) (*Tensor, error) {
	if len(x.shape) < 2 {
		return nil, fmt.Errorf("pad2d: need at least 2 axes, got shape %v: %w", x.shape, ErrShape)
	}
	out, err := padAxis(x, len(x.shape)-1, wspec)
	if err != nil {
		return nil, err
	}
	return padAxis(out, len(out.shape)-2, hspec)
}

func padAxis(x *Tensor, axis int, spec PadSpec) (*Tensor, error) {
	if spec.Before < 0 || spec.After < 0 {
		return nil, fmt.Errorf("pad: negative amounts (%d, %d): %w", spec.Before, spec.After, ErrShape)
	}
	if spec.Mode == PadNone || (spec.Before == 0 && spec.After == 0) {
		return x, nil
	}
	n := x.shape[axis]
	switch spec.Mode {
	case PadCyclic:
		return cyclicPad(x, axis, spec.Before, spec.After)
	case PadZero, PadReplicate:
		// No amount constraint: the border value extends arbitrarily far.
	case PadReflect:
		// Reflection mirrors about the edge element, so at most n-1 elements
		// exist on each side.
		if spec.Before > n-1 || spec.After > n-1 {
			return nil, fmt.Errorf("pad: reflect amounts (%d, %d) exceed axis length %d - 1: %w",
				spec.Before, spec.After, n, ErrShape)
		}
	default:
		return nil, fmt.Errorf("pad: unknown mode %d: %w", int(spec.Mode), ErrShape)
	}

	outShape := x.shape.Clone()
	outShape[axis] = n + spec.Before + spec.After
	out := Zeros(outShape)

	outer, inner := x.shape.outerInner(axis)
	newN := outShape[axis]
	for o := 0; o < outer; o++ {
		srcBase := o * n * inner
		dstBase := o * newN * inner
		for a := 0; a < newN; a++ {
			s := a - spec.Before
			switch spec.Mode {
			case PadZero:
				if s < 0 || s >= n {
					continue // already zero
				}
			case PadReplicate:
				if s < 0 {
					s = 0
				} else if s >= n {
					s = n - 1
				}
			case PadReflect:
				if s < 0 {
					s = -s
				} else if s >= n {
					s = 2*n - 2 - s
				}
			}
			copy(out.data[dstBase+a*inner:dstBase+(a+1)*inner],
				x.data[srcBase+s*inner:srcBase+(s+1)*inner])
		}
	}
	return out, nil
}

// cyclicPad wraps the axis around: the block prepended before the input is the
// input's last `before` elements and the block appended after it is the
// input's first `after` elements. Zero-amount sides are skipped rather than
// concatenated as empty operands.
func cyclicPad(x *Tensor, axis, before, after int) (*Tensor, error) {
	n := x.shape[axis]
	if before > n || after > n {
		return nil, fmt.Errorf("pad: cyclic amounts (%d, %d) exceed axis length %d: %w",
			before, after, n, ErrShape)
	}
	parts := make([]*Tensor, 0, 3)
	if before > 0 {
		tail, err := Narrow(x, axis, n-before, before)
		if err != nil {
			return nil, err
		}
		parts = append(parts, tail)
	}
	parts = append(parts, x)
	if after > 0 {
		head, err := Narrow(x, axis, 0, after)
		if err != nil {
			return nil, err
		}
		parts = append(parts, head)
	}
	return Cat(parts, axis)
}
