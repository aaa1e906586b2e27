package pose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// ReduceMode selects how a response map collapses to a scalar location. The
// two cases are an explicit tagged pair rather than an open hierarchy: the
// arithmetic is short enough to audit side by side.
type ReduceMode int

const (
	// ReduceLinear takes the probability-weighted mean of the bin
	// coordinates (a soft-argmax on a non-wrapping axis).
	ReduceLinear ReduceMode = iota
	// ReducePeriodic maps bins to angles and returns the direction of the
	// resultant vector (a circular mean), so mass straddling the -1/+1 seam
	// averages near the seam instead of near zero.
	ReducePeriodic
)

// resultantEps bounds the circular-mean resultant magnitude below which the
// direction is considered undefined.
const resultantEps = 1e-12

// String returns the mode name.
func (m ReduceMode) String() string {
	switch m {
	case ReduceLinear:
		return "linear"
	case ReducePeriodic:
		return "periodic"
	default:
		return "unknown"
	}
}

// Centroid reduces each row of a [batch, bins] response map to one scalar.
//
// Each row must be a normalized non-negative distribution (softmax output).
// delta is the coordinate distance between adjacent bins, taken from the
// final AxisFrame of the axis; bin i sits at coordinate delta*i -
// delta*(bins-1)/2, so the bin grid is centered on zero.
//
// Linear mode returns the expectation of the bin coordinate. Periodic mode
// scales coordinates to angles in (-pi, pi], accumulates the resultant vector
// (sum of response-weighted unit vectors) and returns atan2 of it divided by
// pi, landing back in [-1, 1]. A perfectly uniform row has a zero resultant;
// math.Atan2(0, 0) is defined as 0, so the degenerate case deterministically
// yields the origin rather than NaN.
func Centroid(heatmap *tensor.Tensor, delta float64, mode ReduceMode) (*tensor.Tensor, error) {
	shape := heatmap.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("centroid: response map must be 2-D [batch, bins], got %v: %w",
			shape, tensor.ErrShape)
	}
	n, bins := shape[0], shape[1]

	coord := make([]float64, bins)
	center := delta * float64(bins-1) / 2
	for i := range coord {
		coord[i] = delta*float64(i) - center
	}

	out := tensor.Zeros(tensor.Shape{n})
	data := heatmap.Data()
	switch mode {
	case ReduceLinear:
		for b := 0; b < n; b++ {
			row := data[b*bins : (b+1)*bins]
			out.Data()[b] = floats.Dot(row, coord)
		}
	case ReducePeriodic:
		cos := make([]float64, bins)
		sin := make([]float64, bins)
		for i, c := range coord {
			theta := c * math.Pi
			cos[i] = math.Cos(theta)
			sin[i] = math.Sin(theta)
		}
		for b := 0; b < n; b++ {
			row := data[b*bins : (b+1)*bins]
			xc := floats.Dot(row, cos)
			yc := floats.Dot(row, sin)
			if math.Hypot(xc, yc) < resultantEps {
				// Undefined direction (uniform response): atan2(0,0) = 0.
				// The tolerance absorbs the rounding residue of the dot
				// products so the degenerate case lands on 0 exactly.
				out.Data()[b] = 0
				continue
			}
			out.Data()[b] = math.Atan2(yc, xc) / math.Pi
		}
	default:
		return nil, fmt.Errorf("centroid: unknown reduce mode %d: %w", int(mode), ErrConfig)
	}
	return out, nil
}

// reduceFor returns the reduce mode matching an axis's periodicity flag.
func reduceFor(periodic bool) ReduceMode {
	if periodic {
		return ReducePeriodic
	}
	return ReduceLinear
}
