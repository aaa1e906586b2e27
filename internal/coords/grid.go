package coords

import (
	"fmt"
	"math"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// IdentityGrid builds a [h, w, 2] coordinate grid covering [-1, 1] on both
// axes. The last dimension holds (u, v): u varies along the width axis and v
// along the height axis. Resampling this grid reproduces the input image.
func IdentityGrid(h, w int) (*tensor.Tensor, error) {
	vFrame, err := NewAxisFrame(h)
	if err != nil {
		return nil, err
	}
	uFrame, err := NewAxisFrame(w)
	if err != nil {
		return nil, err
	}
	grid := tensor.Zeros(tensor.Shape{h, w, 2})
	data := grid.Data()
	for y := 0; y < h; y++ {
		v := vFrame.Coordinate(y)
		for x := 0; x < w; x++ {
			i := (y*w + x) * 2
			data[i] = uFrame.Coordinate(x)
			data[i+1] = v
		}
	}
	return grid, nil
}

// Transform deforms a [batch, h, w, 2] coordinate grid. Pose predictors
// expose their per-axis scalar outputs through this interface so that an
// external spatial-transformer wrapper can resample the image; the resampling
// itself is not implemented here.
type Transform interface {
	Apply(grid *tensor.Tensor) (*tensor.Tensor, error)
}

// Shift translates grid coordinates by a per-sample offset along each axis.
// U and V are [batch] tensors (either may be nil for no shift on that axis),
// typically the pose vectors produced by a predictor head. Axes flagged as
// periodic wrap back into [-1, 1) instead of running off the domain.
type Shift struct {
	U, V         *tensor.Tensor
	WrapU, WrapV bool
}

// Apply returns a deformed copy of the [batch, h, w, 2] grid.
func (s Shift) Apply(grid *tensor.Tensor) (*tensor.Tensor, error) {
	shape := grid.Shape()
	if len(shape) != 4 || shape[3] != 2 {
		return nil, fmt.Errorf("coords: shift expects a [batch, h, w, 2] grid, got shape %v", shape)
	}
	batch := shape[0]
	if err := checkShiftVector(s.U, batch, "u"); err != nil {
		return nil, err
	}
	if err := checkShiftVector(s.V, batch, "v"); err != nil {
		return nil, err
	}
	out := grid.Clone()
	data := out.Data()
	plane := shape[1] * shape[2]
	for b := 0; b < batch; b++ {
		var du, dv float64
		if s.U != nil {
			du = s.U.Data()[b]
		}
		if s.V != nil {
			dv = s.V.Data()[b]
		}
		base := b * plane * 2
		for i := 0; i < plane; i++ {
			u := data[base+i*2] + du
			v := data[base+i*2+1] + dv
			if s.WrapU {
				u = wrapUnit(u)
			}
			if s.WrapV {
				v = wrapUnit(v)
			}
			data[base+i*2] = u
			data[base+i*2+1] = v
		}
	}
	return out, nil
}

func checkShiftVector(t *tensor.Tensor, batch int, name string) error {
	if t == nil {
		return nil
	}
	shape := t.Shape()
	if len(shape) != 1 || shape[0] != batch {
		return fmt.Errorf("coords: %s shift must be a [%d] tensor, got shape %v", name, batch, shape)
	}
	return nil
}

// wrapUnit maps a coordinate into [-1, 1) on a periodic axis.
func wrapUnit(x float64) float64 {
	x = math.Mod(x+1, 2)
	if x < 0 {
		x += 2
	}
	return x - 1
}
