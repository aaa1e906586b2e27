// Package pose implements sub-pixel pose estimation heads for feature maps
// living on possibly-periodic coordinate domains.
//
// Two head variants are provided. EquivariantPosePredictor reduces learned
// 2-D response maps to one continuous scalar per spatial axis with a
// soft-argmax whose reduction honors the axis topology: a circular mean on
// periodic (wrap-around) axes, a linear expectation otherwise.
// DirectPosePredictor regresses the scalars directly from pooled features.
// Both pad their convolutions cyclically along periodic axes so the learned
// filters see a seamless domain.
package pose

import (
	"errors"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// ErrConfig marks construction-time failures for structurally invalid head
// configurations: requesting no output axis, a non-positive output count, or
// impossible layer dimensions. Configuration problems always surface at
// construction, never at forward time.
var ErrConfig = errors.New("invalid pose predictor configuration")

// Result carries the outputs of one forward evaluation.
//
// Poses holds one [batch] tensor per estimated quantity. For the soft-argmax
// head the order is fixed: u (width axis) first when requested, then v
// (height axis). For the regression head the entries are the NumOutputs
// regression targets in output order.
//
// Heatmaps parallels Poses. The soft-argmax head fills every entry with the
// normalized [batch, bins] response map that produced the estimate, for
// diagnostics or auxiliary losses; the regression head leaves nil
// placeholders, since no response map exists.
type Result struct {
	Poses    []*tensor.Tensor
	Heatmaps []*tensor.Tensor
}

// padModes maps per-axis periodicity to the padding policy used throughout a
// head: periodic axes wrap, everything else is zero-padded.
func padModes(periodicU, periodicV bool) (uMode, vMode tensor.PadMode) {
	uMode, vMode = tensor.PadZero, tensor.PadZero
	if periodicU {
		uMode = tensor.PadCyclic
	}
	if periodicV {
		vMode = tensor.PadCyclic
	}
	return uMode, vMode
}
