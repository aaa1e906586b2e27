// Copyright 2025 Equivariant Transformers Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pose is the public API of the pose-prediction heads.
//
// EquivariantPosePredictor estimates a continuous coordinate per spatial axis
// by soft-argmax over learned response maps, using a circular mean on
// periodic axes; DirectPosePredictor regresses the coordinates from pooled
// features.
//
// Example:
//
//	head, err := pose.NewEquivariantPosePredictor(pose.EquivariantConfig{
//	    InChannels: 1,
//	    Features:   32,
//	    PeriodicU:  true, // width axis wraps (e.g. polar angle)
//	    ReturnU:    true,
//	    ReturnV:    true,
//	})
//	if err != nil {
//	    // configuration error, reported at construction
//	}
//	res, err := head.Forward(image) // res.Poses: u then v, each [batch]
package pose

import (
	"github.com/siddhantmittal7/equivariant-transformers/internal/pose"
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// ErrConfig marks construction-time configuration failures.
var ErrConfig = pose.ErrConfig

// ReduceMode selects how a response map collapses to a scalar location.
type ReduceMode = pose.ReduceMode

// Reduce modes: linear expectation vs. circular (angular) mean.
const (
	ReduceLinear   ReduceMode = pose.ReduceLinear
	ReducePeriodic ReduceMode = pose.ReducePeriodic
)

// Result carries pose estimates and, for the soft-argmax head, the response
// maps that produced them.
type Result = pose.Result

// EquivariantConfig configures a soft-argmax pose predictor.
type EquivariantConfig = pose.EquivariantConfig

// EquivariantPosePredictor is the soft-argmax head.
type EquivariantPosePredictor = pose.EquivariantPosePredictor

// NewEquivariantPosePredictor validates the configuration and builds the
// soft-argmax head.
func NewEquivariantPosePredictor(cfg EquivariantConfig) (*EquivariantPosePredictor, error) {
	return pose.NewEquivariantPosePredictor(cfg)
}

// DirectConfig configures a direct-regression pose predictor.
type DirectConfig = pose.DirectConfig

// DirectPosePredictor is the regression head.
type DirectPosePredictor = pose.DirectPosePredictor

// NewDirectPosePredictor validates the configuration and builds the
// regression head.
func NewDirectPosePredictor(cfg DirectConfig) (*DirectPosePredictor, error) {
	return pose.NewDirectPosePredictor(cfg)
}

// Tensor is re-exported so Centroid can be called without importing the
// tensor package separately.
type Tensor = tensor.Tensor

// Centroid reduces each row of a [batch, bins] response map to one scalar
// using the given bin step and reduce mode.
func Centroid(heatmap *Tensor, delta float64, mode ReduceMode) (*Tensor, error) {
	return pose.Centroid(heatmap, delta, mode)
}
