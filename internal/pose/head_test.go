package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhantmittal7/equivariant-transformers/internal/nn"
	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

func fillConst(p *nn.Parameter, v float64) {
	data := p.Tensor().Data()
	for i := range data {
		data[i] = v
	}
}

func TestEquivariantConfig_Validation(t *testing.T) {
	base := EquivariantConfig{InChannels: 1, Features: 4, ReturnU: true}

	_, err := NewEquivariantPosePredictor(EquivariantConfig{InChannels: 1, Features: 4})
	assert.ErrorIs(t, err, ErrConfig, "no output axis requested")

	cfg := base
	cfg.InChannels = 0
	_, err = NewEquivariantPosePredictor(cfg)
	assert.ErrorIs(t, err, ErrConfig)

	cfg = base
	cfg.Features = -1
	_, err = NewEquivariantPosePredictor(cfg)
	assert.ErrorIs(t, err, ErrConfig)

	cfg = base
	cfg.KernelSize = 4
	_, err = NewEquivariantPosePredictor(cfg)
	assert.ErrorIs(t, err, ErrConfig, "even kernel")

	cfg = base
	cfg.Strides = [2]int{2, 0}
	_, err = NewEquivariantPosePredictor(cfg)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestEquivariant_Defaults(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1, Features: 4, ReturnU: true, ReturnV: true,
	})
	require.NoError(t, err)

	assert.Equal(t, [2]int{5, 5}, head.Conv1().KernelSize())
	assert.Equal(t, [2]int{2, 2}, head.Conv1().Stride())
	assert.NotNil(t, head.ConvU())
	assert.NotNil(t, head.ConvV())
}

func TestEquivariant_SingleAxis(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1, Features: 4, ReturnU: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, head.ConvU())
	assert.Nil(t, head.ConvV())

	x := tensor.Zeros(tensor.Shape{1, 1, 16, 16})
	res, err := head.Forward(x)
	require.NoError(t, err)
	assert.Len(t, res.Poses, 1)
	assert.Len(t, res.Heatmaps, 1)
}

func TestEquivariant_ForwardShapes(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 3,
		Features:   8,
		ReturnU:    true,
		ReturnV:    true,
	})
	require.NoError(t, err)

	// 16 -> 8 -> 4 under the default stride-2 stages.
	x := tensor.Zeros(tensor.Shape{2, 3, 16, 16})
	res, err := head.Forward(x)
	require.NoError(t, err)

	require.Len(t, res.Poses, 2)
	require.Len(t, res.Heatmaps, 2)
	for i := 0; i < 2; i++ {
		assert.True(t, res.Poses[i].Shape().Equal(tensor.Shape{2}), "pose %d: %v", i, res.Poses[i].Shape())
		assert.True(t, res.Heatmaps[i].Shape().Equal(tensor.Shape{2, 4}), "heatmap %d: %v", i, res.Heatmaps[i].Shape())
	}
}

func TestEquivariant_HeatmapsNormalized(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1, Features: 4, ReturnU: true, ReturnV: true,
	})
	require.NoError(t, err)

	x := tensor.Zeros(tensor.Shape{1, 1, 12, 12})
	x.Set(3, 0, 0, 5, 7)
	res, err := head.Forward(x)
	require.NoError(t, err)

	for i, hm := range res.Heatmaps {
		sum := 0.0
		for _, v := range hm.Data() {
			require.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "heatmap %d", i)
	}
}

// A centered spike through constant filters must produce a symmetric response
// whose estimate sits at the origin on both axes, regardless of whether the
// axis reduction is linear or circular.
func TestEquivariant_CenteredSpikeEstimatesOrigin(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1,
		Features:   8,
		KernelSize: 5,
		Strides:    [2]int{1, 1},
		PeriodicU:  true,
		ReturnU:    true,
		ReturnV:    true,
	})
	require.NoError(t, err)

	// Constant kernels keep the forward pass symmetric; running statistics
	// make the normalization layers deterministic identities.
	fillConst(head.Conv1().Weight(), 0.1)
	fillConst(head.Conv2().Weight(), 0.1)
	fillConst(head.ConvU().Weight(), 0.1)
	fillConst(head.ConvV().Weight(), 0.1)
	head.Eval()

	x := tensor.Zeros(tensor.Shape{1, 1, 33, 33})
	x.Set(1, 0, 0, 16, 16)

	res, err := head.Forward(x)
	require.NoError(t, err)
	require.Len(t, res.Poses, 2)

	u := res.Poses[0].Data()[0]
	v := res.Poses[1].Data()[0]
	assert.InDelta(t, 0, u, 1e-6, "u estimate")
	assert.InDelta(t, 0, v, 1e-6, "v estimate")
	assert.Equal(t, 33, res.Heatmaps[0].Dim(-1))
	assert.Equal(t, 33, res.Heatmaps[1].Dim(-1))
}

// Cyclic padding on the width axis: shifting a spike past the seam must move
// the u estimate near the seam, not toward the axis center.
func TestEquivariant_PeriodicSeam(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1,
		Features:   8,
		KernelSize: 5,
		Strides:    [2]int{1, 1},
		PeriodicU:  true,
		ReturnU:    true,
	})
	require.NoError(t, err)
	fillConst(head.Conv1().Weight(), 0.1)
	fillConst(head.Conv2().Weight(), 0.1)
	fillConst(head.ConvU().Weight(), 0.1)
	head.Eval()

	// Spike on the left edge of a periodic axis: the response wraps, and the
	// circular mean puts the estimate near the seam at |u| ~ 1.
	x := tensor.Zeros(tensor.Shape{1, 1, 33, 33})
	x.Set(1, 0, 0, 16, 0)

	res, err := head.Forward(x)
	require.NoError(t, err)
	u := res.Poses[0].Data()[0]
	assert.Greater(t, math.Abs(u), 0.9, "u = %v", u)
}

func TestEquivariant_BiasShiftsEstimate(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1,
		Features:   8,
		KernelSize: 5,
		Strides:    [2]int{1, 1},
		ReturnU:    true,
	})
	require.NoError(t, err)
	fillConst(head.Conv1().Weight(), 0.1)
	fillConst(head.Conv2().Weight(), 0.1)
	fillConst(head.ConvU().Weight(), 0.1)
	head.Eval()

	x := tensor.Zeros(tensor.Shape{1, 1, 33, 33})
	x.Set(1, 0, 0, 16, 16)

	base, err := head.Forward(x)
	require.NoError(t, err)

	head.BiasU().Tensor().Data()[0] = 0.5
	shifted, err := head.Forward(x)
	require.NoError(t, err)

	want := base.Poses[0].Data()[0] + math.Tanh(0.5)
	assert.InDelta(t, want, shifted.Poses[0].Data()[0], 1e-12)
}

func TestEquivariant_Parameters(t *testing.T) {
	head, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1, Features: 4, ReturnU: true, ReturnV: true,
	})
	require.NoError(t, err)

	// conv1, bn1 (gamma, beta), conv2, bn2, convU, convV, biasU, biasV.
	assert.Len(t, head.Parameters(), 10)
}

func TestDirectConfig_Validation(t *testing.T) {
	_, err := NewDirectPosePredictor(DirectConfig{InChannels: 1, Features: 4})
	assert.ErrorIs(t, err, ErrConfig, "NumOutputs must be at least 1")

	_, err = NewDirectPosePredictor(DirectConfig{InChannels: 1, Features: 4, NumOutputs: 3, KernelSize: 6})
	assert.ErrorIs(t, err, ErrConfig, "even kernel")

	_, err = NewDirectPosePredictor(DirectConfig{InChannels: 0, Features: 4, NumOutputs: 1})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestDirect_Forward(t *testing.T) {
	head, err := NewDirectPosePredictor(DirectConfig{
		InChannels: 3,
		Features:   8,
		NumOutputs: 3,
	})
	require.NoError(t, err)
	head.Eval()

	x := tensor.Zeros(tensor.Shape{2, 3, 24, 24})
	x.Set(1, 0, 1, 10, 12)
	x.Set(-2, 1, 2, 3, 20)

	res, err := head.Forward(x)
	require.NoError(t, err)

	require.Len(t, res.Poses, 3)
	require.Len(t, res.Heatmaps, 3)
	for i, p := range res.Poses {
		require.True(t, p.Shape().Equal(tensor.Shape{2}), "output %d: %v", i, p.Shape())
		for _, v := range p.Data() {
			assert.Greater(t, v, -1.0)
			assert.Less(t, v, 1.0)
		}
		assert.Nil(t, res.Heatmaps[i], "regression head has no response maps")
	}
}

func TestDirect_InputTooSmallForPooling(t *testing.T) {
	head, err := NewDirectPosePredictor(DirectConfig{
		InChannels: 1,
		Features:   4,
		NumOutputs: 2,
	})
	require.NoError(t, err)

	// 8 -> 4 -> 2 spatially, below the 5x5 pooling grid.
	x := tensor.Zeros(tensor.Shape{1, 1, 8, 8})
	_, err = head.Forward(x)
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestHeadStrings(t *testing.T) {
	eq, err := NewEquivariantPosePredictor(EquivariantConfig{
		InChannels: 1, Features: 4, ReturnU: true,
	})
	require.NoError(t, err)
	assert.Contains(t, eq.String(), "EquivariantPosePredictor")

	dir, err := NewDirectPosePredictor(DirectConfig{
		InChannels: 1, Features: 4, NumOutputs: 1,
	})
	require.NoError(t, err)
	assert.Contains(t, dir.String(), "DirectPosePredictor")
}
