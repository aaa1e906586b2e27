package nn

import (
	"errors"
	"math"
	"testing"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

func TestBatchNorm2D_FreshLayerEvalIsIdentity(t *testing.T) {
	bn := NewBatchNorm2D(2)
	bn.Eval()

	input, err := tensor.FromSlice([]float64{
		1, -2,
		3, 4,

		0.5, 0,
		-1, 7,
	}, tensor.Shape{1, 2, 2, 2})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	out, err := bn.Forward(input)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	// Running mean 0, running variance 1, gamma 1, beta 0: the only deviation
	// from identity is the eps term in the denominator.
	for i, v := range input.Data() {
		if math.Abs(out.Data()[i]-v) > 1e-4 {
			t.Errorf("element %d: got %v, want ~%v", i, out.Data()[i], v)
		}
	}
}

func TestBatchNorm2D_TrainingNormalizes(t *testing.T) {
	bn := NewBatchNorm2D(1)

	input, err := tensor.FromSlice([]float64{10, 20, 30, 40}, tensor.Shape{1, 1, 2, 2})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	out, err := bn.Forward(input)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	sum, sq := 0.0, 0.0
	for _, v := range out.Data() {
		sum += v
	}
	mean := sum / 4
	for _, v := range out.Data() {
		sq += (v - mean) * (v - mean)
	}
	if math.Abs(mean) > 1e-9 {
		t.Errorf("normalized mean %v, want 0", mean)
	}
	if variance := sq / 4; math.Abs(variance-1) > 1e-4 {
		t.Errorf("normalized variance %v, want ~1", variance)
	}
}

func TestBatchNorm2D_RunningStatsUpdate(t *testing.T) {
	bn := NewBatchNorm2D(1)

	input, err := tensor.FromSlice([]float64{10, 10, 10, 10}, tensor.Shape{1, 1, 2, 2})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if _, err := bn.Forward(input); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	// One training step: running mean = 0.9*0 + 0.1*10, variance = 0.9*1 + 0.
	bn.Eval()
	out, err := bn.Forward(input)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	want := (10.0 - 1.0) / math.Sqrt(0.9+1e-5)
	for i, v := range out.Data() {
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("element %d: got %v, want %v", i, v, want)
		}
	}
}

func TestBatchNorm2D_ShapeErrors(t *testing.T) {
	bn := NewBatchNorm2D(3)

	flat := tensor.Zeros(tensor.Shape{2, 3})
	if _, err := bn.Forward(flat); !errors.Is(err, tensor.ErrShape) {
		t.Errorf("2-D input: expected ErrShape, got %v", err)
	}
	wrong := tensor.Zeros(tensor.Shape{1, 2, 4, 4})
	if _, err := bn.Forward(wrong); !errors.Is(err, tensor.ErrShape) {
		t.Errorf("channel mismatch: expected ErrShape, got %v", err)
	}
}
