package tensor

import (
	"errors"
	"testing"
)

func TestConv2D_KnownValues(t *testing.T) {
	// 3x3 input, 2x2 kernel, stride 1: four windows.
	input := mustFromSlice(t, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, Shape{1, 1, 3, 3})
	kernel := mustFromSlice(t, []float64{
		1, 2,
		3, 4,
	}, Shape{1, 1, 2, 2})

	out, err := Conv2D(input, kernel, 1, 1)
	if err != nil {
		t.Fatalf("Conv2D: %v", err)
	}
	if !out.Shape().Equal(Shape{1, 1, 2, 2}) {
		t.Fatalf("shape: got %v", out.Shape())
	}
	checkData(t, out, []float64{37, 47, 67, 77})
}

func TestConv2D_Stride2(t *testing.T) {
	input := mustFromSlice(t, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, Shape{1, 1, 4, 4})
	kernel := mustFromSlice(t, []float64{1, 1, 1, 1}, Shape{1, 1, 2, 2})

	out, err := Conv2D(input, kernel, 2, 2)
	if err != nil {
		t.Fatalf("Conv2D: %v", err)
	}
	checkData(t, out, []float64{14, 22, 46, 54})
}

func TestConv2D_PerAxisStrides(t *testing.T) {
	input := mustFromSlice(t, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, Shape{1, 1, 4, 4})
	kernel := mustFromSlice(t, []float64{1}, Shape{1, 1, 1, 1})

	// Stride 2 vertically, 1 horizontally: rows 0 and 2 in full.
	out, err := Conv2D(input, kernel, 2, 1)
	if err != nil {
		t.Fatalf("Conv2D: %v", err)
	}
	if !out.Shape().Equal(Shape{1, 1, 2, 4}) {
		t.Fatalf("shape: got %v", out.Shape())
	}
	checkData(t, out, []float64{1, 2, 3, 4, 9, 10, 11, 12})
}

func TestConv2D_MultiChannelSums(t *testing.T) {
	// Two input channels, a one-element kernel per channel: output is the
	// channel sum.
	input := mustFromSlice(t, []float64{
		1, 2,
		3, 4,

		10, 20,
		30, 40,
	}, Shape{1, 2, 2, 2})
	kernel := mustFromSlice(t, []float64{1, 1}, Shape{1, 2, 1, 1})

	out, err := Conv2D(input, kernel, 1, 1)
	if err != nil {
		t.Fatalf("Conv2D: %v", err)
	}
	checkData(t, out, []float64{11, 22, 33, 44})
}

func TestConv2D_BatchAndFilters(t *testing.T) {
	input := mustFromSlice(t, []float64{
		1, 2,
		3, 4,

		5, 6,
		7, 8,
	}, Shape{2, 1, 2, 2})
	// Filter 0 picks the top-left element, filter 1 sums the window.
	kernel := mustFromSlice(t, []float64{
		1, 0,
		0, 0,

		1, 1,
		1, 1,
	}, Shape{2, 1, 2, 2})

	out, err := Conv2D(input, kernel, 1, 1)
	if err != nil {
		t.Fatalf("Conv2D: %v", err)
	}
	if !out.Shape().Equal(Shape{2, 2, 1, 1}) {
		t.Fatalf("shape: got %v", out.Shape())
	}
	checkData(t, out, []float64{1, 10, 5, 26})
}

func TestConv2D_Errors(t *testing.T) {
	input := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{1, 1, 2, 2})
	kernel := mustFromSlice(t, []float64{1}, Shape{1, 1, 1, 1})

	// Channel mismatch.
	bad := mustFromSlice(t, []float64{1, 1}, Shape{1, 2, 1, 1})
	if _, err := Conv2D(input, bad, 1, 1); !errors.Is(err, ErrShape) {
		t.Errorf("channel mismatch: expected ErrShape, got %v", err)
	}

	// Kernel larger than input.
	big := mustFromSlice(t, make([]float64, 9), Shape{1, 1, 3, 3})
	if _, err := Conv2D(input, big, 1, 1); !errors.Is(err, ErrShape) {
		t.Errorf("oversized kernel: expected ErrShape, got %v", err)
	}

	// Non-positive stride.
	if _, err := Conv2D(input, kernel, 0, 1); !errors.Is(err, ErrShape) {
		t.Errorf("zero stride: expected ErrShape, got %v", err)
	}

	// Wrong rank.
	flat := mustFromSlice(t, []float64{1, 2, 3}, Shape{1, 1, 3})
	if _, err := Conv2D(flat, kernel, 1, 1); !errors.Is(err, ErrShape) {
		t.Errorf("3-D input: expected ErrShape, got %v", err)
	}
}

func TestConv1D_KnownValues(t *testing.T) {
	input := mustFromSlice(t, []float64{1, 2, 3, 4, 5}, Shape{1, 1, 5})
	kernel := mustFromSlice(t, []float64{1, 0, 2}, Shape{1, 1, 3})

	out, err := Conv1D(input, kernel, 1)
	if err != nil {
		t.Fatalf("Conv1D: %v", err)
	}
	if !out.Shape().Equal(Shape{1, 1, 3}) {
		t.Fatalf("shape: got %v", out.Shape())
	}
	checkData(t, out, []float64{7, 10, 13})
}

func TestConv1D_Stride(t *testing.T) {
	input := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, Shape{1, 1, 6})
	kernel := mustFromSlice(t, []float64{1, 1}, Shape{1, 1, 2})

	out, err := Conv1D(input, kernel, 2)
	if err != nil {
		t.Fatalf("Conv1D: %v", err)
	}
	checkData(t, out, []float64{3, 7, 11})
}

func TestConv1D_Errors(t *testing.T) {
	input := mustFromSlice(t, []float64{1, 2, 3}, Shape{1, 1, 3})

	long := mustFromSlice(t, make([]float64, 4), Shape{1, 1, 4})
	if _, err := Conv1D(input, long, 1); !errors.Is(err, ErrShape) {
		t.Errorf("oversized kernel: expected ErrShape, got %v", err)
	}

	mismatch := mustFromSlice(t, []float64{1, 1}, Shape{1, 2, 1})
	if _, err := Conv1D(input, mismatch, 1); !errors.Is(err, ErrShape) {
		t.Errorf("channel mismatch: expected ErrShape, got %v", err)
	}
}

// A cyclically padded convolution must be equivariant to cyclic shifts of the
// input: shifting the signal shifts the output by the same amount.
func TestConv1D_CyclicShiftEquivariance(t *testing.T) {
	signal := []float64{1, 5, 2, 8, 3, 9, 4, 7}
	n := len(signal)
	kernel := mustFromSlice(t, []float64{0.5, 1, 0.5}, Shape{1, 1, 3})

	convCyclic := func(data []float64) []float64 {
		x := mustFromSlice(t, data, Shape{1, 1, n})
		padded, err := Pad1D(x, SymmetricPad(1, PadCyclic))
		if err != nil {
			t.Fatalf("Pad1D: %v", err)
		}
		out, err := Conv1D(padded, kernel, 1)
		if err != nil {
			t.Fatalf("Conv1D: %v", err)
		}
		return out.Data()
	}

	base := convCyclic(signal)
	for shift := 1; shift < n; shift++ {
		shifted := make([]float64, n)
		for i := range signal {
			shifted[(i+shift)%n] = signal[i]
		}
		got := convCyclic(shifted)
		for i := range base {
			if got[(i+shift)%n] != base[i] {
				t.Fatalf("shift %d: output not shifted copy: got %v, base %v", shift, got, base)
			}
		}
	}
}
