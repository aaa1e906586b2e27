package tensor

import (
	"errors"
	"testing"
)

func TestAvgPool2D(t *testing.T) {
	x := mustFromSlice(t, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, Shape{1, 1, 4, 4})

	out, err := AvgPool2D(x, 2, 2)
	if err != nil {
		t.Fatalf("AvgPool2D: %v", err)
	}
	if !out.Shape().Equal(Shape{1, 1, 2, 2}) {
		t.Fatalf("shape: got %v", out.Shape())
	}
	checkData(t, out, []float64{3.5, 5.5, 11.5, 13.5})
}

func TestMaxPool2D(t *testing.T) {
	x := mustFromSlice(t, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, Shape{1, 1, 4, 4})

	out, err := MaxPool2D(x, 2, 2)
	if err != nil {
		t.Fatalf("MaxPool2D: %v", err)
	}
	checkData(t, out, []float64{6, 8, 14, 16})
}

func TestAdaptiveMaxPool2D_MatchesFixedPool(t *testing.T) {
	x := mustFromSlice(t, []float64{
		4, 1, 2, 8,
		3, 7, 6, 5,
		1, 9, 2, 3,
		8, 4, 7, 6,
	}, Shape{1, 1, 4, 4})

	adaptive, err := AdaptiveMaxPool2D(x, 2, 2)
	if err != nil {
		t.Fatalf("AdaptiveMaxPool2D: %v", err)
	}
	fixed, err := MaxPool2D(x, 2, 2)
	if err != nil {
		t.Fatalf("MaxPool2D: %v", err)
	}
	checkData(t, adaptive, fixed.Data())
}

func TestAdaptiveMaxPool2D_UnevenWindows(t *testing.T) {
	// 5 -> 2: window 0 covers [0, 3), window 1 covers [2, 5).
	x := mustFromSlice(t, []float64{
		1, 2, 3, 4, 5,
		6, 7, 8, 9, 10,
		11, 12, 13, 14, 15,
		16, 17, 18, 19, 20,
		21, 22, 23, 24, 25,
	}, Shape{1, 1, 5, 5})

	out, err := AdaptiveMaxPool2D(x, 2, 2)
	if err != nil {
		t.Fatalf("AdaptiveMaxPool2D: %v", err)
	}
	checkData(t, out, []float64{13, 15, 23, 25})
}

func TestAdaptiveMaxPool2D_Identity(t *testing.T) {
	x := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{1, 1, 2, 2})
	out, err := AdaptiveMaxPool2D(x, 2, 2)
	if err != nil {
		t.Fatalf("AdaptiveMaxPool2D: %v", err)
	}
	checkData(t, out, x.Data())
}

func TestAdaptiveMaxPool2D_OutputLargerThanInput(t *testing.T) {
	x := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{1, 1, 2, 2})
	if _, err := AdaptiveMaxPool2D(x, 3, 3); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestPool_Errors(t *testing.T) {
	x := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{1, 1, 2, 2})

	if _, err := AvgPool2D(x, 3, 1); !errors.Is(err, ErrShape) {
		t.Errorf("oversized kernel: expected ErrShape, got %v", err)
	}
	if _, err := MaxPool2D(x, 2, 0); !errors.Is(err, ErrShape) {
		t.Errorf("zero stride: expected ErrShape, got %v", err)
	}

	flat := mustFromSlice(t, []float64{1, 2}, Shape{1, 2})
	if _, err := MaxPool2D(flat, 1, 1); !errors.Is(err, ErrShape) {
		t.Errorf("2-D input: expected ErrShape, got %v", err)
	}
}
