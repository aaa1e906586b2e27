package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Conv2D performs a valid-mode 2-D cross-correlation with independent strides
// per spatial axis. Border handling is deliberately not part of this
// operation: callers pad explicitly with Pad2D first, which is what keeps the
// padding policy per axis selectable (cyclic on periodic axes).
//
// Input shape:  [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, (height-kernel_h)/strideH+1, (width-kernel_w)/strideW+1]
//
// The computation lowers to a matrix product: input patches are unrolled into
// columns (im2col) and multiplied against the kernel matrix.
func Conv2D(input, kernel *Tensor, strideH, strideW int) (*Tensor, error) {
	if len(input.shape) != 4 {
		return nil, fmt.Errorf("conv2d: input must be 4-D [N,C,H,W], got %v: %w", input.shape, ErrShape)
	}
	if len(kernel.shape) != 4 {
		return nil, fmt.Errorf("conv2d: kernel must be 4-D [F,C,KH,KW], got %v: %w", kernel.shape, ErrShape)
	}
	if strideH < 1 || strideW < 1 {
		return nil, fmt.Errorf("conv2d: strides (%d, %d) must be positive: %w", strideH, strideW, ErrShape)
	}
	n, c, h, w := input.shape[0], input.shape[1], input.shape[2], input.shape[3]
	f, ck, kh, kw := kernel.shape[0], kernel.shape[1], kernel.shape[2], kernel.shape[3]
	if c != ck {
		return nil, fmt.Errorf("conv2d: input channels %d != kernel channels %d: %w", c, ck, ErrShape)
	}
	if kh > h || kw > w {
		return nil, fmt.Errorf("conv2d: kernel %dx%d larger than input %dx%d: %w", kh, kw, h, w, ErrShape)
	}
	hOut := (h-kh)/strideH + 1
	wOut := (w-kw)/strideW + 1

	colWidth := c * kh * kw
	colHeight := n * hOut * wOut
	col := mat.NewDense(colHeight, colWidth, nil)
	colData := col.RawMatrix().Data
	row := 0
	for b := 0; b < n; b++ {
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				hStart := oh * strideH
				wStart := ow * strideW
				buf := colData[row*colWidth:]
				i := 0
				for ch := 0; ch < c; ch++ {
					base := b*c*h*w + ch*h*w
					for y := 0; y < kh; y++ {
						src := base + (hStart+y)*w + wStart
						copy(buf[i:i+kw], input.data[src:src+kw])
						i += kw
					}
				}
				row++
			}
		}
	}

	// Kernel data is already laid out row-major as [F, C*KH*KW].
	kmat := mat.NewDense(f, colWidth, kernel.data)
	var prod mat.Dense
	prod.Mul(kmat, col.T()) // [F, N*hOut*wOut]

	out := Zeros(Shape{n, f, hOut, wOut})
	pm := prod.RawMatrix()
	plane := hOut * wOut
	for b := 0; b < n; b++ {
		for ch := 0; ch < f; ch++ {
			src := pm.Data[ch*pm.Stride+b*plane : ch*pm.Stride+(b+1)*plane]
			dst := out.data[b*f*plane+ch*plane:]
			copy(dst[:plane], src)
		}
	}
	return out, nil
}

// Conv1D performs a valid-mode 1-D cross-correlation over [batch, channels,
// length] input with a [out_channels, in_channels, kernel] filter bank. As
// with Conv2D, padding is the caller's responsibility.
func Conv1D(input, kernel *Tensor, stride int) (*Tensor, error) {
	if len(input.shape) != 3 {
		return nil, fmt.Errorf("conv1d: input must be 3-D [N,C,L], got %v: %w", input.shape, ErrShape)
	}
	if len(kernel.shape) != 3 {
		return nil, fmt.Errorf("conv1d: kernel must be 3-D [F,C,K], got %v: %w", kernel.shape, ErrShape)
	}
	if stride < 1 {
		return nil, fmt.Errorf("conv1d: stride %d must be positive: %w", stride, ErrShape)
	}
	n, c, l := input.shape[0], input.shape[1], input.shape[2]
	f, ck, k := kernel.shape[0], kernel.shape[1], kernel.shape[2]
	if c != ck {
		return nil, fmt.Errorf("conv1d: input channels %d != kernel channels %d: %w", c, ck, ErrShape)
	}
	if k > l {
		return nil, fmt.Errorf("conv1d: kernel %d larger than input length %d: %w", k, l, ErrShape)
	}
	lOut := (l-k)/stride + 1

	colWidth := c * k
	colHeight := n * lOut
	col := mat.NewDense(colHeight, colWidth, nil)
	colData := col.RawMatrix().Data
	row := 0
	for b := 0; b < n; b++ {
		for ol := 0; ol < lOut; ol++ {
			start := ol * stride
			buf := colData[row*colWidth:]
			i := 0
			for ch := 0; ch < c; ch++ {
				src := b*c*l + ch*l + start
				copy(buf[i:i+k], input.data[src:src+k])
				i += k
			}
			row++
		}
	}

	kmat := mat.NewDense(f, colWidth, kernel.data)
	var prod mat.Dense
	prod.Mul(kmat, col.T()) // [F, N*lOut]

	out := Zeros(Shape{n, f, lOut})
	pm := prod.RawMatrix()
	for b := 0; b < n; b++ {
		for ch := 0; ch < f; ch++ {
			src := pm.Data[ch*pm.Stride+b*lOut : ch*pm.Stride+(b+1)*lOut]
			dst := out.data[b*f*lOut+ch*lOut:]
			copy(dst[:lOut], src)
		}
	}
	return out, nil
}
