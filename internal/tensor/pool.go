package tensor

import (
	"fmt"
	"math"
)

// AvgPool2D averages non-overlapping (or strided) kernel×kernel windows over
// the last two axes of a [N, C, H, W] tensor.
func AvgPool2D(x *Tensor, kernel, stride int) (*Tensor, error) {
	n, c, h, w, err := check4D(x, "avgpool2d", kernel, stride)
	if err != nil {
		return nil, err
	}
	hOut := (h-kernel)/stride + 1
	wOut := (w-kernel)/stride + 1
	out := Zeros(Shape{n, c, hOut, wOut})
	area := float64(kernel * kernel)
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			base := b*c*h*w + ch*h*w
			dst := out.data[b*c*hOut*wOut+ch*hOut*wOut:]
			for oh := 0; oh < hOut; oh++ {
				for ow := 0; ow < wOut; ow++ {
					sum := 0.0
					for y := 0; y < kernel; y++ {
						rowStart := base + (oh*stride+y)*w + ow*stride
						for _, v := range x.data[rowStart : rowStart+kernel] {
							sum += v
						}
					}
					dst[oh*wOut+ow] = sum / area
				}
			}
		}
	}
	return out, nil
}

// MaxPool2D takes the maximum over kernel×kernel windows.
func MaxPool2D(x *Tensor, kernel, stride int) (*Tensor, error) {
	n, c, h, w, err := check4D(x, "maxpool2d", kernel, stride)
	if err != nil {
		return nil, err
	}
	hOut := (h-kernel)/stride + 1
	wOut := (w-kernel)/stride + 1
	out := Zeros(Shape{n, c, hOut, wOut})
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			base := b*c*h*w + ch*h*w
			dst := out.data[b*c*hOut*wOut+ch*hOut*wOut:]
			for oh := 0; oh < hOut; oh++ {
				for ow := 0; ow < wOut; ow++ {
					m := math.Inf(-1)
					for y := 0; y < kernel; y++ {
						rowStart := base + (oh*stride+y)*w + ow*stride
						for _, v := range x.data[rowStart : rowStart+kernel] {
							if v > m {
								m = v
							}
						}
					}
					dst[oh*wOut+ow] = m
				}
			}
		}
	}
	return out, nil
}

// AdaptiveMaxPool2D reduces the spatial axes of a [N, C, H, W] tensor to a
// fixed outH×outW grid. Window i along an axis of length L covers
// [i*L/out, ceil((i+1)*L/out)). Requesting an output larger than the input is
// a shape error, not a silent upsample.
func AdaptiveMaxPool2D(x *Tensor, outH, outW int) (*Tensor, error) {
	if len(x.shape) != 4 {
		return nil, fmt.Errorf("adaptivemaxpool2d: input must be 4-D [N,C,H,W], got %v: %w", x.shape, ErrShape)
	}
	if outH < 1 || outW < 1 {
		return nil, fmt.Errorf("adaptivemaxpool2d: output size (%d, %d) must be positive: %w", outH, outW, ErrShape)
	}
	n, c, h, w := x.shape[0], x.shape[1], x.shape[2], x.shape[3]
	if outH > h || outW > w {
		return nil, fmt.Errorf("adaptivemaxpool2d: output %dx%d larger than input %dx%d: %w",
			outH, outW, h, w, ErrShape)
	}
	out := Zeros(Shape{n, c, outH, outW})
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			base := b*c*h*w + ch*h*w
			dst := out.data[b*c*outH*outW+ch*outH*outW:]
			for oh := 0; oh < outH; oh++ {
				hStart := oh * h / outH
				hEnd := ((oh+1)*h + outH - 1) / outH
				for ow := 0; ow < outW; ow++ {
					wStart := ow * w / outW
					wEnd := ((ow+1)*w + outW - 1) / outW
					m := math.Inf(-1)
					for y := hStart; y < hEnd; y++ {
						for _, v := range x.data[base+y*w+wStart : base+y*w+wEnd] {
							if v > m {
								m = v
							}
						}
					}
					dst[oh*outW+ow] = m
				}
			}
		}
	}
	return out, nil
}

func check4D(x *Tensor, op string, kernel, stride int) (n, c, h, w int, err error) {
	if len(x.shape) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("%s: input must be 4-D [N,C,H,W], got %v: %w", op, x.shape, ErrShape)
	}
	if kernel < 1 || stride < 1 {
		return 0, 0, 0, 0, fmt.Errorf("%s: kernel %d and stride %d must be positive: %w", op, kernel, stride, ErrShape)
	}
	n, c, h, w = x.shape[0], x.shape[1], x.shape[2], x.shape[3]
	if kernel > h || kernel > w {
		return 0, 0, 0, 0, fmt.Errorf("%s: kernel %d larger than input %dx%d: %w", op, kernel, h, w, ErrShape)
	}
	return n, c, h, w, nil
}
