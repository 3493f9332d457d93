package pixbuf

import "github.com/gogpu/starchart/internal/parallel"

// Downsample box-filters src by an integer factor, averaging each
// factor×factor block. The source dimensions must be multiples of factor.
// A factor of 1 returns a copy.
func Downsample(src *Buf, factor int, pool *Pool, wp *parallel.WorkerPool) *Buf {
	if factor <= 1 {
		dst := pool.Get(src.W, src.H, src.C)
		dst.CopyFrom(src)
		return dst
	}

	dw, dh := src.W/factor, src.H/factor
	dst := pool.Get(dw, dh, src.C)
	inv := 1 / float32(factor*factor)

	parallel.Rows(wp, dh, func(y0, y1 int) {
		acc := make([]float32, src.C)
		for dy := y0; dy < y1; dy++ {
			for dx := 0; dx < dw; dx++ {
				clear(acc)
				for sy := dy * factor; sy < (dy+1)*factor; sy++ {
					row := src.Offset(dx*factor, sy)
					for k := 0; k < factor*src.C; k++ {
						acc[k%src.C] += src.Pix[row+k]
					}
				}
				o := dst.Offset(dx, dy)
				for c := range acc {
					dst.Pix[o+c] = acc[c] * inv
				}
			}
		}
	})
	return dst
}

// Half returns a half-size copy of src using a 2×2 box filter. Odd
// dimensions round up and the missing row or column repeats the edge.
func Half(src *Buf, pool *Pool, wp *parallel.WorkerPool) *Buf {
	dw := max(1, (src.W+1)/2)
	dh := max(1, (src.H+1)/2)
	dst := pool.Get(dw, dh, src.C)

	parallel.Rows(wp, dh, func(y0, y1 int) {
		for dy := y0; dy < y1; dy++ {
			sy0 := dy * 2
			sy1 := min(sy0+1, src.H-1)
			for dx := 0; dx < dw; dx++ {
				sx0 := dx * 2
				sx1 := min(sx0+1, src.W-1)

				a := src.Offset(sx0, sy0)
				b := src.Offset(sx1, sy0)
				c := src.Offset(sx0, sy1)
				d := src.Offset(sx1, sy1)
				o := dst.Offset(dx, dy)
				for ch := 0; ch < src.C; ch++ {
					dst.Pix[o+ch] = (src.Pix[a+ch] + src.Pix[b+ch] + src.Pix[c+ch] + src.Pix[d+ch]) * 0.25
				}
			}
		}
	})
	return dst
}

// Upsample resizes src to width×height with bilinear interpolation.
func Upsample(src *Buf, width, height int, pool *Pool, wp *parallel.WorkerPool) *Buf {
	dst := pool.Get(width, height, src.C)
	sx := float64(src.W) / float64(width)
	sy := float64(src.H) / float64(height)

	parallel.Rows(wp, height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			fy := (float64(y) + 0.5) * sy
			for x := 0; x < width; x++ {
				fx := (float64(x) + 0.5) * sx
				o := dst.Offset(x, y)
				for ch := 0; ch < src.C; ch++ {
					dst.Pix[o+ch] = src.SampleBilinear(fx, fy, ch)
				}
			}
		}
	})
	return dst
}
