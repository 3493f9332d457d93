package filter

import (
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
)

// Blur returns a Gaussian-blurred copy of src with standard deviation sigma
// in pixels. Edges are extended by clamping. sigma <= 0 returns a copy.
// The result comes from pool and should be returned to it by the caller.
func Blur(src *pixbuf.Buf, sigma float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	return BlurXY(src, sigma, sigma, pool, wp)
}

// BlurXY is Blur with independent horizontal and vertical sigmas.
func BlurXY(src *pixbuf.Buf, sigmaX, sigmaY float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(src.W, src.H, src.C)
	if sigmaX <= 0 && sigmaY <= 0 {
		dst.CopyFrom(src)
		return dst
	}

	temp := pool.Get(src.W, src.H, src.C)
	defer pool.Put(temp)

	Convolve(src, temp, dst, CachedGaussianKernel(sigmaX), CachedGaussianKernel(sigmaY), wp)
	return dst
}

// Convolve applies the separable kernels kx then ky: src → temp → dst.
// All three buffers must have the same shape.
func Convolve(src, temp, dst *pixbuf.Buf, kx, ky []float32, wp *parallel.WorkerPool) {
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		blurHorizontal(src, temp, y0, y1, kx)
	})
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		blurVertical(temp, dst, y0, y1, ky)
	})
}

func blurHorizontal(src, dst *pixbuf.Buf, y0, y1 int, kernel []float32) {
	half := len(kernel) / 2
	ch := src.C
	for y := y0; y < y1; y++ {
		row := y * src.Stride()
		for x := 0; x < src.W; x++ {
			o := row + x*ch
			for c := 0; c < ch; c++ {
				var acc float32
				for k, w := range kernel {
					kx := clampInt(x+k-half, 0, src.W-1)
					acc += src.Pix[row+kx*ch+c] * w
				}
				dst.Pix[o+c] = acc
			}
		}
	}
}

func blurVertical(src, dst *pixbuf.Buf, y0, y1 int, kernel []float32) {
	half := len(kernel) / 2
	stride := src.Stride()
	for y := y0; y < y1; y++ {
		row := y * stride
		for i := 0; i < stride; i++ {
			var acc float32
			for k, w := range kernel {
				ky := clampInt(y+k-half, 0, src.H-1)
				acc += src.Pix[ky*stride+i] * w
			}
			dst.Pix[row+i] = acc
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
