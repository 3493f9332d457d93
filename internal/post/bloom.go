// Package post implements the HDR post-processing stack: bloom,
// anamorphic streaks, chromatic aberration, vignette, grain, tonemapping,
// color grading and the final box downsample.
//
// Every filter is a function from buffers to a new buffer taken from a
// pixbuf.Pool. Row bands are scheduled on a parallel.WorkerPool with fixed
// band boundaries, so results do not depend on the number of workers.
package post

import (
	"math"

	"github.com/gogpu/starchart/internal/filter"
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
)

// minBrightLuma is the luminance below which a pixel never blooms, even at
// zero threshold.
const minBrightLuma = 1e-5

// BrightPass keeps the part of each pixel whose luminance L exceeds
// threshold t, scaling its color by (L-t)/L. Darker pixels become zero.
func BrightPass(src *pixbuf.Buf, threshold float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(src.W, src.H, src.C)
	t := float32(threshold)
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		for i := y0 * src.Stride(); i < y1*src.Stride(); i += 3 {
			r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
			l := pixbuf.Luma(r, g, b)
			if l <= t || l <= minBrightLuma {
				continue
			}
			s := (l - t) / l
			dst.Pix[i] = r * s
			dst.Pix[i+1] = g * s
			dst.Pix[i+2] = b * s
		}
	})
	return dst
}

// Bloom returns the glow of a bright-pass buffer at the bright buffer's
// resolution, not yet scaled by intensity.
//
// The bright buffer is first box-filtered down by ssaa to target
// resolution, then halved levels times. Every level is blurred by a
// Gaussian whose sigma is derived from radius (in target pixels), and the
// levels are summed coarse to fine with bilinear upsampling. The result is
// normalized by the level count.
func Bloom(bright *pixbuf.Buf, ssaa, levels int, radius float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	levels = max(1, levels)
	base := pixbuf.Downsample(bright, ssaa, pool, wp)

	pyramid := make([]*pixbuf.Buf, levels)
	prev := base
	for i := range pyramid {
		pyramid[i] = pixbuf.Half(prev, pool, wp)
		prev = pyramid[i]
	}
	pool.Put(base)

	sigma := bloomSigma(radius)
	var acc *pixbuf.Buf
	for i := levels - 1; i >= 0; i-- {
		lvl := filter.Blur(pyramid[i], sigma, pool, wp)
		pool.Put(pyramid[i])
		if acc != nil {
			up := pixbuf.Upsample(acc, lvl.W, lvl.H, pool, wp)
			lvl.Add(up)
			pool.Put(acc, up)
		}
		acc = lvl
	}

	out := pixbuf.Upsample(acc, bright.W, bright.H, pool, wp)
	pool.Put(acc)
	out.Scale(1 / float32(levels))
	return out
}

// bloomSigma is the per-level blur in level pixels.
func bloomSigma(radius float64) float64 {
	return math.Max(1, radius*0.5)
}

// Streak returns a horizontal anamorphic streak of the bright buffer with
// the given length in target pixels, at the bright buffer's resolution.
func Streak(bright *pixbuf.Buf, ssaa int, length float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	base := pixbuf.Downsample(bright, ssaa, pool, wp)
	blurred := filter.BlurXY(base, math.Max(1, length/6), 0, pool, wp)
	out := pixbuf.Upsample(blurred, bright.W, bright.H, pool, wp)
	pool.Put(base, blurred)
	return out
}
