package post

import (
	"math"

	"github.com/gogpu/starchart/internal/filter"
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
	"github.com/gogpu/starchart/internal/rng"
)

const (
	// grainEpsilon keeps the log-luminance noise finite on black pixels.
	grainEpsilon = 0.01

	blueNoiseTile = 64
)

// NoiseField returns one unit-variance noise value per pixel. With blue
// true the field is a high-passed white noise tile repeated over the
// image, which has little low-frequency energy.
func NoiseField(w, h int, blue bool, src *rng.Context) []float32 {
	if !blue {
		n := make([]float32, w*h)
		for i := range n {
			n[i] = float32(src.Gaussian(0, 1))
		}
		return n
	}

	tile := blueTile(src)
	n := make([]float32, w*h)
	for y := 0; y < h; y++ {
		row := (y % blueNoiseTile) * blueNoiseTile
		for x := 0; x < w; x++ {
			n[y*w+x] = tile[row+x%blueNoiseTile]
		}
	}
	return n
}

func blueTile(src *rng.Context) []float32 {
	white := pixbuf.MustNew(blueNoiseTile, blueNoiseTile, 1)
	for i := range white.Pix {
		white.Pix[i] = float32(src.Gaussian(0, 1))
	}
	low := filter.Blur(white, 1.5, nil, nil)

	var sum, sq float64
	for i := range white.Pix {
		white.Pix[i] -= low.Pix[i]
		sum += float64(white.Pix[i])
	}
	mean := sum / float64(len(white.Pix))
	for i := range white.Pix {
		d := float64(white.Pix[i]) - mean
		sq += d * d
	}
	inv := float32(1 / math.Max(1e-9, math.Sqrt(sq/float64(len(white.Pix)))))
	for i := range white.Pix {
		white.Pix[i] = (white.Pix[i] - float32(mean)) * inv
	}
	return white.Pix
}

// Grain applies multiplicative noise in log luminance: each pixel's
// luminance L becomes (L+ε)·exp(strength·n) - ε, with n taken from noise.
// Chroma is preserved. Black pixels receive neutral grain.
func Grain(src *pixbuf.Buf, strength float64, noise []float32, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(src.W, src.H, src.C)
	dst.CopyFrom(src)
	if strength <= 0 || len(noise) < src.W*src.H {
		return dst
	}

	s := float32(strength)
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		for p := y0 * src.W; p < y1*src.W; p++ {
			o := p * 3
			l := pixbuf.Luma(dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2])
			nl := (l+grainEpsilon)*float32(math.Exp(float64(s*noise[p]))) - grainEpsilon
			if nl < 0 {
				nl = 0
			}
			if l > 1e-6 {
				f := nl / l
				dst.Pix[o] *= f
				dst.Pix[o+1] *= f
				dst.Pix[o+2] *= f
				continue
			}
			dst.Pix[o] += nl
			dst.Pix[o+1] += nl
			dst.Pix[o+2] += nl
		}
	})
	return dst
}
