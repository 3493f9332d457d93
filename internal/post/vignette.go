package post

import (
	"github.com/tanema/gween/ease"

	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
)

// vignetteEase shapes the falloff from center (0) to corner (1).
var vignetteEase ease.TweenFunc = ease.InOutSine

// VignetteFactor is the multiplier at normalized radius r for strength s.
func VignetteFactor(s, r float64) float32 {
	r = min(max(r, 0), 1)
	f := 1 - float32(s)*vignetteEase(float32(r), 0, 1, 1)
	return min(max(f, 0), 1)
}

// Vignette darkens src radially. strength 0 returns a copy.
func Vignette(src *pixbuf.Buf, strength float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(src.W, src.H, src.C)
	dst.CopyFrom(src)
	if strength <= 0 {
		return dst
	}

	g := newRadial(src.W, src.H)
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.W; x++ {
				_, _, r := g.at(x, y)
				f := VignetteFactor(strength, r)
				o := dst.Offset(x, y)
				dst.Pix[o] *= f
				dst.Pix[o+1] *= f
				dst.Pix[o+2] *= f
			}
		}
	})
	return dst
}
