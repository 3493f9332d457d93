// Package composite draws chart primitives into supersampled linear-light
// layers: additive star sprites into the stars layer, and ring strokes,
// ticks, dashes, leader lines and label glyphs into the ui_core layer with
// a blurred copy in ui_glow. Layers never blend into each other here.
package composite

import (
	"math"

	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
	"github.com/gogpu/starchart/internal/rings"
	"github.com/gogpu/starchart/internal/starfield"
)

// spriteExtent is the sprite half-size in standard deviations.
const spriteExtent = 3.0

// Frame describes the supersampled drawing surface.
type Frame struct {
	W, H int
	SSAA int
	Proj rings.Projection
}

// Stars renders the star field as additive Gaussian sprites peaking at
// each star's brightness. Rows are split into bands; every band visits the
// stars in list order, so each pixel sums its contributions in a fixed
// order regardless of worker count.
func Stars(f Frame, stars []starfield.Star, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(f.W, f.H, 3)
	if len(stars) == 0 {
		return dst
	}

	parallel.Rows(wp, f.H, func(y0, y1 int) {
		for i := range stars {
			drawSprite(dst, &stars[i], y0, y1)
		}
	})
	return dst
}

func drawSprite(dst *pixbuf.Buf, s *starfield.Star, y0, y1 int) {
	if s.Brightness <= 0 || s.Sigma <= 0 {
		return
	}
	ext := spriteExtent * s.Sigma
	ya := max(y0, int(math.Floor(s.Y-ext)))
	yb := min(y1, int(math.Ceil(s.Y+ext))+1)
	xa := max(0, int(math.Floor(s.X-ext)))
	xb := min(dst.W, int(math.Ceil(s.X+ext))+1)
	if ya >= yb || xa >= xb {
		return
	}

	inv := -1 / (2 * s.Sigma * s.Sigma)
	for y := ya; y < yb; y++ {
		dy := float64(y) + 0.5 - s.Y
		for x := xa; x < xb; x++ {
			dx := float64(x) + 0.5 - s.X
			w := float32(s.Brightness * math.Exp((dx*dx+dy*dy)*inv))
			o := dst.Offset(x, y)
			dst.Pix[o] += s.Color[0] * w
			dst.Pix[o+1] += s.Color[1] * w
			dst.Pix[o+2] += s.Color[2] * w
		}
	}
}
