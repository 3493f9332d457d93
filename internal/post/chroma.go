package post

import (
	"math"

	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
)

// Displacement is the radial channel offset at normalized radius r, in
// units of the center-to-corner distance. It is zero at the center and
// strictly increasing in r for k > 0.
func Displacement(k, r float64) float64 { return k * r * r }

// radial maps a pixel to its offset from the image center and its radius
// normalized to the corner distance.
type radial struct {
	cx, cy, corner float64
}

func newRadial(w, h int) radial {
	cx, cy := float64(w)/2, float64(h)/2
	return radial{cx: cx, cy: cy, corner: math.Max(1e-9, math.Hypot(cx, cy))}
}

func (g radial) at(x, y int) (dx, dy, r float64) {
	dx = float64(x) + 0.5 - g.cx
	dy = float64(y) + 0.5 - g.cy
	return dx, dy, math.Hypot(dx, dy) / g.corner
}

// ChromaticAberration samples red outward and blue inward along the
// radius by Displacement(k, r) and blends the shifted channels in with
// weight r. Green is untouched. k <= 0 returns a copy.
func ChromaticAberration(src *pixbuf.Buf, k float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(src.W, src.H, src.C)
	if k <= 0 {
		dst.CopyFrom(src)
		return dst
	}

	g := newRadial(src.W, src.H)
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.W; x++ {
				o := src.Offset(x, y)
				dx, dy, r := g.at(x, y)
				if r == 0 {
					copy(dst.Pix[o:o+3], src.Pix[o:o+3])
					continue
				}

				// (dx, dy) has length r·corner, so this scales it to
				// Displacement·corner pixels.
				s := Displacement(k, r) / r
				ox, oy := dx*s, dy*s
				px, py := float64(x)+0.5, float64(y)+0.5

				red := src.SampleBilinear(px+ox, py+oy, 0)
				blue := src.SampleBilinear(px-ox, py-oy, 2)
				w := float32(math.Min(1, r))
				dst.Pix[o] = src.Pix[o] + (red-src.Pix[o])*w
				dst.Pix[o+1] = src.Pix[o+1]
				dst.Pix[o+2] = src.Pix[o+2] + (blue-src.Pix[o+2])*w
			}
		}
	})
	return dst
}
