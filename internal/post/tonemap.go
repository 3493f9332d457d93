package post

import (
	"github.com/gogpu/starchart/internal/color"
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
)

// ACES fit coefficients (Narkowicz).
const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14
)

// ACES maps linear HDR v to display-linear [0,1].
func ACES(v float32) float32 {
	if v <= 0 {
		return 0
	}
	m := (v * (acesA*v + acesB)) / (v*(acesC*v+acesD) + acesE)
	return min(max(m, 0), 1)
}

// Tonemap scales src by exposure and applies the ACES curve per channel.
func Tonemap(src *pixbuf.Buf, exposure float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(src.W, src.H, src.C)
	e := float32(exposure)
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		for i := y0 * src.Stride(); i < y1*src.Stride(); i++ {
			dst.Pix[i] = ACES(src.Pix[i] * e)
		}
	})
	return dst
}

// Grade maps display-linear src through the table g, mixed with the
// ungraded color by strength. A nil table or zero strength returns a copy.
func Grade(src *pixbuf.Buf, g *color.Grade, strength float64, pool *pixbuf.Pool, wp *parallel.WorkerPool) *pixbuf.Buf {
	dst := pool.Get(src.W, src.H, src.C)
	dst.CopyFrom(src)
	if g == nil || strength <= 0 {
		return dst
	}

	s := float32(min(strength, 1))
	parallel.Rows(wp, src.H, func(y0, y1 int) {
		for i := y0 * src.Stride(); i < y1*src.Stride(); i += 3 {
			r, gr, b := dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]
			lr, lg, lb := g.Apply(r, gr, b)
			dst.Pix[i] = r + (lr-r)*s
			dst.Pix[i+1] = gr + (lg-gr)*s
			dst.Pix[i+2] = b + (lb-b)*s
		}
	})
	return dst
}
