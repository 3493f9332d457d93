package composite

import (
	"fmt"
	"math"

	"github.com/gogpu/starchart/internal/filter"
	"github.com/gogpu/starchart/internal/glyph"
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
	"github.com/gogpu/starchart/internal/rings"
)

// Ring is one ring ready to draw.
type Ring struct {
	Geom         *rings.Geometry
	WidthPx      float64
	TickWidthPx  float64
	Color        [3]float32
	HaloColor    [3]float32
	HaloStrength float64
	Labels       []Label
}

// Text is the shared label style.
type Text struct {
	Face  *glyph.Face
	Color [3]float32
}

// RingError reports a drawing failure for one ring. Ring is -1 for free
// labels.
type RingError struct {
	Ring int
	Err  error
}

func (e *RingError) Error() string {
	if e.Ring < 0 {
		return fmt.Sprintf("free labels: %v", e.Err)
	}
	return fmt.Sprintf("ring %d: %v", e.Ring, e.Err)
}

func (e *RingError) Unwrap() error { return e.Err }

// GlowSigma returns the glow blur sigma in supersampled pixels for a halo
// strength.
func GlowSigma(strength, baseRadius float64, ssaa int) float64 {
	return math.Max(float64(ssaa), 0.012*baseRadius*(1+strength))
}

// UI draws the ui_core and ui_glow layers. Rings are drawn one at a time
// into scratch coverage masks: strokes carry the ring color, glyphs the
// text color, and glow is the Gaussian blur of both scaled by the ring's
// halo strength. A ring with zero halo strength contributes no glow.
func UI(f Frame, rs []Ring, free []Label, text Text, pool *pixbuf.Pool, wp *parallel.WorkerPool) (core, glow *pixbuf.Buf, err error) {
	core = pool.Get(f.W, f.H, 3)
	glow = pool.Get(f.W, f.H, 3)
	strokeBuf := pool.Get(f.W, f.H, 1)
	textBuf := pool.Get(f.W, f.H, 1)
	defer pool.Put(strokeBuf, textBuf)

	fail := func(ring int, e error) (*pixbuf.Buf, *pixbuf.Buf, error) {
		pool.Put(core, glow)
		return nil, nil, &RingError{Ring: ring, Err: e}
	}

	leaderWidth := float64(f.SSAA)
	for i, r := range rs {
		s, t := newCanvas(strokeBuf), newCanvas(textBuf)

		for _, d := range r.Geom.Dashes {
			s.polyline(d, r.WidthPx)
		}
		for _, tk := range r.Geom.Ticks {
			s.segment(tk.Inner, tk.Outer, r.TickWidthPx)
		}
		for _, l := range r.Labels {
			if l.Leader {
				if err := drawLeader(s, f.Proj, l, text.Face, leaderWidth); err != nil {
					return fail(i, err)
				}
			}
			if err := drawLabel(t, text.Face, f.Proj, l); err != nil {
				return fail(i, err)
			}
		}

		x0, y0, x1, y1 := union(s, t, 0)
		accumulate(core, strokeBuf, textBuf, r.Color, text.Color, x0, y0, x1, y1)

		if r.HaloStrength > 0 && !(s.empty() && t.empty()) {
			sigma := GlowSigma(r.HaloStrength, f.Proj.BaseRadius, f.SSAA)
			gx0, gy0, gx1, gy1 := union(s, t, int(math.Ceil(3*sigma)))
			src := pool.Get(gx1-gx0, gy1-gy0, 3)
			crop(src, strokeBuf, textBuf, r.HaloColor, text.Color, gx0, gy0)
			blurred := filter.Blur(src, sigma, pool, wp)
			paste(glow, blurred, float32(r.HaloStrength), gx0, gy0)
			pool.Put(src, blurred)
		}

		clearRegion(strokeBuf, x0, y0, x1, y1)
		clearRegion(textBuf, x0, y0, x1, y1)
	}

	if len(free) > 0 {
		t := newCanvas(textBuf)
		for _, l := range free {
			if err := drawLabel(t, text.Face, f.Proj, l); err != nil {
				return fail(-1, err)
			}
		}
		if !t.empty() {
			x0, y0, x1, y1 := t.bounds(0)
			accumulate(core, strokeBuf, textBuf, [3]float32{}, text.Color, x0, y0, x1, y1)
			clearRegion(textBuf, x0, y0, x1, y1)
		}
	}
	return core, glow, nil
}

// drawLeader draws the connector from the ring anchor to just inside the
// demoted label's text path.
func drawLeader(c *canvas, proj rings.Projection, l Label, face *glyph.Face, width float64) error {
	a, _, err := proj.ProjectPoint(l.AnchorR, l.AnchorAngle)
	if err != nil {
		return err
	}
	inset := 0.6 * face.Size() / proj.BaseRadius
	b, _, err := proj.ProjectPoint(math.Max(l.AnchorR, l.R-inset), l.Angle)
	if err != nil {
		return err
	}
	c.segment(a, b, width)
	return nil
}

func union(a, b *canvas, pad int) (int, int, int, int) {
	switch {
	case a.empty() && b.empty():
		return 0, 0, 0, 0
	case a.empty():
		return b.bounds(pad)
	case b.empty():
		return a.bounds(pad)
	}
	ax0, ay0, ax1, ay1 := a.bounds(pad)
	bx0, by0, bx1, by1 := b.bounds(pad)
	return min(ax0, bx0), min(ay0, by0), max(ax1, bx1), max(ay1, by1)
}

// accumulate adds s·sc + t·tc to dst over the region.
func accumulate(dst, s, t *pixbuf.Buf, sc, tc [3]float32, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := y*s.W + x
			sv, tv := s.Pix[i], t.Pix[i]
			if sv == 0 && tv == 0 {
				continue
			}
			o := dst.Offset(x, y)
			dst.Pix[o] += sv*sc[0] + tv*tc[0]
			dst.Pix[o+1] += sv*sc[1] + tv*tc[1]
			dst.Pix[o+2] += sv*sc[2] + tv*tc[2]
		}
	}
}

// crop writes s·sc + t·tc for the region starting at (x0, y0) into dst.
func crop(dst, s, t *pixbuf.Buf, sc, tc [3]float32, x0, y0 int) {
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			i := (y+y0)*s.W + x + x0
			sv, tv := s.Pix[i], t.Pix[i]
			o := dst.Offset(x, y)
			dst.Pix[o] = sv*sc[0] + tv*tc[0]
			dst.Pix[o+1] = sv*sc[1] + tv*tc[1]
			dst.Pix[o+2] = sv*sc[2] + tv*tc[2]
		}
	}
}

// paste adds gain·src into dst at offset (x0, y0).
func paste(dst, src *pixbuf.Buf, gain float32, x0, y0 int) {
	for y := 0; y < src.H; y++ {
		row := dst.Offset(x0, y+y0)
		srow := src.Offset(0, y)
		for k := 0; k < src.Stride(); k++ {
			dst.Pix[row+k] += src.Pix[srow+k] * gain
		}
	}
}

func clearRegion(b *pixbuf.Buf, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		clear(b.Pix[b.Offset(x0, y):b.Offset(x1, y)])
	}
}
