package composite

import (
	"math"

	"github.com/gogpu/starchart/internal/glyph"
	"github.com/gogpu/starchart/internal/rings"
)

// Label is a laid-out text run placed along a circle of the chart.
type Label struct {
	Run glyph.Run
	// R is the unit radius of the text path.
	R float64
	// Angle is the center angle of the run in radians.
	Angle float64
	// PathRadiusPx converts pen offsets in pixels to angles along the path.
	PathRadiusPx float64

	// Leader draws a connector from the ring at (AnchorR, AnchorAngle) to
	// the inner edge of the label.
	Leader      bool
	AnchorR     float64
	AnchorAngle float64
}

// drawLabel rasterizes every rune of l into c, rotated along the path
// tangent. Runs on the lower half are flipped so they read left to right.
func drawLabel(c *canvas, face *glyph.Face, proj rings.Projection, l Label) error {
	if len(l.Run.Runes) == 0 || l.PathRadiusPx <= 0 {
		return nil
	}

	_, tc, err := frameAt(proj, l.R, l.Angle)
	if err != nil {
		return err
	}
	dir := 1.0
	if tc.X < 0 {
		dir = -1
	}

	// Center glyphs vertically on the path.
	lift := (face.Ascent() - face.Descent()) / 2
	half := l.Run.Width / 2

	for i, r := range l.Run.Runes {
		mid := l.Run.X[i] + l.Run.Advance[i]/2 - half
		th := l.Angle + dir*mid/l.PathRadiusPx

		p, t, err := frameAt(proj, l.R, th)
		if err != nil {
			return err
		}
		t = rings.Point{X: t.X * dir, Y: t.Y * dir}
		n := rings.Point{X: -t.Y, Y: t.X}

		// Pen origin: back off half an advance along the tangent and drop
		// to the baseline.
		origin := rings.Point{
			X: p.X - t.X*l.Run.Advance[i]/2 + n.X*lift,
			Y: p.Y - t.Y*l.Run.Advance[i]/2 + n.Y*lift,
		}
		blitRotated(c, face.Mask(r), origin, t, n)
	}
	return nil
}

// blitRotated composites a glyph mask whose local x axis is t and local y
// (down) axis is n, with its pen origin at o. Each destination pixel is
// inverse-mapped into the mask and sampled bilinearly.
func blitRotated(c *canvas, m *glyph.Mask, o, t, n rings.Point) {
	if m.W == 0 || m.H == 0 {
		return
	}

	// Destination bounds from the four mask corners.
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, u := range []float64{float64(m.OX), float64(m.OX + m.W)} {
		for _, v := range []float64{float64(m.OY), float64(m.OY + m.H)} {
			px := o.X + t.X*u + n.X*v
			py := o.Y + t.Y*u + n.Y*v
			x0, x1 = math.Min(x0, px), math.Max(x1, px)
			y0, y1 = math.Min(y0, py), math.Max(y1, py)
		}
	}

	for y := int(math.Floor(y0)); y <= int(math.Ceil(y1)); y++ {
		for x := int(math.Floor(x0)); x <= int(math.Ceil(x1)); x++ {
			dx := float64(x) + 0.5 - o.X
			dy := float64(y) + 0.5 - o.Y
			u := dx*t.X + dy*t.Y - float64(m.OX) - 0.5
			v := dx*n.X + dy*n.Y - float64(m.OY) - 0.5
			c.plot(x, y, sampleMask(m, u, v))
		}
	}
}

func sampleMask(m *glyph.Mask, u, v float64) float32 {
	x0, y0 := int(math.Floor(u)), int(math.Floor(v))
	fx, fy := float32(u-float64(x0)), float32(v-float64(y0))
	top := m.At(x0, y0) + (m.At(x0+1, y0)-m.At(x0, y0))*fx
	bot := m.At(x0, y0+1) + (m.At(x0+1, y0+1)-m.At(x0, y0+1))*fx
	return top + (bot-top)*fy
}

// frameAt returns the projected point at (r, θ) and the unit tangent of
// the projected circle there.
func frameAt(proj rings.Projection, r, th float64) (rings.Point, rings.Point, error) {
	const h = 1e-4
	p, _, err := proj.ProjectPoint(r, th)
	if err != nil {
		return rings.Point{}, rings.Point{}, err
	}
	a, _, err := proj.ProjectPoint(r, th-h)
	if err != nil {
		return rings.Point{}, rings.Point{}, err
	}
	b, _, err := proj.ProjectPoint(r, th+h)
	if err != nil {
		return rings.Point{}, rings.Point{}, err
	}
	t := rings.Point{X: b.X - a.X, Y: b.Y - a.Y}
	l := math.Hypot(t.X, t.Y)
	if l == 0 {
		return p, rings.Point{X: 1}, nil
	}
	return p, rings.Point{X: t.X / l, Y: t.Y / l}, nil
}
