package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Green band of hues (HCL degrees) a star ramp must not pass through.
const (
	greenLo = 90.0
	greenHi = 165.0
)

// Ramp interpolates between a cool and a warm color in HCL space.
type Ramp struct {
	h0, dh float64
	c0, c1 float64
	l0, l1 float64
}

// NewRamp builds a ramp from cool to warm, both given as sRGB triplets.
//
// Hue travels in the direction whose arc avoids the green band. When both
// directions cross it (an endpoint sits inside the band) the shorter arc
// is used.
func NewRamp(cool, warm [3]float64) Ramp {
	a := colorful.Color{R: cool[0], G: cool[1], B: cool[2]}
	b := colorful.Color{R: warm[0], G: warm[1], B: warm[2]}

	h0, c0, l0 := a.Hcl()
	h1, c1, l1 := b.Hcl()

	return Ramp{h0: h0, dh: HuePath(h0, h1), c0: c0, c1: c1, l0: l0, l1: l1}
}

// HuePath returns the signed hue delta in degrees for travelling from h0
// to h1 without crossing the green band when possible.
func HuePath(h0, h1 float64) float64 {
	up := math.Mod(h1-h0+720, 360)
	down := up - 360
	if up == 0 {
		return 0
	}

	upGreen := crossesGreen(h0, up)
	downGreen := crossesGreen(h0, down)
	switch {
	case upGreen && !downGreen:
		return down
	case downGreen && !upGreen:
		return up
	case math.Abs(down) < up:
		return down
	default:
		return up
	}
}

func crossesGreen(h0, delta float64) bool {
	const steps = 90
	for i := 1; i < steps; i++ {
		h := math.Mod(h0+delta*float64(i)/steps+720, 360)
		if h >= greenLo && h <= greenHi {
			return true
		}
	}
	return false
}

// At returns the linear RGB color at t ∈ [0,1] (0 cool, 1 warm).
func (r Ramp) At(t float64) [3]float32 {
	t = clamp01(t)
	h := math.Mod(r.h0+r.dh*t+360, 360)
	c := colorful.Hcl(h, r.c0+(r.c1-r.c0)*t, r.l0+(r.l1-r.l0)*t).Clamped()
	lr, lg, lb := c.LinearRgb()
	return [3]float32{float32(lr), float32(lg), float32(lb)}
}

// ParseHex parses "#rrggbb" into an sRGB triplet.
func ParseHex(s string) ([3]float64, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return [3]float64{}, err
	}
	return [3]float64{c.R, c.G, c.B}, nil
}

// Hex formats an sRGB triplet as "#rrggbb".
func Hex(c [3]float64) string {
	return colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped().Hex()
}
