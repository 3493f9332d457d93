package pixbuf

import "math"

// SampleBilinear samples channel ch at continuous pixel coordinates (x, y),
// where pixel (i, j) has its center at (i+0.5, j+0.5). Coordinates outside
// the buffer are clamped to the edge.
func (b *Buf) SampleBilinear(x, y float64, ch int) float32 {
	fx := x - 0.5
	fy := y - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	x1 := clamp(x0+1, 0, b.W-1)
	y1 := clamp(y0+1, 0, b.H-1)
	x0 = clamp(x0, 0, b.W-1)
	y0 = clamp(y0, 0, b.H-1)

	p00 := b.Pix[b.Offset(x0, y0)+ch]
	p10 := b.Pix[b.Offset(x1, y0)+ch]
	p01 := b.Pix[b.Offset(x0, y1)+ch]
	p11 := b.Pix[b.Offset(x1, y1)+ch]

	top := p00 + (p10-p00)*tx
	bot := p01 + (p11-p01)*tx
	return top + (bot-top)*ty
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
