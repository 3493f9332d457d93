package composite

import (
	"math"

	"github.com/gogpu/starchart/internal/pixbuf"
	"github.com/gogpu/starchart/internal/rings"
)

// canvas is a single-channel coverage mask that tracks the bounding box
// of everything drawn into it.
type canvas struct {
	buf                    *pixbuf.Buf
	minX, minY, maxX, maxY int
}

func newCanvas(buf *pixbuf.Buf) *canvas {
	return &canvas{buf: buf, minX: buf.W, minY: buf.H, maxX: -1, maxY: -1}
}

func (c *canvas) empty() bool { return c.maxX < c.minX }

// plot max-combines coverage v into pixel (x, y).
func (c *canvas) plot(x, y int, v float32) {
	if v <= 0 || x < 0 || y < 0 || x >= c.buf.W || y >= c.buf.H {
		return
	}
	i := y*c.buf.W + x
	if v > c.buf.Pix[i] {
		c.buf.Pix[i] = min(v, 1)
	}
	c.minX, c.maxX = min(c.minX, x), max(c.maxX, x)
	c.minY, c.maxY = min(c.minY, y), max(c.maxY, y)
}

// segment draws an anti-aliased line of the given width with round caps.
// Coverage falls off linearly over one pixel at the edge.
func (c *canvas) segment(a, b rings.Point, width float64) {
	half := width / 2
	pad := half + 1
	x0 := int(math.Floor(math.Min(a.X, b.X) - pad))
	x1 := int(math.Ceil(math.Max(a.X, b.X) + pad))
	y0 := int(math.Floor(math.Min(a.Y, b.Y) - pad))
	y1 := int(math.Ceil(math.Max(a.Y, b.Y) + pad))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.buf.W-1), min(y1, c.buf.H-1)

	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	for y := y0; y <= y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float64(x) + 0.5
			t := 0.0
			if l2 > 0 {
				t = math.Max(0, math.Min(1, ((px-a.X)*dx+(py-a.Y)*dy)/l2))
			}
			d := math.Hypot(px-(a.X+t*dx), py-(a.Y+t*dy))
			c.plot(x, y, float32(math.Max(0, math.Min(1, half+0.5-d))))
		}
	}
}

// polyline draws consecutive segments.
func (c *canvas) polyline(pts []rings.Point, width float64) {
	for i := 1; i < len(pts); i++ {
		c.segment(pts[i-1], pts[i], width)
	}
}

// bounds returns the drawn bounding box grown by pad pixels and clipped
// to the buffer, as [x0, y0, x1, y1).
func (c *canvas) bounds(pad int) (int, int, int, int) {
	return max(0, c.minX-pad), max(0, c.minY-pad),
		min(c.buf.W, c.maxX+pad+1), min(c.buf.H, c.maxY+pad+1)
}
