// Package pixbuf provides the float32 pixel buffers the render pipeline
// works on, together with pooling, sampling and resampling helpers.
package pixbuf

import (
	"errors"
	"math"
)

// Errors returned by buffer constructors.
var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("pixbuf: invalid dimensions")

	// ErrInvalidChannels is returned for a channel count other than 1 or 3.
	ErrInvalidChannels = errors.New("pixbuf: channels must be 1 or 3")
)

// Buf is a row-major linear-light float32 buffer with 1 (coverage) or
// 3 (RGB) interleaved channels.
type Buf struct {
	W, H, C int
	Pix     []float32
}

// New allocates a zeroed buffer.
func New(width, height, channels int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if channels != 1 && channels != 3 {
		return nil, ErrInvalidChannels
	}
	return &Buf{W: width, H: height, C: channels, Pix: make([]float32, width*height*channels)}, nil
}

// MustNew is like New but panics on invalid parameters. It is meant for
// dimensions that were validated upstream.
func MustNew(width, height, channels int) *Buf {
	b, err := New(width, height, channels)
	if err != nil {
		panic(err)
	}
	return b
}

// Stride returns the number of float32 values per row.
func (b *Buf) Stride() int { return b.W * b.C }

// Offset returns the index of the first channel of pixel (x, y).
func (b *Buf) Offset(x, y int) int { return (y*b.W + x) * b.C }

// SameShape reports whether o has the same dimensions and channel count.
func (b *Buf) SameShape(o *Buf) bool {
	return o != nil && b.W == o.W && b.H == o.H && b.C == o.C
}

// Clear zeroes every pixel.
func (b *Buf) Clear() { clear(b.Pix) }

// Clone returns a deep copy.
func (b *Buf) Clone() *Buf {
	out := &Buf{W: b.W, H: b.H, C: b.C, Pix: make([]float32, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// CopyFrom copies src into b. Shapes must match.
func (b *Buf) CopyFrom(src *Buf) {
	copy(b.Pix, src.Pix)
}

// Add accumulates src into b. Shapes must match.
func (b *Buf) Add(src *Buf) {
	for i, v := range src.Pix {
		b.Pix[i] += v
	}
}

// AddScaled accumulates s·src into b. Shapes must match.
func (b *Buf) AddScaled(src *Buf, s float32) {
	for i, v := range src.Pix {
		b.Pix[i] += v * s
	}
}

// Scale multiplies every value by s.
func (b *Buf) Scale(s float32) {
	for i := range b.Pix {
		b.Pix[i] *= s
	}
}

// Luminance returns the Rec. 709 luminance of an RGB pixel, or the single
// channel value of a coverage buffer.
func (b *Buf) Luminance(x, y int) float32 {
	i := b.Offset(x, y)
	if b.C == 1 {
		return b.Pix[i]
	}
	return Luma(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
}

// Luma is the Rec. 709 luminance of linear RGB.
func Luma(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Sanitize replaces NaN with 0, clamps infinities and negative values, and
// returns how many values it had to change.
func (b *Buf) Sanitize(maxValue float32) int {
	n := 0
	for i, v := range b.Pix {
		switch {
		case v != v:
			b.Pix[i] = 0
			n++
		case math.IsInf(float64(v), 1) || v > maxValue:
			b.Pix[i] = maxValue
			n++
		case v < 0:
			b.Pix[i] = 0
			n++
		}
	}
	return n
}
