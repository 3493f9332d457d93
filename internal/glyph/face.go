// Package glyph measures and rasterizes label text.
//
// Advances come from HarfBuzz shaping (go-text/typesetting) so kerning is
// honoured; coverage masks come from golang.org/x/image/font/opentype and
// are cached per rune. A Face is bound to one pixel size.
package glyph

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Face is a font at a fixed pixel size.
//
// Face is safe for concurrent use.
type Face struct {
	size float64

	// shapeFont is the go-text font; read-only and safe for concurrent use.
	shapeFont *gtfont.Font

	mu      sync.Mutex
	raster  xfont.Face // not safe for concurrent use, guarded by mu
	masks   map[rune]*Mask
	metrics xfont.Metrics
}

// Mask is an 8-bit glyph coverage mask converted to [0,1].
type Mask struct {
	// OX, OY is the offset of the mask's top-left pixel from the pen
	// position on the baseline.
	OX, OY int
	W, H   int
	Cov    []float32
}

// At returns coverage at mask pixel (x, y), 0 outside.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Cov[y*m.W+x]
}

// NewFace parses TTF/OTF data and binds it to sizePx pixels per em.
func NewFace(data []byte, sizePx float64) (*Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	if !(sizePx > 0) {
		return nil, ErrInvalidSize
	}

	parsed, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font for shaping: %w", err)
	}

	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font for rasterization: %w", err)
	}
	raster, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: xfont.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph: create face: %w", err)
	}

	return &Face{
		size:      sizePx,
		shapeFont: parsed.Font,
		raster:    raster,
		masks:     make(map[rune]*Mask),
		metrics:   raster.Metrics(),
	}, nil
}

// Size returns the pixel size.
func (f *Face) Size() float64 { return f.size }

// Ascent returns the ascent in pixels.
func (f *Face) Ascent() float64 { return fixedToFloat(f.metrics.Ascent) }

// Descent returns the descent in pixels (positive below the baseline).
func (f *Face) Descent() float64 { return fixedToFloat(f.metrics.Descent) }

// Mask returns the cached coverage mask of r. Runes without a glyph
// return an empty mask.
func (f *Face) Mask(r rune) *Mask {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.masks[r]; ok {
		return m
	}
	m := f.rasterize(r)
	f.masks[r] = m
	return m
}

func (f *Face) rasterize(r rune) *Mask {
	bounds, _, ok := f.raster.GlyphBounds(r)
	if !ok {
		return &Mask{}
	}

	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	if maxX <= minX || maxY <= minY {
		return &Mask{}
	}

	rect := image.Rect(minX, minY, maxX, maxY)
	dst := image.NewAlpha(rect)
	d := &xfont.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: f.raster,
		Dot:  fixed.Point26_6{},
	}
	d.DrawString(string(r))

	m := &Mask{OX: minX, OY: minY, W: rect.Dx(), H: rect.Dy(), Cov: make([]float32, rect.Dx()*rect.Dy())}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			m.Cov[y*m.W+x] = float32(dst.AlphaAt(minX+x, minY+y).A) / 255
		}
	}
	return m
}

// rasterAdvance returns the x/image advance of r in pixels.
func (f *Face) rasterAdvance(r rune) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	adv, ok := f.raster.GlyphAdvance(r)
	if !ok {
		return 0
	}
	return fixedToFloat(adv)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
