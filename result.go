package starchart

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/starchart/internal/pixbuf"
)

// Layer names one of the intermediate buffers of a render.
type Layer int

const (
	// LayerStars is the additive star sprites.
	LayerStars Layer = iota
	// LayerUICore is the sharp ring, tick, leader and glyph strokes.
	LayerUICore
	// LayerUIGlow is the blurred halo of the UI strokes.
	LayerUIGlow
	// LayerFinalLinear is the HDR composite after grain, before
	// tonemapping.
	LayerFinalLinear
)

var layerNames = [...]string{"stars", "ui_core", "ui_glow", "final_linear"}

// String returns the layer name.
func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return fmt.Sprintf("Layer(%d)", int(l))
	}
	return layerNames[l]
}

// Layers returns the four layers in pipeline order.
func Layers() []Layer {
	return []Layer{LayerStars, LayerUICore, LayerUIGlow, LayerFinalLinear}
}

// ParseLayer returns the layer with the given name.
func ParseLayer(name string) (Layer, error) {
	for i, n := range layerNames {
		if n == name {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("starchart: unknown layer %q", name)
}

// LayerBuffer is linear-light RGB at output resolution, interleaved.
type LayerBuffer struct {
	Width, Height int
	Pix           []float32
}

func newLayerBuffer(b *pixbuf.Buf) *LayerBuffer {
	return &LayerBuffer{Width: b.W, Height: b.H, Pix: append([]float32(nil), b.Pix...)}
}

// At returns the RGB value at (x, y).
func (b *LayerBuffer) At(x, y int) [3]float32 {
	i := (y*b.Width + x) * 3
	return [3]float32{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

// Image is the final render: interleaved RGB, either 8-bit sRGB (Pix8)
// or 16-bit display-linear (Pix16).
type Image struct {
	Width, Height int
	Depth         int
	Pix8          []uint8
	Pix16         []uint16
}

// ToImage converts the image to an opaque *image.NRGBA or
// *image.NRGBA64.
func (m *Image) ToImage() image.Image {
	r := image.Rect(0, 0, m.Width, m.Height)
	n := m.Width * m.Height
	if m.Depth == 16 {
		out := image.NewNRGBA64(r)
		for p := 0; p < n; p++ {
			for c := 0; c < 3; c++ {
				v := m.Pix16[p*3+c]
				out.Pix[p*8+c*2] = uint8(v >> 8)
				out.Pix[p*8+c*2+1] = uint8(v)
			}
			out.Pix[p*8+6], out.Pix[p*8+7] = 0xff, 0xff
		}
		return out
	}
	out := image.NewNRGBA(r)
	for p := 0; p < n; p++ {
		copy(out.Pix[p*4:p*4+3], m.Pix8[p*3:p*3+3])
		out.Pix[p*4+3] = 0xff
	}
	return out
}

// LabelPlacement is where one ring label ended up.
type LabelPlacement struct {
	Ring int
	Text string
	// Angle is the resolved center angle in degrees, [0, 360).
	Angle float64
	// Start and End bound the label arc in degrees, [0, 360).
	Start, End float64
	// Leader is set for labels moved to the auxiliary arc, drawn at
	// AuxAngle with a connector back to Angle.
	Leader   bool
	AuxAngle float64
}

// Diagnostics are counters collected during a render.
type Diagnostics struct {
	Seed int64
	// Stars is the number of generated stars.
	Stars int
	// NumericClamps counts NaN, infinite or out-of-range values that were
	// replaced during star generation and filtering.
	NumericClamps int
	// PlacementIterations sums the relaxation iterations of all rings.
	PlacementIterations int
	// UnresolvedLabels counts leader labels that could not be placed
	// without overlap on their auxiliary arc.
	UnresolvedLabels int
	// Stages holds the wall time of each pipeline stage in order.
	Stages []StageTiming
}

// StageTiming is the duration of one pipeline stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Total returns the summed stage durations.
func (d Diagnostics) Total() time.Duration {
	var t time.Duration
	for _, s := range d.Stages {
		t += s.Duration
	}
	return t
}

// RenderResult is the output of Render.
type RenderResult struct {
	Image       *Image
	Layers      map[Layer]*LayerBuffer
	Warnings    []PlacementOverflow
	Placements  []LabelPlacement
	Diagnostics Diagnostics
}

// Layer returns the named layer buffer.
func (r *RenderResult) Layer(l Layer) *LayerBuffer { return r.Layers[l] }
