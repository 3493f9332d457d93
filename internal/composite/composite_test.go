package composite

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/starchart/internal/glyph"
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
	"github.com/gogpu/starchart/internal/rings"
	"github.com/gogpu/starchart/internal/starfield"
)

func testFrame(w, h int) Frame {
	return Frame{W: w, H: h, SSAA: 1, Proj: rings.NewProjection(w, h, 0, 35)}
}

func sum(b *pixbuf.Buf, ch int) float64 {
	var s float64
	for i := ch; i < len(b.Pix); i += b.C {
		s += float64(b.Pix[i])
	}
	return s
}

func TestStarsSpriteEnergy(t *testing.T) {
	f := testFrame(64, 64)
	s := starfield.Star{X: 32, Y: 32, Sigma: 2, Brightness: 1, Color: [3]float32{1, 1, 1}}
	buf := Stars(f, []starfield.Star{s}, nil, nil)

	// A unit-peak Gaussian integrates to 2πσ².
	want := 2 * math.Pi * s.Sigma * s.Sigma
	if got := sum(buf, 0); math.Abs(got-want)/want > 0.02 {
		t.Errorf("energy = %v, want %v", got, want)
	}

	// Peak sits on the four pixels around the center.
	peak := buf.Pix[buf.Offset(31, 31)]
	for _, p := range [][2]int{{31, 32}, {32, 31}, {32, 32}} {
		if v := buf.Pix[buf.Offset(p[0], p[1])]; math.Abs(float64(v-peak)) > 1e-6 {
			t.Errorf("pixel %v = %v, want %v", p, v, peak)
		}
	}
	if far := buf.Pix[buf.Offset(2, 2)]; far != 0 {
		t.Errorf("far pixel = %v, want 0", far)
	}
}

func TestStarsColorAndEdges(t *testing.T) {
	f := testFrame(16, 16)
	stars := []starfield.Star{
		{X: 0, Y: 0, Sigma: 1.5, Brightness: 2, Color: [3]float32{1, 0, 0}},
		{X: 100, Y: 100, Sigma: 1, Brightness: 5, Color: [3]float32{1, 1, 1}},
		{X: 8, Y: 8, Sigma: 0, Brightness: 3, Color: [3]float32{1, 1, 1}},
	}
	buf := Stars(f, stars, nil, nil)
	if sum(buf, 0) == 0 {
		t.Error("corner star drew nothing")
	}
	if g, b := sum(buf, 1), sum(buf, 2); g != 0 || b != 0 {
		t.Errorf("green/blue = %v/%v, want 0", g, b)
	}
}

func TestStarsWorkerIndependence(t *testing.T) {
	f := testFrame(96, 80)
	var stars []starfield.Star
	for i := 0; i < 200; i++ {
		stars = append(stars, starfield.Star{
			X:          float64(i*37%96) + 0.3,
			Y:          float64(i*53%80) + 0.7,
			Sigma:      0.8 + float64(i%5)*0.6,
			Brightness: 0.2 + float64(i%7)*0.3,
			Color:      [3]float32{0.9, 0.8, 1},
		})
	}

	seq := Stars(f, stars, nil, nil)
	wp := parallel.NewWorkerPool(4)
	defer wp.Close()
	par := Stars(f, stars, nil, wp)

	for i := range seq.Pix {
		if seq.Pix[i] != par.Pix[i] {
			t.Fatalf("pixel %d = %v, want %v", i, par.Pix[i], seq.Pix[i])
		}
	}
}

func TestCanvasSegment(t *testing.T) {
	buf := pixbuf.MustNew(20, 20, 1)
	c := newCanvas(buf)
	if !c.empty() {
		t.Fatal("new canvas not empty")
	}
	c.segment(rings.Point{X: 2, Y: 10}, rings.Point{X: 18, Y: 10}, 2)

	if v := buf.Pix[10*20+10]; v != 1 {
		t.Errorf("center coverage = %v, want 1", v)
	}
	if v := buf.Pix[2*20+10]; v != 0 {
		t.Errorf("off-line coverage = %v, want 0", v)
	}
	x0, y0, x1, y1 := c.bounds(0)
	if x0 > 2 || x1 < 18 || y0 > 9 || y1 < 11 {
		t.Errorf("bounds = %d,%d,%d,%d", x0, y0, x1, y1)
	}
	for _, v := range buf.Pix {
		if v < 0 || v > 1 {
			t.Fatalf("coverage %v outside [0,1]", v)
		}
	}
}

func testFace(t *testing.T) *glyph.Face {
	t.Helper()
	face, err := glyph.NewFace(goregular.TTF, 14)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	return face
}

func testRing(t *testing.T, f Frame, halo float64) Ring {
	t.Helper()
	g, err := rings.Layout(rings.Params{R: 0.5, TicksEveryDeg: 30, TickLength: 0.05}, f.Proj)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return Ring{
		Geom:         g,
		WidthPx:      2,
		TickWidthPx:  1,
		Color:        [3]float32{1, 1, 1},
		HaloColor:    [3]float32{0.5, 0.5, 1},
		HaloStrength: halo,
	}
}

func TestUIRingCoverage(t *testing.T) {
	f := testFrame(128, 128)
	core, glow, err := UI(f, []Ring{testRing(t, f, 0)}, nil, Text{Face: testFace(t)}, nil, nil)
	if err != nil {
		t.Fatalf("UI: %v", err)
	}

	// The rightmost point of the ring at zero tilt.
	x := int(f.Proj.CenterX + 0.5*f.Proj.BaseRadius)
	y := int(f.Proj.CenterY)
	if v := core.Pix[core.Offset(x, y)]; v < 0.5 {
		t.Errorf("ring coverage = %v, want >= 0.5", v)
	}
	if v := core.Pix[core.Offset(int(f.Proj.CenterX), y)]; v != 0 {
		t.Errorf("center = %v, want 0", v)
	}
	if s := sum(glow, 0) + sum(glow, 1) + sum(glow, 2); s != 0 {
		t.Errorf("glow sum = %v, want 0 at zero halo strength", s)
	}
}

func TestUIGlow(t *testing.T) {
	f := testFrame(128, 128)
	weak, err := glowEnergy(t, f, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	strong, err := glowEnergy(t, f, 2)
	if err != nil {
		t.Fatal(err)
	}
	if weak <= 0 || strong <= weak {
		t.Errorf("glow energy weak=%v strong=%v, want 0 < weak < strong", weak, strong)
	}
}

func glowEnergy(t *testing.T, f Frame, halo float64) (float64, error) {
	_, glow, err := UI(f, []Ring{testRing(t, f, halo)}, nil, Text{Face: testFace(t)}, nil, nil)
	if err != nil {
		return 0, err
	}
	return sum(glow, 2), nil
}

func TestUILabels(t *testing.T) {
	f := testFrame(160, 160)
	face := testFace(t)
	r := testRing(t, f, 0)
	r.Color = [3]float32{1, 0, 0}
	pathR := 0.58 * f.Proj.BaseRadius
	r.Labels = []Label{{
		Run:          face.Layout("VEGA", glyph.Style{}),
		R:            0.58,
		Angle:        -math.Pi / 2,
		PathRadiusPx: pathR,
	}}
	text := Text{Face: face, Color: [3]float32{0, 1, 0}}

	core, _, err := UI(f, []Ring{r}, nil, text, nil, nil)
	if err != nil {
		t.Fatalf("UI: %v", err)
	}
	// Only glyphs carry green.
	if sum(core, 1) == 0 {
		t.Error("label drew no coverage")
	}

	free := []Label{{
		Run:          face.Layout("M31", glyph.Style{}),
		R:            0.2,
		Angle:        math.Pi / 2,
		PathRadiusPx: 0.2 * f.Proj.BaseRadius,
	}}
	core2, _, err := UI(f, nil, free, text, nil, nil)
	if err != nil {
		t.Fatalf("UI free: %v", err)
	}
	if sum(core2, 1) == 0 || sum(core2, 0) != 0 {
		t.Errorf("free label sums = %v/%v", sum(core2, 0), sum(core2, 1))
	}
}

func TestUIRingError(t *testing.T) {
	f := Frame{W: 64, H: 64, SSAA: 1, Proj: rings.NewProjection(64, 64, 80, 35)}
	f.Proj.Distance = 0.1
	// Empty geometry so only the label is drawn.
	r := Ring{Geom: &rings.Geometry{}, WidthPx: 1, TickWidthPx: 1}
	r.Labels = []Label{{
		Run:          testFace(t).Layout("X", glyph.Style{}),
		R:            0.9,
		Angle:        -math.Pi / 2,
		PathRadiusPx: 10,
	}}
	_, _, err := UI(f, []Ring{r}, nil, Text{Face: testFace(t)}, nil, nil)

	var re *RingError
	if !errors.As(err, &re) || re.Ring != 0 {
		t.Fatalf("err = %v, want RingError for ring 0", err)
	}
	if !errors.Is(err, rings.ErrBehindCamera) {
		t.Errorf("err = %v, want ErrBehindCamera", err)
	}
}

func TestGlowSigma(t *testing.T) {
	if got := GlowSigma(0, 10, 3); got != 3 {
		t.Errorf("GlowSigma floor = %v, want 3", got)
	}
	if a, b := GlowSigma(1, 500, 1), GlowSigma(2, 500, 1); b <= a {
		t.Errorf("GlowSigma not increasing: %v, %v", a, b)
	}
}
