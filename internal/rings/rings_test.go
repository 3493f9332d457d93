package rings

import (
	"errors"
	"math"
	"testing"
)

func TestProjectionZeroTilt(t *testing.T) {
	p := NewProjection(1000, 800, 0, 40)

	if math.Abs(p.BaseRadius-368) > 1e-9 {
		t.Errorf("BaseRadius = %v, want 368", p.BaseRadius)
	}
	pt, mag, err := p.ProjectPoint(1, 0)
	if err != nil {
		t.Fatalf("ProjectPoint: %v", err)
	}
	if math.Abs(pt.X-(500+368)) > 1e-6 || math.Abs(pt.Y-400) > 1e-6 {
		t.Errorf("ProjectPoint(1, 0) = %+v, want (868, 400)", pt)
	}
	if math.Abs(mag-1) > 1e-12 {
		t.Errorf("magnification = %v, want 1", mag)
	}

	c, _, _ := p.ProjectPoint(0, 1.3)
	if c.X != 500 || c.Y != 400 {
		t.Errorf("center = %+v, want (500, 400)", c)
	}
}

func TestProjectionTiltForeshortens(t *testing.T) {
	p := NewProjection(512, 512, 55, 35)

	side, _, err := p.ProjectPoint(0.8, 0)
	if err != nil {
		t.Fatal(err)
	}
	near, magNear, _ := p.ProjectPoint(0.8, -math.Pi/2)
	far, magFar, _ := p.ProjectPoint(0.8, math.Pi/2)

	rx := side.X - p.CenterX
	ry := (far.Y - near.Y) / 2
	if !(ry < rx) {
		t.Errorf("tilted ring not foreshortened: rx=%v ry=%v", rx, ry)
	}
	if !(magNear > 1 && magFar < 1) {
		t.Errorf("magnification near=%v far=%v, want >1 and <1", magNear, magFar)
	}
}

func TestProjectionBehindCamera(t *testing.T) {
	// A very wide lens enlarges the chart in world units until the
	// near edge crosses the camera plane at steep tilt.
	p := NewProjection(512, 512, 89, 170)
	_, _, err := p.ProjectPoint(1, -math.Pi/2)
	if !errors.Is(err, ErrBehindCamera) {
		t.Fatalf("err = %v, want ErrBehindCamera", err)
	}
	if _, _, _, ok := p.Project(1, -math.Pi/2); ok {
		t.Error("Project reported ok for a point behind the camera")
	}

	if _, err := Layout(Params{R: 1}, p); !errors.Is(err, ErrBehindCamera) {
		t.Errorf("Layout err = %v, want ErrBehindCamera", err)
	}
}

func TestProjectionNonFinite(t *testing.T) {
	p := NewProjection(256, 256, 0, 40)
	if _, _, err := p.ProjectPoint(math.NaN(), 0); !errors.Is(err, ErrNonFinite) {
		t.Errorf("err = %v, want ErrNonFinite", err)
	}
}

func TestLayoutDegenerate(t *testing.T) {
	p := NewProjection(256, 256, 0, 40)
	if _, err := Layout(Params{R: 0}, p); !errors.Is(err, ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
}

func TestLayoutCircle(t *testing.T) {
	p := NewProjection(1024, 1024, 0, 40)
	g, err := Layout(Params{R: 0.5}, p)
	if err != nil {
		t.Fatal(err)
	}

	want := 2 * math.Pi * 0.5 * p.BaseRadius
	if math.Abs(g.Perimeter-want)/want > 1e-3 {
		t.Errorf("Perimeter = %v, want ~%v", g.Perimeter, want)
	}
	for i := 1; i < len(g.Points); i++ {
		if d := dist(g.Points[i-1], g.Points[i]); d > 2 {
			t.Fatalf("segment %d is %v px, want <= 2", i, d)
		}
	}
	if g.Points[0] != g.Points[len(g.Points)-1] {
		t.Error("polyline not closed")
	}
	if !g.Solid || len(g.Dashes) != 1 {
		t.Errorf("solid ring: Solid=%v, dashes=%d", g.Solid, len(g.Dashes))
	}
	if r := g.MeanRadius(p); math.Abs(r-0.5*p.BaseRadius) > 0.5 {
		t.Errorf("MeanRadius = %v, want ~%v", r, 0.5*p.BaseRadius)
	}
}

func TestLayoutTicksArcUniform(t *testing.T) {
	p := NewProjection(800, 800, 50, 35)
	g, err := Layout(Params{R: 0.7, TicksEveryDeg: 30, TickLength: 0.05}, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Ticks) != 12 {
		t.Fatalf("len(Ticks) = %d, want 12", len(g.Ticks))
	}

	step := g.Perimeter / 12
	for k, tk := range g.Ticks {
		s := g.ArcLengthAt(tk.Theta)
		if math.Abs(s-float64(k)*step) > 0.5 {
			t.Errorf("tick %d at arc length %v, want %v", k, s, float64(k)*step)
		}
		mid := g.PointAt(float64(k) * step)
		c, _, _ := p.ProjectPoint(0, 0)
		if !(dist(c, tk.Inner) < dist(c, mid) && dist(c, mid) < dist(c, tk.Outer)) {
			t.Errorf("tick %d does not straddle the ring", k)
		}
	}
}

func TestLayoutDashes(t *testing.T) {
	p := NewProjection(600, 600, 0, 40)
	g, err := Layout(Params{R: 0.6, Dash: []float64{10, 20}}, p)
	if err != nil {
		t.Fatal(err)
	}
	if g.Solid {
		t.Fatal("dashed ring reported solid")
	}
	if len(g.Dashes) != 12 {
		t.Fatalf("len(Dashes) = %d, want 12", len(g.Dashes))
	}

	var on float64
	for _, d := range g.Dashes {
		for i := 1; i < len(d); i++ {
			on += dist(d[i-1], d[i])
		}
	}
	if math.Abs(on/g.Perimeter-1.0/3) > 0.01 {
		t.Errorf("dash coverage = %v, want ~1/3", on/g.Perimeter)
	}
}

func TestDashOddDuplicated(t *testing.T) {
	d := NewDash(5)
	if d.PatternLength() != 10 {
		t.Errorf("PatternLength() = %v, want 10", d.PatternLength())
	}
	iv := d.Intervals(30)
	want := [][2]float64{{0, 5}, {10, 15}, {20, 25}}
	if len(iv) != len(want) {
		t.Fatalf("Intervals = %v, want %v", iv, want)
	}
	for i := range want {
		if iv[i] != want[i] {
			t.Errorf("Intervals[%d] = %v, want %v", i, iv[i], want[i])
		}
	}

	tri := NewDash(4, 2, 1)
	if got := tri.effectiveArray(); len(got) != 6 {
		t.Errorf("effectiveArray len = %d, want 6", len(got))
	}
}

func TestNewDashSolid(t *testing.T) {
	tests := [][]float64{nil, {}, {0}, {0, 0}}
	for _, tt := range tests {
		if d := NewDash(tt...); d.IsDashed() {
			t.Errorf("NewDash(%v).IsDashed() = true, want false", tt)
		}
	}
	if d := NewDash(-3, 2); !d.IsDashed() || d.Array[0] != 3 {
		t.Errorf("NewDash(-3, 2) = %+v", d)
	}
}
