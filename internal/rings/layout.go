package rings

import (
	"fmt"
	"math"
	"sort"
)

const (
	// maxSegmentPx bounds the projected length of one polyline segment.
	maxSegmentPx = 1.5

	minSamples = 64
	maxSamples = 1 << 16
)

// Params is the geometric description of one ring.
type Params struct {
	R float64
	// Dash lengths in degrees of arc, alternating on/off. Empty is solid.
	Dash []float64
	// TicksEveryDeg is the tick spacing in degrees of arc; 0 disables.
	TicksEveryDeg float64
	// TickLength is the tick length in unit-radius units.
	TickLength float64
}

// Tick is one radial tick mark.
type Tick struct {
	Theta        float64
	Inner, Outer Point
}

// Geometry is the projected layout of one ring.
type Geometry struct {
	R float64
	// Points is the closed polyline; the last point repeats the first.
	Points []Point
	// Thetas holds the chart angle of each point.
	Thetas []float64
	// Cum holds the cumulative arc length at each point.
	Cum       []float64
	Perimeter float64
	Ticks     []Tick
	// Dashes holds one open polyline per drawn dash. A solid ring has a
	// single dash covering the whole perimeter.
	Dashes [][]Point
	Solid  bool
}

// Layout projects a ring and derives its ticks and dashes.
func Layout(s Params, p Projection) (*Geometry, error) {
	estimate, err := perimeter(s.R, p, 256)
	if err != nil {
		return nil, err
	}
	if estimate < 1e-6 {
		return nil, ErrDegenerate
	}

	n := int(math.Ceil(estimate / maxSegmentPx))
	n = max(minSamples, min(maxSamples, n))

	g := &Geometry{
		R:      s.R,
		Points: make([]Point, n+1),
		Thetas: make([]float64, n+1),
		Cum:    make([]float64, n+1),
	}
	for i := 0; i <= n; i++ {
		th := 2 * math.Pi * float64(i) / float64(n)
		pt, _, err := p.ProjectPoint(s.R, th)
		if err != nil {
			return nil, err
		}
		g.Points[i] = pt
		g.Thetas[i] = th
		if i > 0 {
			g.Cum[i] = g.Cum[i-1] + dist(g.Points[i-1], pt)
		}
	}
	g.Points[n] = g.Points[0]
	g.Perimeter = g.Cum[n]

	if s.TicksEveryDeg > 0 {
		if err := g.layoutTicks(s, p); err != nil {
			return nil, err
		}
	}

	dash := NewDash(s.Dash...)
	g.Solid = !dash.IsDashed()
	if g.Solid {
		g.Dashes = [][]Point{g.Points}
	} else {
		// Degrees of arc → arc-length fractions of the projected perimeter.
		for _, iv := range dash.Scale(g.Perimeter / 360).Intervals(g.Perimeter) {
			g.Dashes = append(g.Dashes, g.slice(iv[0], iv[1]))
		}
	}
	return g, nil
}

func (g *Geometry) layoutTicks(s Params, p Projection) error {
	step := g.Perimeter * s.TicksEveryDeg / 360
	if step <= 0 {
		return nil
	}
	count := int(math.Floor(g.Perimeter/step + 1e-9))
	inner := math.Max(0, s.R-0.4*s.TickLength)
	outer := s.R + 0.6*s.TickLength

	for k := 0; k < count; k++ {
		th := g.ThetaAt(float64(k) * step)
		a, _, err := p.ProjectPoint(inner, th)
		if err != nil {
			return fmt.Errorf("tick %d: %w", k, err)
		}
		b, _, err := p.ProjectPoint(outer, th)
		if err != nil {
			return fmt.Errorf("tick %d: %w", k, err)
		}
		g.Ticks = append(g.Ticks, Tick{Theta: th, Inner: a, Outer: b})
	}
	return nil
}

// ThetaAt returns the chart angle at arc length s along the ring.
func (g *Geometry) ThetaAt(s float64) float64 {
	i, t := g.locate(s)
	return g.Thetas[i] + (g.Thetas[i+1]-g.Thetas[i])*t
}

// PointAt returns the polyline position at arc length s.
func (g *Geometry) PointAt(s float64) Point {
	i, t := g.locate(s)
	return lerp(g.Points[i], g.Points[i+1], t)
}

// ArcLengthAt returns the arc length at chart angle theta.
func (g *Geometry) ArcLengthAt(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	n := len(g.Thetas) - 1
	f := theta / (2 * math.Pi) * float64(n)
	i := min(int(f), n-1)
	t := f - float64(i)
	return g.Cum[i] + (g.Cum[i+1]-g.Cum[i])*t
}

// locate returns the segment index and the fraction within it for arc
// length s, wrapped into [0, Perimeter).
func (g *Geometry) locate(s float64) (int, float64) {
	s = math.Mod(s, g.Perimeter)
	if s < 0 {
		s += g.Perimeter
	}
	n := len(g.Cum) - 1
	i := sort.SearchFloat64s(g.Cum, s) - 1
	i = max(0, min(n-1, i))
	seg := g.Cum[i+1] - g.Cum[i]
	if seg <= 0 {
		return i, 0
	}
	return i, (s - g.Cum[i]) / seg
}

// slice returns the polyline between arc lengths a < b.
func (g *Geometry) slice(a, b float64) []Point {
	out := []Point{g.PointAt(a)}
	i := sort.SearchFloat64s(g.Cum, a)
	for ; i < len(g.Cum) && g.Cum[i] < b; i++ {
		if g.Cum[i] > a {
			out = append(out, g.Points[i])
		}
	}
	end := g.PointAt(b)
	if b >= g.Perimeter {
		end = g.Points[len(g.Points)-1]
	}
	return append(out, end)
}

// MeanRadius returns the mean distance in pixels of the polyline from the
// projected chart center.
func (g *Geometry) MeanRadius(p Projection) float64 {
	c, _, err := p.ProjectPoint(0, 0)
	if err != nil {
		return 0
	}
	var sum float64
	for _, pt := range g.Points[:len(g.Points)-1] {
		sum += dist(c, pt)
	}
	return sum / float64(len(g.Points)-1)
}

func perimeter(r float64, p Projection, n int) (float64, error) {
	prev, _, err := p.ProjectPoint(r, 0)
	if err != nil {
		return 0, err
	}
	var total float64
	for i := 1; i <= n; i++ {
		pt, _, err := p.ProjectPoint(r, 2*math.Pi*float64(i)/float64(n))
		if err != nil {
			return 0, err
		}
		total += dist(prev, pt)
		prev = pt
	}
	return total, nil
}

func dist(a, b Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
