package color

import (
	"math"
	"slices"
)

// GradeSize is the edge length of the built-in grading tables.
const GradeSize = 17

// Grade is a 3D color lookup table over display-linear RGB in [0,1].
type Grade struct {
	Name string
	size int
	data []float32 // r fastest, then g, then b
}

type gradeFunc func(r, g, b float64) (float64, float64, float64)

var grades = map[string]gradeFunc{
	"neutral": func(r, g, b float64) (float64, float64, float64) { return r, g, b },

	// Cool shadows, warm highlights.
	"teal_orange": func(r, g, b float64) (float64, float64, float64) {
		l := 0.2126*r + 0.7152*g + 0.0722*b
		s := smoothstep(0.15, 0.85, l)
		return mix(r*0.92, r*1.08+0.02, s),
			mix(g*1.02+0.01, g*0.98, s),
			mix(b*1.1+0.03, b*0.86, s)
	},

	"warm": func(r, g, b float64) (float64, float64, float64) {
		return r*1.06 + 0.01, g*1.01 + 0.005, b * 0.9
	},

	"cool": func(r, g, b float64) (float64, float64, float64) {
		return r * 0.9, g*1.0 + 0.005, b*1.08 + 0.015
	},

	// Desaturated, higher contrast.
	"bleach": func(r, g, b float64) (float64, float64, float64) {
		l := 0.2126*r + 0.7152*g + 0.0722*b
		c := func(v float64) float64 { return smoothstep(0, 1, mix(v, l, 0.55)) }
		return c(r), c(g), c(b)
	},
}

// GradeNames returns the names of the built-in grading tables, sorted.
func GradeNames() []string {
	names := make([]string, 0, len(grades))
	for n := range grades {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// LookupGrade builds the named table. It reports false for unknown names.
func LookupGrade(name string) (*Grade, bool) {
	fn, ok := grades[name]
	if !ok {
		return nil, false
	}

	n := GradeSize
	g := &Grade{Name: name, size: n, data: make([]float32, n*n*n*3)}
	inv := 1 / float64(n-1)
	for bi := 0; bi < n; bi++ {
		for gi := 0; gi < n; gi++ {
			for ri := 0; ri < n; ri++ {
				r, gg, b := fn(float64(ri)*inv, float64(gi)*inv, float64(bi)*inv)
				o := ((bi*n+gi)*n + ri) * 3
				g.data[o] = float32(clamp01(r))
				g.data[o+1] = float32(clamp01(gg))
				g.data[o+2] = float32(clamp01(b))
			}
		}
	}
	return g, true
}

// Apply maps an RGB triplet through the table with trilinear
// interpolation. Inputs are clamped to [0,1].
func (g *Grade) Apply(r, gr, b float32) (float32, float32, float32) {
	n := g.size
	scale := float32(n - 1)
	fr, fg, fb := clampF(r)*scale, clampF(gr)*scale, clampF(b)*scale

	r0, g0, b0 := min(int(fr), n-2), min(int(fg), n-2), min(int(fb), n-2)
	tr, tg, tb := fr-float32(r0), fg-float32(g0), fb-float32(b0)

	var out [3]float32
	for c := 0; c < 3; c++ {
		at := func(ri, gi, bi int) float32 {
			return g.data[((bi*n+gi)*n+ri)*3+c]
		}
		c00 := lerp(at(r0, g0, b0), at(r0+1, g0, b0), tr)
		c10 := lerp(at(r0, g0+1, b0), at(r0+1, g0+1, b0), tr)
		c01 := lerp(at(r0, g0, b0+1), at(r0+1, g0, b0+1), tr)
		c11 := lerp(at(r0, g0+1, b0+1), at(r0+1, g0+1, b0+1), tr)
		out[c] = lerp(lerp(c00, c10, tg), lerp(c01, c11, tg), tb)
	}
	return out[0], out[1], out[2]
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func mix(a, b, t float64) float64 { return a + (b-a)*t }

func smoothstep(e0, e1, x float64) float64 {
	t := math.Max(0, math.Min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}

func clampF(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
