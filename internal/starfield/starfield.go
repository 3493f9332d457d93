// Package starfield synthesizes the stochastic star population of a chart.
//
// Two populations are generated: a dense core whose radial surface density
// follows ρ(r) = e^{-(r/σ)^α}, and a sparse halo spread over an annulus
// with blue-noise spacing. Positions are drawn in unit chart coordinates
// and projected through the camera. Every population draws from its own
// rng substream.
package starfield

import (
	"math"

	"github.com/gogpu/starchart/internal/color"
	"github.com/gogpu/starchart/internal/rng"
)

// Population identifies which distribution produced a star.
type Population uint8

const (
	// Core stars follow the central density profile.
	Core Population = iota
	// Halo stars are blue-noise distributed over an annulus.
	Halo
)

// String returns the population name.
func (p Population) String() string {
	switch p {
	case Core:
		return "core"
	case Halo:
		return "halo"
	default:
		return "unknown"
	}
}

// Star is one generated point source.
type Star struct {
	// X, Y are supersampled pixel coordinates.
	X, Y float64
	// R, Theta are the unit-disc polar coordinates before projection.
	R, Theta float64
	// Sigma is the Gaussian sprite radius in supersampled pixels.
	Sigma float64
	// Brightness is linear HDR intensity; outliers exceed 1.
	Brightness float64
	// Color is linear RGB.
	Color      [3]float32
	Population Population
	Outlier    bool
}

// Params configures one generation.
type Params struct {
	CoreSigma, CoreAlpha float64
	CoreCount            int

	HaloCount          int
	HaloMinR, HaloMaxR float64
	// HaloMinSeparation of 0 selects AutoSeparation.
	HaloMinSeparation float64

	BrightnessPower float64
	BrightnessMin   float64
	BrightnessMax   float64
	OutlierFraction float64

	// SizeMin and SizeMax are fractions of the chart radius.
	SizeMin, SizeMax     float64
	ColorCool, ColorWarm [3]float64
}

// Projector maps unit-disc polar coordinates to supersampled pixels.
type Projector interface {
	// Project returns the pixel position and the perspective magnification
	// (1 at the chart plane's center depth). ok is false for points that do
	// not project to finite pixels.
	Project(r, theta float64) (x, y, magnification float64, ok bool)
	// Scale returns pixels per unit radius at zero tilt.
	Scale() float64
}

// Field is the generator output.
type Field struct {
	Stars []Star
	// Clamps counts non-finite or out-of-range values that were clamped.
	Clamps int
}

// Generate produces exactly CoreCount + HaloCount stars.
func Generate(p Params, proj Projector, src *rng.Context) Field {
	n := p.CoreCount + p.HaloCount
	f := Field{Stars: make([]Star, 0, n)}

	coreRng := src.Derive("stars/core")
	table := newRadiusTable(p.CoreSigma, p.CoreAlpha)
	for range p.CoreCount {
		r := table.sample(coreRng.Float64())
		f.Stars = append(f.Stars, Star{R: r, Theta: coreRng.Angle(), Population: Core})
	}

	for _, pt := range sampleHalo(p, src.Derive("stars/halo")) {
		f.Stars = append(f.Stars, Star{R: pt[0], Theta: pt[1], Population: Halo})
	}

	bright := sampleBrightness(p, n, src.Derive("stars/brightness"))

	ramp := color.NewRamp(p.ColorCool, p.ColorWarm)
	colorRng := src.Derive("stars/color")
	scale := proj.Scale()

	for i := range f.Stars {
		s := &f.Stars[i]
		s.Brightness = bright[i].value
		s.Outlier = bright[i].outlier

		x, y, mag, ok := proj.Project(s.R, s.Theta)
		if !ok {
			f.Clamps++
			x, y, mag = 0, 0, 1
			s.Brightness = 0
		}
		s.X, s.Y = x, y

		w := normalized(s.Brightness, p.BrightnessMin, p.BrightnessMax)
		size := p.SizeMin + (p.SizeMax-p.SizeMin)*math.Sqrt(w)
		if s.Outlier {
			size = 1.5 * p.SizeMax
			w = 1
		}
		s.Sigma = math.Max(0.5, size*scale*clampF(mag, 0.6, 1.6))

		s.Color = ramp.At(w + colorRng.Gaussian(0, 0.08))

		f.Clamps += sanitize(s)
	}
	return f
}

// AutoSeparation returns half the hexagonal packing distance for n points
// over the annulus [minR, maxR].
func AutoSeparation(n int, minR, maxR float64) float64 {
	if n <= 0 || maxR <= minR {
		return 0
	}
	area := math.Pi * (maxR*maxR - minR*minR)
	return 0.5 * math.Sqrt(4*0.9069*area/(math.Pi*float64(n)))
}

func normalized(v, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	return clampF((v-lo)/(hi-lo), 0, 1)
}

func sanitize(s *Star) int {
	n := 0
	fix := func(v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
			n++
		}
	}
	fix(&s.X, 0)
	fix(&s.Y, 0)
	fix(&s.Sigma, 0.5)
	fix(&s.Brightness, 0)
	if s.Brightness < 0 {
		s.Brightness = 0
		n++
	}
	return n
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
