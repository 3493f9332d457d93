package starfield

import (
	"math"
	"sort"
)

const radiusBins = 4096

// CoreDensity is the core surface density e^{-(r/σ)^α}, normalized to 1
// at the center.
func CoreDensity(r, sigma, alpha float64) float64 {
	return math.Exp(-math.Pow(r/sigma, alpha))
}

// radiusTable inverts the radial CDF of p(r) ∝ r·ρ(r) on [0, 1].
type radiusTable struct {
	cdf []float64 // radiusBins+1 entries, cdf[0] = 0, cdf[last] = 1
}

func newRadiusTable(sigma, alpha float64) radiusTable {
	cdf := make([]float64, radiusBins+1)
	dr := 1.0 / radiusBins
	prev := 0.0
	for i := 1; i <= radiusBins; i++ {
		r := float64(i) * dr
		cur := r * CoreDensity(r, sigma, alpha)
		cdf[i] = cdf[i-1] + 0.5*(prev+cur)*dr
		prev = cur
	}
	total := cdf[radiusBins]
	if !(total > 0) {
		// Degenerate profile: fall back to area-uniform radii.
		for i := range cdf {
			r := float64(i) * dr
			cdf[i] = r * r
		}
		return radiusTable{cdf: cdf}
	}
	for i := range cdf {
		cdf[i] /= total
	}
	return radiusTable{cdf: cdf}
}

// sample maps u ∈ [0,1) to a radius with linear interpolation inside the
// selected bin.
func (t radiusTable) sample(u float64) float64 {
	i := sort.SearchFloat64s(t.cdf, u)
	switch {
	case i <= 0:
		return 0
	case i > radiusBins:
		return 1
	}
	lo, hi := t.cdf[i-1], t.cdf[i]
	frac := 0.0
	if hi > lo {
		frac = (u - lo) / (hi - lo)
	}
	return (float64(i-1) + frac) / radiusBins
}
