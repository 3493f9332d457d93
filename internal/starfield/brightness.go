package starfield

import (
	"math"

	"github.com/gogpu/starchart/internal/rng"
)

type brightness struct {
	value   float64
	outlier bool
}

// PowerLaw maps u ∈ [0,1) through the inverse CDF of P(s) ∝ s^-γ on
// [lo, hi]. The result is clamped to [lo, hi].
func PowerLaw(u, gamma, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	var s float64
	if math.Abs(gamma-1) < 1e-9 {
		s = lo * math.Pow(hi/lo, u)
	} else {
		e := 1 - gamma
		a, b := math.Pow(lo, e), math.Pow(hi, e)
		s = math.Pow(a+u*(b-a), 1/e)
	}
	return clampF(s, lo, hi)
}

// sampleBrightness draws n brightness values and promotes a seeded quota
// of round(OutlierFraction·n) of them to over-white outliers.
func sampleBrightness(p Params, n int, src *rng.Context) []brightness {
	out := make([]brightness, n)
	for i := range out {
		out[i].value = PowerLaw(src.Float64(), p.BrightnessPower, p.BrightnessMin, p.BrightnessMax)
	}
	k := OutlierCount(p.OutlierFraction, n)
	if k == 0 {
		return out
	}
	for _, i := range src.Perm(n)[:k] {
		out[i] = brightness{value: src.Uniform(2, 4) * p.BrightnessMax, outlier: true}
	}
	return out
}

// OutlierCount returns the outlier quota for n stars.
func OutlierCount(fraction float64, n int) int {
	k := int(math.Round(fraction * float64(n)))
	return max(0, min(k, n))
}
