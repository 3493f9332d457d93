package starchart

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/starchart/internal/glyph"
)

const (
	maxSide = 1 << 15
	// maxSupersampledSide bounds width·ssaa and height·ssaa.
	maxSupersampledSide = 1 << 16
	maxOutlierFraction  = 0.05
	// minArcDeg is the smallest dash or tick step in degrees of arc.
	minArcDeg = 0.01
)

// Validate checks every field of the scene against its documented range
// and returns a *ConfigValidationError listing all problems, or nil.
//
// Text.Font must name a built-in face; Render relaxes this when
// WithFontData is given.
func (c SceneConfig) Validate() error {
	return c.validate(false)
}

func (c SceneConfig) validate(customFont bool) error {
	v := &validator{}

	res := c.Resolution
	v.check(res.Width > 0 && res.Width <= maxSide, "resolution.width", "must be in (0, %d]", maxSide)
	v.check(res.Height > 0 && res.Height <= maxSide, "resolution.height", "must be in (0, %d]", maxSide)
	v.check(res.SSAA >= 1, "resolution.ssaa", "must be >= 1")
	if res.SSAA >= 1 && res.Width > 0 && res.Height > 0 {
		v.check(res.SSAA <= maxSupersampledSide/res.Width && res.SSAA <= maxSupersampledSide/res.Height,
			"resolution.ssaa", "supersampled size exceeds %d pixels per side", maxSupersampledSide)
	}

	v.check(finite(c.Camera.TiltDeg) && math.Abs(c.Camera.TiltDeg) < 90, "camera.tilt_deg", "must be in (-90, 90)")
	v.check(c.Camera.FOVDeg > 0 && c.Camera.FOVDeg < 180, "camera.fov_deg", "must be in (0, 180)")

	for i, r := range c.Rings {
		p := fmt.Sprintf("rings[%d].", i)
		v.check(r.R >= 0 && r.R <= 1, p+"r", "must be in [0, 1]")
		v.check(r.Width > 0 && finite(r.Width), p+"width", "must be > 0")
		v.color(r.Color, p+"color")
		for j, d := range r.Dash {
			v.check(d >= minArcDeg && d <= 360, fmt.Sprintf("%sdash[%d]", p, j), "must be in [%g, 360]", minArcDeg)
		}
		v.check(r.TicksEveryDeg == 0 || (r.TicksEveryDeg >= minArcDeg && r.TicksEveryDeg <= 360),
			p+"ticks_every_deg", "must be 0 or in [%g, 360]", minArcDeg)
		v.check(r.TickLength >= 0 && r.TickLength <= 1, p+"tick_length", "must be in [0, 1]")
		v.check(r.HaloStrength >= 0 && finite(r.HaloStrength), p+"halo_strength", "must be >= 0")
		if r.HaloColor != nil {
			v.color(*r.HaloColor, p+"halo_color")
		}
		v.check(finite(r.LabelAngleDeg), p+"label_angle_deg", "must be finite")
		for j, l := range r.Labels {
			lp := fmt.Sprintf("%slabels[%d].", p, j)
			v.check(l.Text != "", lp+"text", "must not be empty")
			v.check(finite(l.AngleDeg), lp+"angle_deg", "must be finite")
			v.check(l.Priority >= 0 && finite(l.Priority), lp+"priority", "must be >= 0")
		}
	}

	for i, l := range c.Labels {
		p := fmt.Sprintf("labels[%d].", i)
		v.check(l.Text != "", p+"text", "must not be empty")
		v.check(l.R > 0 && l.R <= 1.2, p+"r", "must be in (0, 1.2]")
		v.check(finite(l.AngleDeg), p+"angle_deg", "must be finite")
	}

	s := c.Stars
	v.check(s.Core.Sigma > 0 && finite(s.Core.Sigma), "stars.core.sigma", "must be > 0")
	v.check(s.Core.Alpha > 0 && finite(s.Core.Alpha), "stars.core.alpha", "must be > 0")
	v.check(s.Core.Count >= 0, "stars.core.count", "must be >= 0")
	v.check(s.Halo.Count >= 0, "stars.halo.count", "must be >= 0")
	v.check(s.Halo.MinR >= 0 && s.Halo.MinR <= 1, "stars.halo.min_r", "must be in [0, 1]")
	v.check(s.Halo.MaxR >= 0 && s.Halo.MaxR <= 1, "stars.halo.max_r", "must be in [0, 1]")
	v.check(s.Halo.MaxR > s.Halo.MinR, "stars.halo.max_r", "must be greater than min_r")
	v.check(s.Halo.MinSeparation >= 0, "stars.halo.min_separation", "must be >= 0")
	v.check(s.BrightnessPower > 0 && finite(s.BrightnessPower), "stars.brightness_power", "must be > 0")
	v.check(s.BrightnessMin > 0, "stars.brightness_min", "must be > 0")
	v.check(s.BrightnessMax >= s.BrightnessMin && finite(s.BrightnessMax), "stars.brightness_max", "must be >= brightness_min")
	v.check(s.OutlierFraction >= 0 && s.OutlierFraction <= maxOutlierFraction, "stars.outlier_fraction", "must be in [0, %g]", maxOutlierFraction)
	v.check(s.SizeMin > 0, "stars.size_min", "must be > 0")
	v.check(s.SizeMax >= s.SizeMin && s.SizeMax <= 0.1, "stars.size_max", "must be in [size_min, 0.1]")
	v.color(s.ColorCool, "stars.color_cool")
	v.color(s.ColorWarm, "stars.color_warm")

	t := c.Text
	v.check(customFont || glyph.IsBuiltin(t.Font), "text.font", "unknown font %q (built-in: %v)", t.Font, glyph.BuiltinNames())
	v.check(t.SizePx > 0 && finite(t.SizePx), "text.size_px", "must be > 0")
	v.check(t.Tracking >= 0 && finite(t.Tracking), "text.tracking", "must be >= 0")
	v.color(t.Color, "text.color")

	p := c.Post
	v.check(p.Exposure > 0 && finite(p.Exposure), "post.exposure", "must be > 0")
	v.check(p.Bloom.Threshold >= 0 && finite(p.Bloom.Threshold), "post.bloom.threshold", "must be >= 0")
	v.check(p.Bloom.Intensity >= 0 && finite(p.Bloom.Intensity), "post.bloom.intensity", "must be >= 0")
	v.check(p.Bloom.Radius >= 0 && finite(p.Bloom.Radius), "post.bloom.radius", "must be >= 0")
	v.check(p.Bloom.Levels >= 4 && p.Bloom.Levels <= 6, "post.bloom.levels", "must be in [4, 6]")
	v.check(p.Anamorphic.Intensity >= 0 && finite(p.Anamorphic.Intensity), "post.anamorphic.intensity", "must be >= 0")
	v.check(p.Anamorphic.Length >= 0 && finite(p.Anamorphic.Length), "post.anamorphic.length", "must be >= 0")
	v.check(p.ChromaticAberration.K >= 0 && finite(p.ChromaticAberration.K), "post.chromatic_aberration.k", "must be >= 0")
	v.check(p.Vignette >= 0 && p.Vignette <= 1, "post.vignette", "must be in [0, 1]")
	v.check(p.Grain.Strength >= 0 && finite(p.Grain.Strength), "post.grain.strength", "must be >= 0")
	v.check(p.LUT.Name == "" || slices.Contains(LUTNames(), p.LUT.Name), "post.lut.name", "unknown grade %q (built-in: %v)", p.LUT.Name, LUTNames())
	v.check(p.LUT.Strength >= 0 && p.LUT.Strength <= 1, "post.lut.strength", "must be in [0, 1]")

	return v.err()
}

type validator struct {
	issues []FieldIssue
}

func (v *validator) check(ok bool, field, format string, args ...any) {
	if !ok {
		v.issues = append(v.issues, FieldIssue{Field: field, Reason: fmt.Sprintf(format, args...)})
	}
}

func (v *validator) color(c Color, field string) {
	for _, ch := range c {
		if !(ch >= 0 && ch <= 1) {
			v.check(false, field, "components must be in [0, 1]")
			return
		}
	}
}

func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return &ConfigValidationError{Issues: v.issues}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
