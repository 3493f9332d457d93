package starchart

import (
	"github.com/gogpu/starchart/internal/color"
)

// Color is an sRGB-encoded color with components in [0,1], as authored.
// The renderer converts it to linear light.
type Color [3]float64

// RGB returns a Color from 8-bit sRGB components.
func RGB(r, g, b uint8) Color {
	const f = 1.0 / 255
	return Color{float64(r) * f, float64(g) * f, float64(b) * f}
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string { return color.Hex(c) }

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(s string) (Color, error) {
	c, err := color.ParseHex(s)
	return Color(c), err
}

// MarshalYAML writes the color as a hex string when that is lossless and
// as a three-element list otherwise.
func (c Color) MarshalYAML() (any, error) {
	h := c.Hex()
	if back, err := color.ParseHex(h); err == nil && back == [3]float64(c) {
		return h, nil
	}
	return []float64{c[0], c[1], c[2]}, nil
}

func (c Color) linear() [3]float32 { return color.SRGBToLinearRGB(c) }

// SceneConfig is the complete description of one render.
//
// A SceneConfig is a plain value. Render never modifies it, so one value
// may be rendered concurrently with different options.
type SceneConfig struct {
	Seed       int64       `yaml:"seed" koanf:"seed"`
	Resolution Resolution  `yaml:"resolution" koanf:"resolution"`
	Camera     Camera      `yaml:"camera" koanf:"camera"`
	Rings      []Ring      `yaml:"rings" koanf:"rings"`
	Stars      Stars       `yaml:"stars" koanf:"stars"`
	Text       Text        `yaml:"text" koanf:"text"`
	Post       Post        `yaml:"post" koanf:"post"`
	Labels     []FreeLabel `yaml:"labels,omitempty" koanf:"labels"`
}

// Resolution is the output size in pixels and the supersampling factor.
type Resolution struct {
	Width  int `yaml:"width" koanf:"width"`
	Height int `yaml:"height" koanf:"height"`
	SSAA   int `yaml:"ssaa" koanf:"ssaa"`
}

// Camera tilts the chart plane about the horizontal axis and sets the
// vertical field of view, both in degrees.
type Camera struct {
	TiltDeg float64 `yaml:"tilt_deg" koanf:"tilt_deg"`
	FOVDeg  float64 `yaml:"fov_deg" koanf:"fov_deg"`
}

// Ring is one concentric chart ring.
type Ring struct {
	// R is the radius as a fraction of the chart radius.
	R float64 `yaml:"r" koanf:"r"`
	// Width is the stroke width in output pixels.
	Width float64 `yaml:"width" koanf:"width"`
	Color Color   `yaml:"color" koanf:"color"`
	// Dash alternates on/off lengths in degrees of arc. Empty is solid.
	Dash          []float64 `yaml:"dash,omitempty" koanf:"dash"`
	TicksEveryDeg float64   `yaml:"ticks_every_deg" koanf:"ticks_every_deg"`
	// TickLength is in fractions of the chart radius.
	TickLength float64 `yaml:"tick_length" koanf:"tick_length"`

	// Label is placed first, at LabelAngleDeg, with the highest priority.
	Label         string      `yaml:"label,omitempty" koanf:"label"`
	LabelAngleDeg float64     `yaml:"label_angle_deg" koanf:"label_angle_deg"`
	Labels        []RingLabel `yaml:"labels,omitempty" koanf:"labels"`

	HaloStrength float64 `yaml:"halo_strength" koanf:"halo_strength"`
	// HaloColor defaults to Color.
	HaloColor *Color `yaml:"halo_color,omitempty" koanf:"halo_color"`
}

// RingLabel is an additional label on a ring.
type RingLabel struct {
	Text     string  `yaml:"text" koanf:"text"`
	AngleDeg float64 `yaml:"angle_deg" koanf:"angle_deg"`
	// Priority orders labels for overflow; 0 ranks longer text first.
	Priority float64 `yaml:"priority,omitempty" koanf:"priority"`
}

// FreeLabel is a label on its own circle, not attached to a ring. Free
// labels are drawn as given and never moved.
type FreeLabel struct {
	Text     string  `yaml:"text" koanf:"text"`
	R        float64 `yaml:"r" koanf:"r"`
	AngleDeg float64 `yaml:"angle_deg" koanf:"angle_deg"`
}

// Stars configures the two star populations.
type Stars struct {
	Core StarCore `yaml:"core" koanf:"core"`
	Halo StarHalo `yaml:"halo" koanf:"halo"`

	// BrightnessPower is the power-law exponent of brightness.
	BrightnessPower float64 `yaml:"brightness_power" koanf:"brightness_power"`
	BrightnessMin   float64 `yaml:"brightness_min" koanf:"brightness_min"`
	BrightnessMax   float64 `yaml:"brightness_max" koanf:"brightness_max"`
	// OutlierFraction of stars are pushed well over white.
	OutlierFraction float64 `yaml:"outlier_fraction" koanf:"outlier_fraction"`

	// SizeMin and SizeMax are sprite sigmas in fractions of the chart
	// radius.
	SizeMin float64 `yaml:"size_min" koanf:"size_min"`
	SizeMax float64 `yaml:"size_max" koanf:"size_max"`

	ColorCool Color `yaml:"color_cool" koanf:"color_cool"`
	ColorWarm Color `yaml:"color_warm" koanf:"color_warm"`
}

// StarCore is the centrally concentrated population with surface density
// exp(-(r/Sigma)^Alpha).
type StarCore struct {
	Sigma float64 `yaml:"sigma" koanf:"sigma"`
	Alpha float64 `yaml:"alpha" koanf:"alpha"`
	Count int     `yaml:"count" koanf:"count"`
}

// StarHalo is the blue-noise population between MinR and MaxR.
type StarHalo struct {
	Count int     `yaml:"count" koanf:"count"`
	MinR  float64 `yaml:"min_r" koanf:"min_r"`
	MaxR  float64 `yaml:"max_r" koanf:"max_r"`
	// MinSeparation of 0 derives a separation from the count.
	MinSeparation float64 `yaml:"min_separation" koanf:"min_separation"`
}

// Text is the label style shared by all labels.
type Text struct {
	// Font names a built-in face unless WithFontData is given.
	Font string `yaml:"font" koanf:"font"`
	// SizePx is the font size in output pixels.
	SizePx float64 `yaml:"size_px" koanf:"size_px"`
	// Tracking is extra spacing between characters in output pixels.
	Tracking      float64 `yaml:"tracking" koanf:"tracking"`
	TabularDigits bool    `yaml:"tabular_digits" koanf:"tabular_digits"`
	Uppercase     bool    `yaml:"uppercase" koanf:"uppercase"`
	Color         Color   `yaml:"color" koanf:"color"`
}

// Post configures the post-processing stack.
type Post struct {
	Exposure            float64             `yaml:"exposure" koanf:"exposure"`
	Bloom               Bloom               `yaml:"bloom" koanf:"bloom"`
	Anamorphic          Anamorphic          `yaml:"anamorphic" koanf:"anamorphic"`
	ChromaticAberration ChromaticAberration `yaml:"chromatic_aberration" koanf:"chromatic_aberration"`
	Vignette            float64             `yaml:"vignette" koanf:"vignette"`
	Grain               Grain               `yaml:"grain" koanf:"grain"`
	LUT                 LUT                 `yaml:"lut" koanf:"lut"`
}

// Bloom configures the glow of bright regions.
type Bloom struct {
	Threshold float64 `yaml:"threshold" koanf:"threshold"`
	Intensity float64 `yaml:"intensity" koanf:"intensity"`
	// Radius is the per-level blur radius in output pixels.
	Radius float64 `yaml:"radius" koanf:"radius"`
	Levels int     `yaml:"levels" koanf:"levels"`
}

// Anamorphic adds a horizontal streak to bright regions.
type Anamorphic struct {
	Intensity float64 `yaml:"intensity" koanf:"intensity"`
	// Length is the streak length in output pixels.
	Length float64 `yaml:"length" koanf:"length"`
}

// ChromaticAberration displaces red outward and blue inward by K·r².
type ChromaticAberration struct {
	K float64 `yaml:"k" koanf:"k"`
}

// Grain is film grain in log luminance.
type Grain struct {
	Strength  float64 `yaml:"strength" koanf:"strength"`
	BlueNoise bool    `yaml:"blue_noise" koanf:"blue_noise"`
}

// LUT selects a built-in color grade. An empty name disables grading.
type LUT struct {
	Name     string  `yaml:"name" koanf:"name"`
	Strength float64 `yaml:"strength" koanf:"strength"`
}

// LUTNames returns the built-in grade names.
func LUTNames() []string { return color.GradeNames() }

// Clone returns a deep copy of c.
func (c SceneConfig) Clone() SceneConfig {
	out := c
	out.Rings = make([]Ring, len(c.Rings))
	for i, r := range c.Rings {
		r.Dash = append([]float64(nil), r.Dash...)
		r.Labels = append([]RingLabel(nil), r.Labels...)
		if r.HaloColor != nil {
			hc := *r.HaloColor
			r.HaloColor = &hc
		}
		out.Rings[i] = r
	}
	out.Labels = append([]FreeLabel(nil), c.Labels...)
	if c.Rings == nil {
		out.Rings = nil
	}
	return out
}
