// Package color provides the color math of the render pipeline: sRGB
// transfer functions, the star color ramp and 3D grading tables.
//
// Scene colors are authored in sRGB and converted to linear light once;
// every buffer in the pipeline is linear. The 8-bit encoder converts back
// through a 4096-entry table, replacing a math.Pow per channel with a
// lookup.
//
// References:
//   - sRGB specification: https://www.w3.org/Graphics/Color/sRGB
package color

import "math"

// linearToSRGBLUT converts linear [0,1] → sRGB byte with 12-bit input
// precision, which is sufficient for 8-bit output.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := 0; i < 4096; i++ {
		s := LinearToSRGB(float64(i) / 4095.0)
		//nolint:gosec // G115: clamped to [0,255] by quantize
		linearToSRGBLUT[i] = uint8(quantize(s, 255))
	}
}

// SRGBToLinear decodes one sRGB channel in [0,1].
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes one linear channel in [0,1].
func LinearToSRGB(l float64) float64 {
	l = clamp01(l)
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// SRGBToLinearRGB decodes an sRGB triplet.
func SRGBToLinearRGB(c [3]float64) [3]float32 {
	return [3]float32{
		float32(SRGBToLinear(c[0])),
		float32(SRGBToLinear(c[1])),
		float32(SRGBToLinear(c[2])),
	}
}

// LinearToSRGB8 converts a linear value to an sRGB byte using the lookup
// table. Input is clamped to [0,1].
//
// Example:
//
//	s := LinearToSRGB8(0.5) // 188 (not 128!)
func LinearToSRGB8(l float32) uint8 {
	if !(l > 0) {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return linearToSRGBLUT[int(l*4095.0+0.5)]
}

// Linear16 quantizes a linear value to 16 bits without a transfer curve.
func Linear16(l float32) uint16 {
	//nolint:gosec // G115: clamped to [0,65535] by quantize
	return uint16(quantize(float64(l), 65535))
}

func quantize(v float64, scale float64) int {
	if !(v > 0) {
		return 0
	}
	q := int(v*scale + 0.5)
	if q > int(scale) {
		return int(scale)
	}
	return q
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
