package starchart

import (
	"fmt"
	"image"
)

// MeanAbsDiff returns the mean absolute per-channel difference of the RGB
// channels of a and b, normalized to [0, 1]. Both images must have the
// same size.
func MeanAbsDiff(a, b image.Image) (float64, error) {
	ra, rb := a.Bounds(), b.Bounds()
	if ra.Dx() != rb.Dx() || ra.Dy() != rb.Dy() {
		return 0, fmt.Errorf("starchart: image sizes differ: %dx%d vs %dx%d", ra.Dx(), ra.Dy(), rb.Dx(), rb.Dy())
	}
	n := ra.Dx() * ra.Dy()
	if n == 0 {
		return 0, nil
	}

	var sum uint64
	for y := 0; y < ra.Dy(); y++ {
		for x := 0; x < ra.Dx(); x++ {
			r1, g1, b1, _ := a.At(ra.Min.X+x, ra.Min.Y+y).RGBA()
			r2, g2, b2, _ := b.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			sum += absDiff(r1, r2) + absDiff(g1, g2) + absDiff(b1, b2)
		}
	}
	return float64(sum) / (3 * 0xffff * float64(n)), nil
}

func absDiff(a, b uint32) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}
