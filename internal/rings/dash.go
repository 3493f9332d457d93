package rings

import "math"

// Dash is a ring dash pattern in degrees of arc.
// The array alternates on and off lengths. If it has an odd number of
// elements it is logically duplicated ([5] becomes [5, 5]).
type Dash struct {
	Array []float64
}

// NewDash creates a dash pattern from alternating on/off arc lengths in
// degrees. Negative lengths are taken as absolute values.
//
// Examples:
//
//	NewDash(6, 3)       // 6° on, 3° off
//	NewDash(12, 4, 2, 4) // 12° on, 4° off, 2° on, 4° off
//	NewDash(5)          // equivalent to [5, 5]
//
// Returns nil if no lengths are provided or all lengths are zero, which
// draws a solid ring.
func NewDash(degrees ...float64) *Dash {
	if len(degrees) == 0 {
		return nil
	}

	normalized := make([]float64, len(degrees))
	anyPositive := false
	for i, l := range degrees {
		normalized[i] = math.Abs(l)
		if normalized[i] > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return nil
	}
	return &Dash{Array: normalized}
}

// PatternLength returns the length of one cycle, including the duplicate
// of an odd-length array.
func (d *Dash) PatternLength() float64 {
	if d == nil {
		return 0
	}
	var total float64
	for _, l := range d.Array {
		total += l
	}
	if len(d.Array)%2 != 0 {
		total *= 2
	}
	return total
}

// IsDashed reports whether d describes a dashed, not solid, ring.
func (d *Dash) IsDashed() bool {
	return d != nil && d.PatternLength() > 0
}

// Scale returns d with every length multiplied by factor.
func (d *Dash) Scale(factor float64) *Dash {
	if d == nil || factor <= 0 {
		return d
	}
	out := make([]float64, len(d.Array))
	for i, l := range d.Array {
		out[i] = l * factor
	}
	return &Dash{Array: out}
}

// effectiveArray returns the array with odd-length arrays duplicated.
func (d *Dash) effectiveArray() []float64 {
	if d == nil || len(d.Array) == 0 {
		return nil
	}
	if len(d.Array)%2 == 0 {
		return d.Array
	}
	out := make([]float64, len(d.Array)*2)
	copy(out, d.Array)
	copy(out[len(d.Array):], d.Array)
	return out
}

// Intervals returns the on-intervals [start, end) of the pattern repeated
// over [0, total), in the units of the pattern.
func (d *Dash) Intervals(total float64) [][2]float64 {
	arr := d.effectiveArray()
	if d.PatternLength() <= 0 || total <= 0 {
		return [][2]float64{{0, total}}
	}

	// eps absorbs accumulated rounding so a whole number of cycles does
	// not produce a zero-length trailing dash.
	eps := total * 1e-9
	var out [][2]float64
	pos := 0.0
	for i := 0; pos < total-eps; i++ {
		l := arr[i%len(arr)]
		if i%2 == 0 && l > 0 {
			out = append(out, [2]float64{pos, math.Min(pos+l, total)})
		}
		pos += l
	}
	return out
}
