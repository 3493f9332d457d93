// Package labels resolves angular overlap between the labels of one ring.
//
// Placement runs in up to three phases. If the widths plus margins exceed
// the full circle, the lowest-priority labels are demoted to leader lines
// on an auxiliary arc. A damped pairwise relaxation then pushes the kept
// labels apart, and if overlap remains a circular sweep packs them with
// exact spacing.
package labels

import (
	"math"
	"sort"
)

const (
	twoPi = 2 * math.Pi
	eps   = 1e-9
)

// Label is one label to place on a ring.
type Label struct {
	Text string
	// Width is the angular width in radians.
	Width float64
	// Angle is the requested center angle in radians.
	Angle float64
	// Priority orders labels; higher values move less and are demoted last.
	Priority float64
}

// Placement is the resolved state of one label.
type Placement struct {
	// Angle is the resolved center angle in [0, 2π).
	Angle float64
	// Start and End bound the label's arc, both normalized to [0, 2π).
	// Start > End when the arc wraps through 0.
	Start, End float64
	// Leader marks a label demoted to the auxiliary arc.
	Leader bool
	// AuxAngle is the angle on the auxiliary arc; the connector runs from
	// there back to the original position.
	AuxAngle float64
}

// Options tunes the placer.
type Options struct {
	// Margin is the minimum gap between neighbouring labels in radians.
	Margin float64
	// MaxIterations bounds the relaxation phase.
	MaxIterations int
	// Damping scales each relaxation step, in (0, 1].
	Damping float64
}

// DefaultOptions returns the placer defaults.
func DefaultOptions() Options {
	return Options{Margin: 0.02, MaxIterations: 200, Damping: 0.5}
}

// Result is the outcome for one ring.
type Result struct {
	// Placements is indexed like the input labels.
	Placements []Placement
	// Demoted lists the indices of labels moved to leader lines.
	Demoted    []int
	Iterations int
	Swept      bool
}

// DefaultPriority ranks labels without an explicit priority: longer text
// first.
func DefaultPriority(text string) float64 {
	return float64(len([]rune(text)))
}

// Place resolves one ring's labels.
func Place(labels []Label, opt Options) Result {
	if opt.MaxIterations <= 0 {
		opt.MaxIterations = DefaultOptions().MaxIterations
	}
	if opt.Damping <= 0 || opt.Damping > 1 {
		opt.Damping = DefaultOptions().Damping
	}

	res := Result{Placements: make([]Placement, len(labels))}
	angles := make([]float64, len(labels))
	for i, l := range labels {
		angles[i] = normalize(l.Angle)
	}

	active := make([]int, len(labels))
	for i := range active {
		active[i] = i
	}

	// A set that cannot fit overlaps however it is relaxed, and a single
	// label wider than the ring never reports a pairwise overlap.
	if !fits(labels, active, opt.Margin) {
		active, res.Demoted = demote(labels, active, opt.Margin)
	}
	res.Iterations = relax(labels, active, angles, opt)
	if hasOverlap(labels, active, angles, opt.Margin) {
		sweep(labels, active, angles, opt.Margin)
		res.Swept = true
	}

	for i, l := range labels {
		a := normalize(angles[i])
		res.Placements[i] = Placement{
			Angle: a,
			Start: normalize(a - l.Width/2),
			End:   normalize(a + l.Width/2),
		}
	}
	for _, i := range res.Demoted {
		a := normalize(labels[i].Angle)
		res.Placements[i] = Placement{
			Angle:    a,
			Start:    normalize(a - labels[i].Width/2),
			End:      normalize(a + labels[i].Width/2),
			Leader:   true,
			AuxAngle: a,
		}
	}
	return res
}

// relax runs damped pairwise repulsion over the active labels and returns
// the number of iterations used.
func relax(labels []Label, active []int, angles []float64, opt Options) int {
	if len(active) < 2 {
		return 0
	}
	disp := make([]float64, len(labels))
	for iter := 1; iter <= opt.MaxIterations; iter++ {
		clear(disp)
		overlapping := false
		for a := 0; a < len(active); a++ {
			i := active[a]
			for b := a + 1; b < len(active); b++ {
				j := active[b]
				delta := signedDiff(angles[j], angles[i])
				need := required(labels[i], labels[j], opt.Margin)
				gap := need - math.Abs(delta)
				if gap <= eps {
					continue
				}
				overlapping = true
				dir := 1.0
				if delta < 0 {
					dir = -1
				}
				mi, mj := mobility(labels[i]), mobility(labels[j])
				disp[i] -= dir * gap * mi / (mi + mj)
				disp[j] += dir * gap * mj / (mi + mj)
			}
		}
		if !overlapping {
			return iter - 1
		}
		for _, i := range active {
			angles[i] = normalize(angles[i] + opt.Damping*disp[i])
		}
	}
	return opt.MaxIterations
}

// sweep packs the active labels in angular order with a forward pass
// (each label at least one gap after its predecessor) and a backward pass
// (each label at least one gap before its successor, wrapping to the
// first label + 2π). When the gaps sum to at most 2π no pair overlaps.
func sweep(labels []Label, active []int, angles []float64, margin float64) {
	n := len(active)
	if n < 2 {
		return
	}
	order := append([]int(nil), active...)
	sort.SliceStable(order, func(a, b int) bool {
		return normalize(angles[order[a]]) < normalize(angles[order[b]])
	})

	gap := func(k int) float64 {
		return required(labels[order[k]], labels[order[(k+1)%n]], margin)
	}

	p := make([]float64, n+1)
	p[0] = normalize(angles[order[0]])
	for k := 1; k < n; k++ {
		p[k] = math.Max(normalize(angles[order[k]]), p[k-1]+gap(k-1))
	}
	p[n] = p[0] + twoPi
	for k := n - 1; k >= 1; k-- {
		p[k] = math.Min(p[k], p[k+1]-gap(k))
	}
	for k := 0; k < n; k++ {
		angles[order[k]] = normalize(p[k])
	}
}

// demote keeps labels in priority order while their widths plus margins
// fit in 2π and returns the kept and demoted indices.
func demote(labels []Label, active []int, margin float64) (kept, demoted []int) {
	order := append([]int(nil), active...)
	sort.SliceStable(order, func(a, b int) bool {
		return labels[order[a]].Priority > labels[order[b]].Priority
	})

	used := 0.0
	full := false
	for _, i := range order {
		need := labels[i].Width + margin
		if !full && used+need <= twoPi+eps {
			used += need
			kept = append(kept, i)
			continue
		}
		full = true
		demoted = append(demoted, i)
	}
	sort.Ints(kept)
	sort.Ints(demoted)
	return kept, demoted
}

func fits(labels []Label, active []int, margin float64) bool {
	total := 0.0
	for _, i := range active {
		total += labels[i].Width + margin
	}
	return total <= twoPi+eps
}

func hasOverlap(labels []Label, active []int, angles []float64, margin float64) bool {
	for a := 0; a < len(active); a++ {
		for b := a + 1; b < len(active); b++ {
			i, j := active[a], active[b]
			if required(labels[i], labels[j], margin)-math.Abs(signedDiff(angles[j], angles[i])) > eps {
				return true
			}
		}
	}
	return false
}

// Unresolved counts the labels of res that were demoted or still overlap
// another kept label.
func (res Result) Unresolved(labels []Label, margin float64) int {
	n := len(res.Demoted)
	for i := range labels {
		if res.Placements[i].Leader {
			continue
		}
		for j := range labels {
			if j == i || res.Placements[j].Leader {
				continue
			}
			if Overlap(res.Placements[i], res.Placements[j], labels[i].Width, labels[j].Width, margin) > eps {
				n++
				break
			}
		}
	}
	return n
}

// Overlap returns the angular overlap of two placed labels given the
// margin; 0 means they are separated.
func Overlap(a, b Placement, wa, wb, margin float64) float64 {
	need := (wa+wb)/2 + margin
	return math.Max(0, need-math.Abs(signedDiff(b.Angle, a.Angle)))
}

func required(a, b Label, margin float64) float64 {
	return (a.Width+b.Width)/2 + margin
}

// mobility is the share of a push a label absorbs; higher priority moves
// less.
func mobility(l Label) float64 {
	return 1 / (1 + math.Max(0, l.Priority))
}

// signedDiff returns a−b wrapped into (−π, π].
func signedDiff(a, b float64) float64 {
	d := math.Mod(a-b, twoPi)
	if d > math.Pi {
		d -= twoPi
	} else if d <= -math.Pi {
		d += twoPi
	}
	return d
}

// normalize wraps an angle into [0, 2π).
func normalize(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}
