package labels

import (
	"math"
	"testing"
)

func maxOverlap(t *testing.T, labels []Label, res Result, margin float64) float64 {
	t.Helper()
	worst := 0.0
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			if res.Placements[i].Leader || res.Placements[j].Leader {
				continue
			}
			o := Overlap(res.Placements[i], res.Placements[j], labels[i].Width, labels[j].Width, margin)
			worst = math.Max(worst, o)
		}
	}
	return worst
}

func TestPlaceSeparatedUnchanged(t *testing.T) {
	labels := []Label{
		{Text: "A", Width: 0.2, Angle: 0.5},
		{Text: "B", Width: 0.2, Angle: 2.5},
		{Text: "C", Width: 0.2, Angle: -1},
	}
	res := Place(labels, DefaultOptions())
	for i, l := range labels {
		if math.Abs(res.Placements[i].Angle-normalize(l.Angle)) > 1e-12 {
			t.Errorf("label %d moved from %v to %v", i, l.Angle, res.Placements[i].Angle)
		}
	}
	if res.Iterations != 0 || res.Swept || len(res.Demoted) != 0 {
		t.Errorf("Result = %+v, want untouched", res)
	}
}

func TestPlaceResolvesOverlap(t *testing.T) {
	labels := make([]Label, 10)
	for i := range labels {
		labels[i] = Label{Width: 0.4, Angle: 0.01 * float64(i), Priority: float64(i)}
	}
	opt := DefaultOptions()
	res := Place(labels, opt)

	if o := maxOverlap(t, labels, res, opt.Margin); o > 1e-9 {
		t.Errorf("max overlap = %v, want 0", o)
	}
	if len(res.Demoted) != 0 {
		t.Errorf("Demoted = %v, want none", res.Demoted)
	}
}

func TestPlaceSweepWhenRelaxationStalls(t *testing.T) {
	// 14 × (0.42 + 0.02) = 6.16 fits in 2π with little slack.
	labels := make([]Label, 14)
	for i := range labels {
		labels[i] = Label{Width: 0.42, Angle: 0.1 * float64(i%3)}
	}
	opt := Options{Margin: 0.02, MaxIterations: 1, Damping: 0.5}
	res := Place(labels, opt)

	if !res.Swept {
		t.Fatal("expected the sweep phase to run")
	}
	if o := maxOverlap(t, labels, res, opt.Margin); o > 1e-9 {
		t.Errorf("max overlap after sweep = %v, want 0", o)
	}
	if len(res.Demoted) != 0 {
		t.Errorf("Demoted = %v, want none", res.Demoted)
	}
}

func TestPlaceOverflowExactExcess(t *testing.T) {
	labels := make([]Label, 20)
	for i := range labels {
		labels[i] = Label{Width: 0.5, Angle: 1.0, Priority: float64(100 - i)}
	}
	opt := DefaultOptions()
	res := Place(labels, opt)

	// floor(2π / 0.52) = 12 labels fit.
	if len(res.Demoted) != 8 {
		t.Fatalf("len(Demoted) = %d, want 8", len(res.Demoted))
	}
	for k, i := range res.Demoted {
		if i != 12+k {
			t.Errorf("Demoted[%d] = %d, want %d (lowest priority)", k, i, 12+k)
		}
		if !res.Placements[i].Leader {
			t.Errorf("demoted label %d not flagged", i)
		}
	}
	for i := 0; i < 12; i++ {
		if res.Placements[i].Leader {
			t.Errorf("kept label %d flagged as leader", i)
		}
	}
	if o := maxOverlap(t, labels, res, opt.Margin); o > 1e-9 {
		t.Errorf("max overlap among kept labels = %v, want 0", o)
	}
}

func TestPlaceOversizedSingleLabel(t *testing.T) {
	tests := []struct {
		name   string
		labels []Label
		demote []int
	}{
		{"wider than ring", []Label{{Width: 7.5}}, []int{0}},
		{"full circle without margin", []Label{{Width: 2 * math.Pi, Angle: 1}}, []int{0}},
		{"fits", []Label{{Width: 6, Angle: 1}}, nil},
		{"oversized beside small", []Label{{Width: 0.4, Priority: 1}, {Width: 7, Angle: 3}}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := DefaultOptions()
			res := Place(tt.labels, opt)
			if len(res.Demoted) != len(tt.demote) {
				t.Fatalf("Demoted = %v, want %v", res.Demoted, tt.demote)
			}
			for k, i := range tt.demote {
				if res.Demoted[k] != i || !res.Placements[i].Leader {
					t.Errorf("label %d not demoted to a leader: %+v", i, res.Placements[i])
				}
			}
			if got := res.Unresolved(tt.labels, opt.Margin); got != len(tt.demote) {
				t.Errorf("Unresolved = %d, want %d", got, len(tt.demote))
			}
		})
	}
}

func TestResultUnresolved(t *testing.T) {
	labels := []Label{{Width: 1, Angle: 0}, {Width: 1, Angle: 0.5}, {Width: 1, Angle: 3}}
	res := Result{Placements: []Placement{{Angle: 0}, {Angle: 0.5}, {Angle: 3}}}
	if got := res.Unresolved(labels, 0.02); got != 2 {
		t.Errorf("Unresolved = %d, want 2 (one overlapping pair)", got)
	}
	res.Demoted = []int{1}
	res.Placements[1].Leader = true
	if got := res.Unresolved(labels, 0.02); got != 1 {
		t.Errorf("Unresolved with demotion = %d, want 1", got)
	}
}

func TestPlaceBoundsNormalized(t *testing.T) {
	labels := []Label{
		{Width: 0.6, Angle: 0},
		{Width: 0.6, Angle: 0.1},
		{Width: 1.2, Angle: -0.2},
		{Width: 0.3, Angle: 13},
	}
	res := Place(labels, DefaultOptions())
	for i, p := range res.Placements {
		for _, v := range []float64{p.Angle, p.Start, p.End} {
			if v < 0 || v >= 2*math.Pi {
				t.Errorf("label %d bound %v outside [0, 2π)", i, v)
			}
		}
	}
}

func TestPlaceDeterministic(t *testing.T) {
	labels := make([]Label, 9)
	for i := range labels {
		labels[i] = Label{Width: 0.3 + 0.05*float64(i), Angle: 0.2 * float64(i%4), Priority: float64(i % 3)}
	}
	a := Place(labels, DefaultOptions())
	b := Place(labels, DefaultOptions())
	for i := range a.Placements {
		if a.Placements[i] != b.Placements[i] {
			t.Fatalf("placement %d differs", i)
		}
	}
}

func TestPlaceTerminates(t *testing.T) {
	labels := make([]Label, 40)
	for i := range labels {
		labels[i] = Label{Width: 0.3, Angle: 0}
	}
	opt := Options{Margin: 0.01, MaxIterations: 25, Damping: 0.5}
	res := Place(labels, opt)
	if res.Iterations > 2*opt.MaxIterations {
		t.Errorf("Iterations = %d, want <= %d", res.Iterations, 2*opt.MaxIterations)
	}
	if len(res.Demoted) == 0 {
		t.Error("expected overflow for 40 × 0.31 rad")
	}
}

func TestHigherPriorityMovesLess(t *testing.T) {
	labels := []Label{
		{Width: 0.5, Angle: 1.0, Priority: 10},
		{Width: 0.5, Angle: 1.1, Priority: 0},
	}
	res := Place(labels, DefaultOptions())
	moveHigh := math.Abs(signedDiff(res.Placements[0].Angle, 1.0))
	moveLow := math.Abs(signedDiff(res.Placements[1].Angle, 1.1))
	if !(moveHigh < moveLow) {
		t.Errorf("high priority moved %v, low moved %v", moveHigh, moveLow)
	}
}

func TestDefaultPriority(t *testing.T) {
	if DefaultPriority("ORION") <= DefaultPriority("LYRA") {
		t.Error("longer text should rank higher")
	}
	if DefaultPriority("ÅÄÖ") != 3 {
		t.Errorf("DefaultPriority counts bytes, want runes")
	}
}
