package rng

import (
	"math"
	"testing"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(12345)
	b := New(12345)

	for i := 0; i < 1000; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("draw %d: %v != %v", i, va, vb)
		}
	}
	if a.Gaussian(0, 1) != b.Gaussian(0, 1) {
		t.Error("Gaussian draws differ for identical streams")
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)

	same := 0
	for i := 0; i < 64; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same > 2 {
		t.Errorf("%d of 64 draws identical across seeds", same)
	}
}

func TestDeriveIndependentOfParentConsumption(t *testing.T) {
	fresh := New(99).Derive("stars/core")

	used := New(99)
	for i := 0; i < 500; i++ {
		used.Float64()
	}
	late := used.Derive("stars/core")

	for i := 0; i < 100; i++ {
		if fresh.Float64() != late.Float64() {
			t.Fatalf("draw %d differs after parent consumption", i)
		}
	}
}

func TestDeriveIndependentOfOrder(t *testing.T) {
	m1 := New(7)
	a1 := m1.Derive("a")
	b1 := m1.Derive("b")

	m2 := New(7)
	b2 := m2.Derive("b")
	a2 := m2.Derive("a")

	for i := 0; i < 50; i++ {
		if a1.Float64() != a2.Float64() || b1.Float64() != b2.Float64() {
			t.Fatalf("draw %d depends on derivation order", i)
		}
	}
}

func TestDeriveDistinctIDs(t *testing.T) {
	m := New(7)
	a := m.Derive("stars/core")
	b := m.Derive("stars/halo")
	if a.Float64() == b.Float64() && a.Float64() == b.Float64() {
		t.Error("distinct ids produced identical streams")
	}
	if a.Seed() != 7 || b.Seed() != 7 {
		t.Errorf("Seed() = %d, %d, want 7", a.Seed(), b.Seed())
	}
}

func TestUniformRange(t *testing.T) {
	c := New(3)
	for i := 0; i < 10000; i++ {
		v := c.Uniform(-2, 5)
		if v < -2 || v >= 5 {
			t.Fatalf("Uniform(-2, 5) = %v out of range", v)
		}
		a := c.Angle()
		if a < 0 || a >= 2*math.Pi {
			t.Fatalf("Angle() = %v out of range", a)
		}
	}
}

func TestGaussianMoments(t *testing.T) {
	c := New(11)
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := c.Gaussian(2, 0.5)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)

	if math.Abs(mean-2) > 0.02 {
		t.Errorf("mean = %v, want ~2", mean)
	}
	if math.Abs(std-0.5) > 0.02 {
		t.Errorf("std = %v, want ~0.5", std)
	}
}

func TestReject(t *testing.T) {
	c := New(5)

	v, ok := Reject(c, func(c *Context) float64 { return c.Float64() }, func(x float64) float64 {
		if x < 0.5 {
			return 1
		}
		return 0
	}, 100)
	if !ok || v >= 0.5 {
		t.Errorf("Reject = (%v, %v), want accepted value < 0.5", v, ok)
	}

	_, ok = Reject(c, func(c *Context) float64 { return c.Float64() }, func(float64) float64 { return 0 }, 10)
	if ok {
		t.Error("Reject accepted with zero acceptance probability")
	}
}

func TestPermIsPermutation(t *testing.T) {
	p := New(8).Perm(50)
	seen := make([]bool, 50)
	for _, v := range p {
		if seen[v] {
			t.Fatalf("duplicate %d in permutation", v)
		}
		seen[v] = true
	}
}
