package glyph

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestFace(t *testing.T, data []byte, size float64) *Face {
	t.Helper()
	f, err := NewFace(data, size)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	return f
}

func TestNewFaceErrors(t *testing.T) {
	if _, err := NewFace(nil, 12); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("err = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewFace(goregular.TTF, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
	if _, err := NewFace([]byte("not a font"), 12); err == nil {
		t.Error("NewFace accepted garbage data")
	}
}

func TestBuiltin(t *testing.T) {
	for _, name := range BuiltinNames() {
		data, err := Builtin(name)
		if err != nil || len(data) == 0 {
			t.Errorf("Builtin(%q) = %d bytes, %v", name, len(data), err)
		}
	}
	_, err := Builtin("comic")
	var uf *UnknownFontError
	if !errors.As(err, &uf) || uf.Name != "comic" {
		t.Errorf("Builtin(comic) err = %v, want UnknownFontError", err)
	}
	if IsBuiltin("comic") || !IsBuiltin("goregular") {
		t.Error("IsBuiltin mismatch")
	}
}

func TestLayoutWidthScalesWithSize(t *testing.T) {
	small := newTestFace(t, goregular.TTF, 12)
	large := newTestFace(t, goregular.TTF, 24)

	ws := small.Width("ORION", Style{})
	wl := large.Width("ORION", Style{})
	if ws <= 0 {
		t.Fatalf("width = %v, want > 0", ws)
	}
	if math.Abs(wl/ws-2) > 0.1 {
		t.Errorf("width ratio = %v, want ~2", wl/ws)
	}
}

func TestLayoutTracking(t *testing.T) {
	f := newTestFace(t, goregular.TTF, 16)
	base := f.Width("LYRA", Style{})
	tracked := f.Width("LYRA", Style{Tracking: 2})
	if math.Abs(tracked-base-6) > 1e-9 {
		t.Errorf("tracked width = %v, want %v", tracked, base+6)
	}

	run := f.Layout("LYRA", Style{Tracking: 2})
	for i := 1; i < len(run.X); i++ {
		if run.X[i] <= run.X[i-1] {
			t.Errorf("X not increasing at %d: %v", i, run.X)
		}
	}
}

func TestLayoutTabularDigits(t *testing.T) {
	f := newTestFace(t, goregular.TTF, 20)
	a := f.Width("111", Style{TabularDigits: true})
	b := f.Width("888", Style{TabularDigits: true})
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("tabular widths differ: %v vs %v", a, b)
	}

	mono := newTestFace(t, gomono.TTF, 20)
	if w := mono.Width("", Style{}); w != 0 {
		t.Errorf("empty width = %v, want 0", w)
	}
}

func TestPrepare(t *testing.T) {
	if got := Prepare("vega", Style{Uppercase: true}); got != "VEGA" {
		t.Errorf("Prepare upper = %q, want VEGA", got)
	}
	// "e" + combining acute composes to U+00E9.
	if got := Prepare("e\u0301", Style{}); got != "\u00e9" {
		t.Errorf("Prepare NFC = %q, want é", got)
	}
}

func TestMask(t *testing.T) {
	f := newTestFace(t, goregular.TTF, 32)
	m := f.Mask('A')
	if m.W == 0 || m.H == 0 {
		t.Fatal("empty mask for 'A'")
	}
	if m.OY >= 0 {
		t.Errorf("OY = %d, want negative (glyph above baseline)", m.OY)
	}
	var sum float32
	for _, c := range m.Cov {
		if c < 0 || c > 1 {
			t.Fatalf("coverage %v outside [0,1]", c)
		}
		sum += c
	}
	if sum == 0 {
		t.Error("mask has no coverage")
	}
	if f.Mask('A') != m {
		t.Error("mask not cached")
	}
	if sp := f.Mask(' '); sp.W != 0 && len(sp.Cov) != sp.W*sp.H {
		t.Error("inconsistent space mask")
	}
	if m.At(-1, 0) != 0 || m.At(m.W, 0) != 0 {
		t.Error("At outside mask should be 0")
	}
}
