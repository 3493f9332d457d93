package pixbuf

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/starchart/internal/parallel"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h, c int
		wantErr error
	}{
		{"rgb", 4, 3, 3, nil},
		{"coverage", 1, 1, 1, nil},
		{"zero width", 0, 3, 3, ErrInvalidDimensions},
		{"negative height", 3, -1, 1, ErrInvalidDimensions},
		{"rgba", 2, 2, 4, ErrInvalidChannels},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.w, tt.h, tt.c)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && len(b.Pix) != tt.w*tt.h*tt.c {
				t.Errorf("len(Pix) = %d, want %d", len(b.Pix), tt.w*tt.h*tt.c)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	b := MustNew(4, 1, 1)
	b.Pix = []float32{float32(math.NaN()), float32(math.Inf(1)), -2, 0.5}

	n := b.Sanitize(100)
	if n != 3 {
		t.Errorf("Sanitize() = %d, want 3", n)
	}
	want := []float32{0, 100, 0, 0.5}
	for i := range want {
		if b.Pix[i] != want[i] {
			t.Errorf("Pix[%d] = %v, want %v", i, b.Pix[i], want[i])
		}
	}
}

func TestPoolReuse(t *testing.T) {
	p := NewPool(2)
	a := p.Get(8, 8, 3)
	a.Pix[0] = 5
	p.Put(a)

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	b := p.Get(8, 8, 3)
	if b != a {
		t.Error("Get did not reuse the pooled buffer")
	}
	if b.Pix[0] != 0 {
		t.Errorf("reused buffer not cleared: Pix[0] = %v", b.Pix[0])
	}

	p.Put(MustNew(2, 2, 1), MustNew(2, 2, 1), MustNew(2, 2, 1))
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (bucket capacity)", p.Len())
	}

	var nilPool *Pool
	if got := nilPool.Get(3, 3, 1); got == nil || got.W != 3 {
		t.Error("nil pool should allocate")
	}
	nilPool.Put(b)
}

func TestSampleBilinear(t *testing.T) {
	b := MustNew(2, 1, 1)
	b.Pix = []float32{0, 1}

	tests := []struct {
		x, want float64
	}{
		{0.5, 0},
		{1.5, 1},
		{1.0, 0.5},
		{-3, 0},
		{9, 1},
	}
	for _, tt := range tests {
		got := b.SampleBilinear(tt.x, 0.5, 0)
		if math.Abs(float64(got)-tt.want) > 1e-6 {
			t.Errorf("SampleBilinear(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestDownsampleAverages(t *testing.T) {
	src := MustNew(4, 2, 3)
	for i := range src.Pix {
		src.Pix[i] = float32(i % 3)
	}
	src.Pix[src.Offset(0, 0)] = 4

	dst := Downsample(src, 2, nil, nil)
	if dst.W != 2 || dst.H != 1 {
		t.Fatalf("size = %dx%d, want 2x1", dst.W, dst.H)
	}
	if got := dst.Pix[0]; got != 1 {
		t.Errorf("red of block 0 = %v, want 1", got)
	}
	if got := dst.Pix[4]; got != 1 {
		t.Errorf("green of block 1 = %v, want 1", got)
	}
}

func TestDownsampleWorkerIndependent(t *testing.T) {
	src := MustNew(96, 64, 3)
	for i := range src.Pix {
		src.Pix[i] = float32(math.Sin(float64(i) * 0.37))
	}

	ref := Downsample(src, 4, nil, nil)
	for _, workers := range []int{1, 4, 7} {
		wp := parallel.NewWorkerPool(workers)
		got := Downsample(src, 4, nil, wp)
		wp.Close()
		for i := range ref.Pix {
			if got.Pix[i] != ref.Pix[i] {
				t.Fatalf("workers=%d: Pix[%d] = %v, want %v", workers, i, got.Pix[i], ref.Pix[i])
			}
		}
	}
}

func TestHalfAndUpsample(t *testing.T) {
	src := MustNew(5, 3, 1)
	for i := range src.Pix {
		src.Pix[i] = 2
	}

	h := Half(src, nil, nil)
	if h.W != 3 || h.H != 2 {
		t.Fatalf("Half size = %dx%d, want 3x2", h.W, h.H)
	}
	up := Upsample(h, 5, 3, nil, nil)
	for i, v := range up.Pix {
		if math.Abs(float64(v)-2) > 1e-6 {
			t.Fatalf("Upsample Pix[%d] = %v, want 2", i, v)
		}
	}
}
