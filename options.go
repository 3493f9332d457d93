package starchart

import (
	"log/slog"

	"github.com/gogpu/starchart/internal/pixbuf"
)

// RenderOption configures a single Render call.
//
// Example:
//
//	res, err := starchart.Render(ctx, cfg,
//	    starchart.WithSeed(7),
//	    starchart.WithWorkers(4),
//	    starchart.WithBitDepth(16),
//	)
type RenderOption func(*renderOptions)

type renderOptions struct {
	seed     *int64
	workers  int
	bitDepth int
	fontData []byte
	pool     *BufferPool
	logger   *slog.Logger
}

func defaultRenderOptions() renderOptions {
	return renderOptions{
		workers:  0, // GOMAXPROCS
		bitDepth: 8,
	}
}

// WithSeed overrides SceneConfig.Seed.
func WithSeed(seed int64) RenderOption {
	return func(o *renderOptions) {
		o.seed = &seed
	}
}

// WithWorkers sets the number of pixel workers. n <= 0 uses GOMAXPROCS.
// The rendered image does not depend on n.
func WithWorkers(n int) RenderOption {
	return func(o *renderOptions) {
		o.workers = n
	}
}

// WithBitDepth selects 8-bit sRGB or 16-bit linear output. Other values
// fail validation.
func WithBitDepth(bits int) RenderOption {
	return func(o *renderOptions) {
		o.bitDepth = bits
	}
}

// WithFontData renders labels with the given TrueType or OpenType font
// instead of the built-in face named by Text.Font.
func WithFontData(data []byte) RenderOption {
	return func(o *renderOptions) {
		o.fontData = data
	}
}

// WithBufferPool shares a buffer pool across renders, which avoids
// reallocating the large float buffers when rendering repeatedly at one
// size.
func WithBufferPool(p *BufferPool) RenderOption {
	return func(o *renderOptions) {
		o.pool = p
	}
}

// WithLogger logs this render to l instead of the package logger.
func WithLogger(l *slog.Logger) RenderOption {
	return func(o *renderOptions) {
		o.logger = l
	}
}

// BufferPool recycles intermediate pixel buffers between renders.
// It is safe for concurrent use.
type BufferPool struct {
	p *pixbuf.Pool
}

// NewBufferPool keeps up to maxPerSize idle buffers of each shape.
func NewBufferPool(maxPerSize int) *BufferPool {
	return &BufferPool{p: pixbuf.NewPool(maxPerSize)}
}

// Idle returns the number of buffers currently held.
func (p *BufferPool) Idle() int { return p.p.Len() }
