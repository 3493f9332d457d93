package pixbuf

import "sync"

// Pool is a thread-safe pool for reusing Buf instances.
//
// Pool groups buffers by dimensions and channel count. The post stack asks
// for many identically sized scratch buffers per render, and a Pool shared
// across renders of the same resolution avoids reallocating them.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buf
	maxSize int
}

type poolKey struct {
	width, height, channels int
}

// NewPool creates a pool retaining up to maxPerBucket buffers per shape.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buf),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer of the requested shape. It panics on invalid
// dimensions. A nil Pool allocates.
func (p *Pool) Get(width, height, channels int) *Buf {
	if p == nil {
		return MustNew(width, height, channels)
	}
	key := poolKey{width, height, channels}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	return MustNew(width, height, channels)
}

// Put returns buffers to the pool. Nil buffers are ignored, and buffers
// beyond the bucket capacity are discarded.
func (p *Pool) Put(bufs ...*Buf) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, buf := range bufs {
		if buf == nil {
			continue
		}
		key := poolKey{buf.W, buf.H, buf.C}
		bucket := p.buckets[key]
		if p.maxSize > 0 && len(bucket) >= p.maxSize {
			continue
		}
		p.buckets[key] = append(bucket, buf)
	}
}

// Len returns the number of buffers currently retained.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
