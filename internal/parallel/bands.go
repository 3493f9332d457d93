package parallel

// minBandRows keeps bands large enough that scheduling stays cheap next to
// the per-row work.
const minBandRows = 8

// Rows calls fn(y0, y1) over disjoint row bands covering [0, height).
//
// Band boundaries depend only on height, never on the number of workers, so
// every output row is produced by the same code path no matter how the
// bands are scheduled. A nil pool runs the bands sequentially.
func Rows(p *WorkerPool, height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	bands := Bands(height)
	if p == nil || p.Workers() == 1 || len(bands) == 1 {
		for _, b := range bands {
			fn(b[0], b[1])
		}
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b[0], b[1]) }
	}
	p.ExecuteAll(work)
}

// Bands splits [0, height) into half-open row ranges of at least
// minBandRows rows (the last band may be shorter).
func Bands(height int) [][2]int {
	if height <= 0 {
		return nil
	}
	n := max(1, min(64, height/minBandRows))
	size := (height + n - 1) / n

	out := make([][2]int, 0, n)
	for y := 0; y < height; y += size {
		out = append(out, [2]int{y, min(height, y+size)})
	}
	return out
}
