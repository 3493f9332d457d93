package starfield

import (
	"math"

	"github.com/gogpu/starchart/internal/rng"
)

const haloAttempts = 24

// sampleHalo returns HaloCount (r, θ) pairs with Poisson-disc spacing.
// When no candidate clears the separation after haloAttempts proposals,
// the candidate farthest from its neighbours is kept.
func sampleHalo(p Params, src *rng.Context) [][2]float64 {
	n := p.HaloCount
	if n <= 0 {
		return nil
	}
	sep := p.HaloMinSeparation
	if sep <= 0 {
		sep = AutoSeparation(n, p.HaloMinR, p.HaloMaxR)
	}

	g := newGrid(sep)
	out := make([][2]float64, 0, n)
	propose := func(src *rng.Context) haloCandidate {
		r, th := proposeAnnulus(src, p.HaloMinR, p.HaloMaxR)
		return haloCandidate{r: r, theta: th, nearest: g.nearest(r*math.Cos(th), r*math.Sin(th))}
	}
	for range n {
		best := haloCandidate{nearest: -1}
		c, ok := rng.Reject(src, propose, func(c haloCandidate) float64 {
			if c.nearest > best.nearest {
				best = c
			}
			if c.nearest >= sep {
				return 1
			}
			return 0
		}, haloAttempts)
		if !ok {
			c = best
		}
		g.insert(c.r*math.Cos(c.theta), c.r*math.Sin(c.theta))
		out = append(out, [2]float64{c.r, c.theta})
	}
	return out
}

type haloCandidate struct {
	r, theta float64
	// nearest is the distance to the closest accepted point.
	nearest float64
}

// proposeAnnulus draws an area-uniform point from the annulus.
func proposeAnnulus(src *rng.Context, minR, maxR float64) (float64, float64) {
	u := src.Float64()
	r := math.Sqrt(u*(maxR*maxR-minR*minR) + minR*minR)
	return r, src.Angle()
}

// grid is a spatial hash with cells of side sep, so any neighbour closer
// than sep lies in the 3×3 block around a point's cell.
type grid struct {
	cell  float64
	cells map[[2]int][][2]float64
}

func newGrid(sep float64) *grid {
	return &grid{cell: sep, cells: make(map[[2]int][][2]float64)}
}

func (g *grid) key(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / g.cell)), int(math.Floor(y / g.cell))}
}

// nearest returns the distance to the closest inserted point within one
// cell, or +Inf when there is none (or spacing is disabled).
func (g *grid) nearest(x, y float64) float64 {
	if g.cell <= 0 {
		return math.Inf(1)
	}
	k := g.key(x, y)
	best := math.Inf(1)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, q := range g.cells[[2]int{k[0] + dx, k[1] + dy}] {
				if d := math.Hypot(q[0]-x, q[1]-y); d < best {
					best = d
				}
			}
		}
	}
	return best
}

func (g *grid) insert(x, y float64) {
	if g.cell <= 0 {
		return
	}
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], [2]float64{x, y})
}
