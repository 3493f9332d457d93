package post

import (
	"context"
	"fmt"

	"github.com/gogpu/starchart/internal/color"
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
	"github.com/gogpu/starchart/internal/rng"
)

// maxHDR bounds sanitized linear values (the largest finite half float).
const maxHDR = 65504

// Stage names, in execution order.
const (
	StageBloom      = "bloom"
	StageAberration = "chromatic_aberration"
	StageVignette   = "vignette"
	StageGrain      = "grain"
	StageTonemap    = "tonemap"
	StageGrade      = "lut"
	StageDownsample = "downsample"
)

// Settings configures one run of the stack.
type Settings struct {
	SSAA     int
	Exposure float64

	BloomThreshold float64
	BloomIntensity float64
	BloomRadius    float64
	BloomLevels    int

	StreakIntensity float64
	StreakLength    float64

	AberrationK float64
	Vignette    float64

	GrainStrength  float64
	GrainBlueNoise bool

	Grade         *color.Grade
	GradeStrength float64
}

// Input holds the supersampled layers produced by the compositor.
type Input struct {
	Stars, UICore, UIGlow *pixbuf.Buf
}

// Output holds the downsampled results.
type Output struct {
	// Display is tonemapped and graded display-linear RGB in [0,1].
	Display *pixbuf.Buf
	// FinalLinear is the HDR composite after grain, before tonemapping.
	FinalLinear *pixbuf.Buf
	// Clamps counts NaN, infinite and negative values that were replaced.
	Clamps int
}

// StageError reports that Run stopped before stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("post: stopped before %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Run executes the stack in fixed order:
//
//	bloom → chromatic aberration → vignette → grain → tonemap → lut → downsample
//
// ctx is checked before every stage; on cancellation Run releases its
// buffers and returns a *StageError. noiseSrc feeds the grain stage. The
// input layers are not modified.
func Run(ctx context.Context, in Input, s Settings, noiseSrc *rng.Context, pool *pixbuf.Pool, wp *parallel.WorkerPool) (Output, error) {
	var (
		out Output
		cur *pixbuf.Buf
	)
	check := func(stage string) error {
		if err := ctx.Err(); err != nil {
			pool.Put(cur)
			return &StageError{Stage: stage, Err: err}
		}
		return nil
	}
	// replace swaps the working buffer for next.
	replace := func(next *pixbuf.Buf) {
		pool.Put(cur)
		cur = next
	}
	ssaa := max(1, s.SSAA)

	if err := check(StageBloom); err != nil {
		return Output{}, err
	}
	cur = pool.Get(in.Stars.W, in.Stars.H, 3)
	cur.CopyFrom(in.Stars)
	if in.UIGlow != nil {
		cur.Add(in.UIGlow)
	}
	out.Clamps += cur.Sanitize(maxHDR)
	if s.BloomIntensity > 0 || s.StreakIntensity > 0 {
		bright := BrightPass(cur, s.BloomThreshold, pool, wp)
		if s.BloomIntensity > 0 {
			b := Bloom(bright, ssaa, s.BloomLevels, s.BloomRadius, pool, wp)
			cur.AddScaled(b, float32(s.BloomIntensity))
			pool.Put(b)
		}
		if s.StreakIntensity > 0 && s.StreakLength > 0 {
			st := Streak(bright, ssaa, s.StreakLength, pool, wp)
			cur.AddScaled(st, float32(s.StreakIntensity))
			pool.Put(st)
		}
		pool.Put(bright)
	}
	if in.UICore != nil {
		cur.Add(in.UICore)
	}

	if err := check(StageAberration); err != nil {
		return Output{}, err
	}
	replace(ChromaticAberration(cur, s.AberrationK, pool, wp))

	if err := check(StageVignette); err != nil {
		return Output{}, err
	}
	replace(Vignette(cur, s.Vignette, pool, wp))

	if err := check(StageGrain); err != nil {
		return Output{}, err
	}
	if s.GrainStrength > 0 {
		noise := NoiseField(cur.W, cur.H, s.GrainBlueNoise, noiseSrc)
		replace(Grain(cur, s.GrainStrength, noise, pool, wp))
	}
	out.Clamps += cur.Sanitize(maxHDR)
	linear := cur

	if err := check(StageTonemap); err != nil {
		return Output{}, err
	}
	cur = Tonemap(linear, s.Exposure, pool, wp)

	if err := check(StageGrade); err != nil {
		pool.Put(linear)
		return Output{}, err
	}
	replace(Grade(cur, s.Grade, s.GradeStrength, pool, wp))

	if err := check(StageDownsample); err != nil {
		pool.Put(linear)
		return Output{}, err
	}
	out.Display = pixbuf.Downsample(cur, ssaa, pool, wp)
	out.FinalLinear = pixbuf.Downsample(linear, ssaa, pool, wp)
	pool.Put(cur, linear)
	return out, nil
}
