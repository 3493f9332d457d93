package starchart

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/starchart/internal/color"
	"github.com/gogpu/starchart/internal/composite"
	"github.com/gogpu/starchart/internal/glyph"
	"github.com/gogpu/starchart/internal/labels"
	"github.com/gogpu/starchart/internal/parallel"
	"github.com/gogpu/starchart/internal/pixbuf"
	"github.com/gogpu/starchart/internal/post"
	"github.com/gogpu/starchart/internal/rings"
	"github.com/gogpu/starchart/internal/rng"
	"github.com/gogpu/starchart/internal/starfield"
)

// Pipeline stage names used in CancellationError and Diagnostics.
const (
	StageScene     = "scene"
	StageLabels    = "labels"
	StageComposite = "composite"
	StagePost      = "post"
	StageOutput    = "output"
)

const (
	// labelGapEm is the gap between a ring's outer tick and its label
	// baseline circle, in font sizes.
	labelGapEm = 0.75
	// auxArcEm is the distance of the leader-line arc beyond the label
	// circle, in font sizes.
	auxArcEm = 1.6
	// labelMarginEm is the minimum spacing between neighbouring labels.
	labelMarginEm = 0.6

	defaultPoolSize = 4
)

// Render draws cfg and returns the final image with its layers.
//
// The scene is validated first; an invalid scene returns a
// *ConfigValidationError and nothing is drawn. Projection failures return
// a *GeometryError. Rings that cannot hold their labels produce
// PlacementOverflow warnings on the result rather than an error. ctx is
// checked between stages and a cancelled render returns a
// *CancellationError and no result.
func Render(ctx context.Context, cfg SceneConfig, opts ...RenderOption) (*RenderResult, error) {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.seed != nil {
		cfg.Seed = *o.seed
	}
	if err := validateRender(cfg, o); err != nil {
		return nil, err
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}

	r, err := newRenderer(cfg, o, log)
	if err != nil {
		return nil, err
	}
	defer r.close()

	log.Info("starchart: render",
		"width", cfg.Resolution.Width, "height", cfg.Resolution.Height,
		"ssaa", cfg.Resolution.SSAA, "seed", cfg.Seed, "workers", r.wp.Workers())

	res, err := r.run(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("starchart: done", "duration", res.Diagnostics.Total(), "warnings", len(res.Warnings))
	return res, nil
}

func validateRender(cfg SceneConfig, o renderOptions) error {
	err := cfg.validate(len(o.fontData) > 0)
	if o.bitDepth == 8 || o.bitDepth == 16 {
		return err
	}
	issue := FieldIssue{Field: "bit_depth", Reason: "must be 8 or 16"}
	var ve *ConfigValidationError
	if errors.As(err, &ve) {
		ve.Issues = append(ve.Issues, issue)
		return ve
	}
	return &ConfigValidationError{Issues: []FieldIssue{issue}}
}

// renderer holds the state of one render.
type renderer struct {
	cfg  SceneConfig
	opt  renderOptions
	log  *slog.Logger
	ssaa int
	w, h int

	pool *pixbuf.Pool
	wp   *parallel.WorkerPool
	proj rings.Projection
	face *glyph.Face
	src  *rng.Context

	diag Diagnostics
}

func newRenderer(cfg SceneConfig, o renderOptions, log *slog.Logger) (*renderer, error) {
	ssaa := cfg.Resolution.SSAA
	w, h := cfg.Resolution.Width*ssaa, cfg.Resolution.Height*ssaa

	data := o.fontData
	if len(data) == 0 {
		var err error
		if data, err = glyph.Builtin(cfg.Text.Font); err != nil {
			return nil, &ConfigValidationError{Issues: []FieldIssue{{Field: "text.font", Reason: err.Error()}}}
		}
	}
	face, err := glyph.NewFace(data, cfg.Text.SizePx*float64(ssaa))
	if err != nil {
		return nil, &ConfigValidationError{Issues: []FieldIssue{{Field: "text.font", Reason: err.Error()}}}
	}

	pool := pixbuf.NewPool(defaultPoolSize)
	if o.pool != nil {
		pool = o.pool.p
	}

	return &renderer{
		cfg:  cfg,
		opt:  o,
		log:  log,
		ssaa: ssaa,
		w:    w,
		h:    h,
		pool: pool,
		wp:   parallel.NewWorkerPool(o.workers),
		proj: rings.NewProjection(w, h, cfg.Camera.TiltDeg, cfg.Camera.FOVDeg),
		face: face,
		src:  rng.New(cfg.Seed),
		diag: Diagnostics{Seed: cfg.Seed},
	}, nil
}

func (r *renderer) close() { r.wp.Close() }

// stage checks ctx, runs fn and records its duration.
func (r *renderer) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return &CancellationError{Stage: name, Err: err}
	}
	start := time.Now()
	err := fn()
	d := time.Since(start)
	r.diag.Stages = append(r.diag.Stages, StageTiming{Stage: name, Duration: d})
	r.log.Debug("starchart: stage", "stage", name, "duration", d)
	return err
}

// ringState carries one ring through layout, placement and drawing.
type ringState struct {
	geom   *rings.Geometry
	labelR float64
	auxR   float64
	// stretch converts unit radius to mean projected pixels relative to
	// the untilted base radius.
	stretch float64
	draw    composite.Ring
}

func (r *renderer) run(ctx context.Context) (*RenderResult, error) {
	var (
		field  starfield.Field
		states []ringState
		res    = &RenderResult{}
	)

	err := r.stage(ctx, StageScene, func() error {
		var g errgroup.Group
		g.Go(func() error {
			field = starfield.Generate(r.starParams(), r.proj, r.src)
			return nil
		})
		g.Go(func() error {
			var err error
			states, err = r.layoutRings()
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	r.diag.Stars = len(field.Stars)
	r.diag.NumericClamps += field.Clamps
	if field.Clamps > 0 {
		r.log.Debug("starchart: clamped star values", "count", field.Clamps)
	}

	var free []composite.Label
	err = r.stage(ctx, StageLabels, func() error {
		for i := range states {
			r.placeLabels(i, &states[i], res)
		}
		free = r.freeLabels()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var starsBuf, coreBuf, glowBuf *pixbuf.Buf
	release := func() { r.pool.Put(starsBuf, coreBuf, glowBuf) }

	frame := composite.Frame{W: r.w, H: r.h, SSAA: r.ssaa, Proj: r.proj}
	err = r.stage(ctx, StageComposite, func() error {
		ringsDraw := make([]composite.Ring, len(states))
		for i := range states {
			ringsDraw[i] = states[i].draw
		}
		text := composite.Text{Face: r.face, Color: r.cfg.Text.Color.linear()}

		var g errgroup.Group
		g.Go(func() error {
			starsBuf = composite.Stars(frame, field.Stars, r.pool, r.wp)
			return nil
		})
		g.Go(func() error {
			var err error
			coreBuf, glowBuf, err = composite.UI(frame, ringsDraw, free, text, r.pool, r.wp)
			var re *composite.RingError
			if errors.As(err, &re) {
				return newGeometryError(re.Ring, re.Err)
			}
			return err
		})
		return g.Wait()
	})
	if err != nil {
		release()
		return nil, err
	}

	var out post.Output
	err = r.stage(ctx, StagePost, func() error {
		var err error
		out, err = post.Run(ctx, post.Input{Stars: starsBuf, UICore: coreBuf, UIGlow: glowBuf},
			r.postSettings(), r.src.Derive("post/grain"), r.pool, r.wp)
		var se *post.StageError
		if errors.As(err, &se) {
			return &CancellationError{Stage: se.Stage, Err: se.Err}
		}
		return err
	})
	if err != nil {
		release()
		return nil, err
	}
	r.diag.NumericClamps += out.Clamps
	if out.Clamps > 0 {
		r.log.Debug("starchart: clamped pixel values", "count", out.Clamps)
	}

	err = r.stage(ctx, StageOutput, func() error {
		res.Layers = make(map[Layer]*LayerBuffer, 4)
		for l, b := range map[Layer]*pixbuf.Buf{LayerStars: starsBuf, LayerUICore: coreBuf, LayerUIGlow: glowBuf} {
			small := pixbuf.Downsample(b, r.ssaa, r.pool, r.wp)
			res.Layers[l] = newLayerBuffer(small)
			r.pool.Put(small)
		}
		res.Layers[LayerFinalLinear] = newLayerBuffer(out.FinalLinear)
		res.Image = quantize(out.Display, r.opt.bitDepth)
		return nil
	})
	release()
	r.pool.Put(out.Display, out.FinalLinear)
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings {
		r.log.Warn("starchart: label overflow", "ring", w.Ring, "labels", w.Labels)
	}
	res.Diagnostics = r.diag
	return res, nil
}

func (r *renderer) starParams() starfield.Params {
	s := r.cfg.Stars
	return starfield.Params{
		CoreSigma:         s.Core.Sigma,
		CoreAlpha:         s.Core.Alpha,
		CoreCount:         s.Core.Count,
		HaloCount:         s.Halo.Count,
		HaloMinR:          s.Halo.MinR,
		HaloMaxR:          s.Halo.MaxR,
		HaloMinSeparation: s.Halo.MinSeparation,
		BrightnessPower:   s.BrightnessPower,
		BrightnessMin:     s.BrightnessMin,
		BrightnessMax:     s.BrightnessMax,
		OutlierFraction:   s.OutlierFraction,
		SizeMin:           s.SizeMin,
		SizeMax:           s.SizeMax,
		ColorCool:         s.ColorCool,
		ColorWarm:         s.ColorWarm,
	}
}

func (r *renderer) layoutRings() ([]ringState, error) {
	states := make([]ringState, len(r.cfg.Rings))
	base := r.proj.BaseRadius
	sizePx := r.face.Size()

	for i, ring := range r.cfg.Rings {
		g, err := rings.Layout(rings.Params{
			R:             ring.R,
			Dash:          ring.Dash,
			TicksEveryDeg: ring.TicksEveryDeg,
			TickLength:    ring.TickLength,
		}, r.proj)
		if err != nil {
			return nil, newGeometryError(i, err)
		}

		widthPx := math.Max(1, ring.Width) * float64(r.ssaa)
		stretch := 1.0
		if ring.R > 0 {
			if m := g.MeanRadius(r.proj); m > 0 {
				stretch = m / (ring.R * base)
			}
		}
		labelR := ring.R + 0.6*ring.TickLength + (0.5*widthPx+labelGapEm*sizePx)/base

		halo := ring.Color
		if ring.HaloColor != nil {
			halo = *ring.HaloColor
		}
		states[i] = ringState{
			geom:    g,
			labelR:  labelR,
			auxR:    labelR + auxArcEm*sizePx/base,
			stretch: stretch,
			draw: composite.Ring{
				Geom:         g,
				WidthPx:      widthPx,
				TickWidthPx:  math.Max(float64(r.ssaa), 0.75*widthPx),
				Color:        ring.Color.linear(),
				HaloColor:    halo.linear(),
				HaloStrength: ring.HaloStrength,
			},
		}
	}
	return states, nil
}

func (r *renderer) textStyle() glyph.Style {
	t := r.cfg.Text
	return glyph.Style{
		Tracking:      t.Tracking * float64(r.ssaa),
		TabularDigits: t.TabularDigits,
		Uppercase:     t.Uppercase,
	}
}

type ringLabel struct {
	text     string
	angle    float64 // radians
	priority float64
	run      glyph.Run
}

// ringLabels collects the labels of one ring. The ring's own Label comes
// first and outranks the rest.
func (r *renderer) ringLabels(ring Ring) []ringLabel {
	st := r.textStyle()
	var out []ringLabel
	top := 0.0
	for _, l := range ring.Labels {
		p := l.Priority
		if p == 0 {
			p = labels.DefaultPriority(l.Text)
		}
		top = math.Max(top, p)
		out = append(out, ringLabel{text: l.Text, angle: deg2rad(l.AngleDeg), priority: p})
	}
	if ring.Label != "" {
		main := ringLabel{
			text:     ring.Label,
			angle:    deg2rad(ring.LabelAngleDeg),
			priority: math.Max(top, labels.DefaultPriority(ring.Label)) + 1,
		}
		out = append([]ringLabel{main}, out...)
	}
	for i := range out {
		out[i].run = r.face.Layout(out[i].text, st)
	}
	return out
}

// placeLabels resolves the labels of ring i and fills in its draw list,
// placements and overflow warning.
func (r *renderer) placeLabels(i int, s *ringState, res *RenderResult) {
	ls := r.ringLabels(r.cfg.Rings[i])
	if len(ls) == 0 {
		return
	}
	pathPx := s.labelR * r.proj.BaseRadius * s.stretch
	auxPx := s.auxR * r.proj.BaseRadius * s.stretch

	in := make([]labels.Label, len(ls))
	for k, l := range ls {
		in[k] = labels.Label{Text: l.text, Width: l.run.Width / pathPx, Angle: l.angle, Priority: l.priority}
	}
	opt := labels.DefaultOptions()
	opt.Margin = labelMarginEm * r.face.Size() / pathPx
	placed := labels.Place(in, opt)
	r.diag.PlacementIterations += placed.Iterations

	// Demoted labels get their own pass on the auxiliary arc.
	aux := map[int]float64{}
	if len(placed.Demoted) > 0 {
		auxIn := make([]labels.Label, len(placed.Demoted))
		for k, idx := range placed.Demoted {
			auxIn[k] = in[idx]
			auxIn[k].Width = ls[idx].run.Width / auxPx
		}
		auxOpt := opt
		auxOpt.Margin = labelMarginEm * r.face.Size() / auxPx
		auxPlaced := labels.Place(auxIn, auxOpt)
		r.diag.PlacementIterations += auxPlaced.Iterations
		r.diag.UnresolvedLabels += auxPlaced.Unresolved(auxIn, auxOpt.Margin)
		for k, idx := range placed.Demoted {
			aux[idx] = auxPlaced.Placements[k].Angle
		}

		w := PlacementOverflow{Ring: i}
		for _, idx := range placed.Demoted {
			w.Labels = append(w.Labels, ls[idx].text)
		}
		res.Warnings = append(res.Warnings, w)
	}

	for k, p := range placed.Placements {
		lp := LabelPlacement{
			Ring:   i,
			Text:   ls[k].text,
			Angle:  rad2deg(p.Angle),
			Start:  rad2deg(p.Start),
			End:    rad2deg(p.End),
			Leader: p.Leader,
		}
		cl := composite.Label{Run: ls[k].run, R: s.labelR, Angle: p.Angle, PathRadiusPx: pathPx}
		if p.Leader {
			lp.AuxAngle = rad2deg(aux[k])
			cl.R, cl.Angle, cl.PathRadiusPx = s.auxR, aux[k], auxPx
			cl.Leader = true
			cl.AnchorR = r.cfg.Rings[i].R
			cl.AnchorAngle = p.Angle
		}
		res.Placements = append(res.Placements, lp)
		s.draw.Labels = append(s.draw.Labels, cl)
	}
}

func (r *renderer) freeLabels() []composite.Label {
	st := r.textStyle()
	out := make([]composite.Label, 0, len(r.cfg.Labels))
	for _, l := range r.cfg.Labels {
		out = append(out, composite.Label{
			Run:          r.face.Layout(l.Text, st),
			R:            l.R,
			Angle:        deg2rad(l.AngleDeg),
			PathRadiusPx: l.R * r.proj.BaseRadius,
		})
	}
	return out
}

func (r *renderer) postSettings() post.Settings {
	p := r.cfg.Post
	s := post.Settings{
		SSAA:            r.ssaa,
		Exposure:        p.Exposure,
		BloomThreshold:  p.Bloom.Threshold,
		BloomIntensity:  p.Bloom.Intensity,
		BloomRadius:     p.Bloom.Radius,
		BloomLevels:     p.Bloom.Levels,
		StreakIntensity: p.Anamorphic.Intensity,
		StreakLength:    p.Anamorphic.Length,
		AberrationK:     p.ChromaticAberration.K,
		Vignette:        p.Vignette,
		GrainStrength:   p.Grain.Strength,
		GrainBlueNoise:  p.Grain.BlueNoise,
		GradeStrength:   p.LUT.Strength,
	}
	if p.LUT.Name != "" {
		s.Grade, _ = color.LookupGrade(p.LUT.Name)
	}
	return s
}

// quantize converts display-linear RGB to the output image: sRGB-encoded
// at 8 bits, linear at 16.
func quantize(b *pixbuf.Buf, depth int) *Image {
	m := &Image{Width: b.W, Height: b.H, Depth: depth}
	if depth == 16 {
		m.Pix16 = make([]uint16, len(b.Pix))
		for i, v := range b.Pix {
			m.Pix16[i] = color.Linear16(v)
		}
		return m
	}
	m.Pix8 = make([]uint8, len(b.Pix))
	for i, v := range b.Pix {
		m.Pix8[i] = color.LinearToSRGB8(v)
	}
	return m
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func rad2deg(r float64) float64 {
	d := math.Mod(r*180/math.Pi, 360)
	if d < 0 {
		d += 360
	}
	return d
}
