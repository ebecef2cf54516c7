package coastline

import (
	"fmt"
	"image"
	"time"
)

// SourceAlpha names the pipeline input: the land silhouette.
const SourceAlpha = "SourceAlpha"

// Result names produced by the coastline effects pipeline.
const (
	ResultOuterShadow = "outerShadow"
	ResultTurbulence  = "turbulence"
	ResultWavyFoam1   = "wavyFoam1"
	ResultWavyFoam2   = "wavyFoam2"
	ResultDarkStroke  = "darkStroke"
	ResultMerge       = "merge"
)

// stageOp renders a stage from its resolved inputs into dst.
type stageOp func(inputs []*image.NRGBA, dst *image.NRGBA)

// Stage is one named step of a Pipeline. Inputs name SourceAlpha or the
// results of earlier stages; the output is stored under Name.
type Stage struct {
	Name   string
	Inputs []string
	op     stageOp
}

// FilterStage applies f to a single input.
func FilterStage(name, in string, f Filter) Stage {
	return Stage{Name: name, Inputs: []string{in}, op: func(inputs []*image.NRGBA, dst *image.NRGBA) {
		f.Apply(inputs[0], dst)
	}}
}

// DisplaceStage displaces in by the R and A channels of field.
func DisplaceStage(name, in, field string, scale float64) Stage {
	return Stage{Name: name, Inputs: []string{in, field}, op: func(inputs []*image.NRGBA, dst *image.NRGBA) {
		DisplacementFilter{Map: inputs[1], Scale: scale, XChannel: ChannelR, YChannel: ChannelA}.Apply(inputs[0], dst)
	}}
}

// TurbulenceStage renders a noise field the size of the pipeline source.
// scale is the render scale, so the field is resolution independent.
func TurbulenceStage(name string, t Turbulence, scale float64) Stage {
	return Stage{Name: name, op: func(_ []*image.NRGBA, dst *image.NRGBA) {
		field := t.Render(dst.Rect.Dx(), dst.Rect.Dy(), scale)
		copy(dst.Pix, field.Pix)
	}}
}

// MergeStage layers its inputs source-over, first input at the bottom.
func MergeStage(name string, inputs ...string) Stage {
	return Stage{Name: name, Inputs: inputs, op: func(in []*image.NRGBA, dst *image.NRGBA) {
		for _, img := range in {
			compositeImage(dst, img, nil, 0, 0, OpSourceOver, 1)
		}
	}}
}

// StageTiming records how long a stage took.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Pipeline is an ordered list of named image-processing stages. Every
// stage's output stays referenceable by later stages and by Result.
type Pipeline struct {
	stages  []Stage
	results map[string]*image.NRGBA
	timings []StageTiming
}

// NewPipeline creates a pipeline from stages in execution order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage with source bound to SourceAlpha and returns the
// output of the last stage. With no stages the result is transparent.
func (p *Pipeline) Run(source *image.NRGBA) (*image.NRGBA, error) {
	p.results = map[string]*image.NRGBA{SourceAlpha: source}
	p.timings = p.timings[:0]
	out := image.NewNRGBA(source.Rect)
	for _, s := range p.stages {
		start := time.Now()
		inputs := make([]*image.NRGBA, len(s.Inputs))
		for i, name := range s.Inputs {
			img, ok := p.results[name]
			if !ok {
				return nil, fmt.Errorf("stage %q: unknown input %q", s.Name, name)
			}
			inputs[i] = img
		}
		out = image.NewNRGBA(source.Rect)
		s.op(inputs, out)
		p.results[s.Name] = out
		p.timings = append(p.timings, StageTiming{Name: s.Name, Duration: time.Since(start)})
	}
	return out, nil
}

// Result returns the output of the named stage from the last Run.
func (p *Pipeline) Result(name string) (*image.NRGBA, bool) {
	img, ok := p.results[name]
	return img, ok
}

// Timings returns per-stage durations from the last Run.
func (p *Pipeline) Timings() []StageTiming {
	return p.timings
}

// CoastlinePipeline builds the effect graph for cfg at the given render
// scale. Enabled sub-effects are merged in the order outer shadow, first
// foam band, stroke, second foam band.
func CoastlinePipeline(cfg EffectsConfig, renderScale float64) *Pipeline {
	rs := renderScale
	var stages []Stage
	var merge []string

	if sh := cfg.OuterShadow; sh.Enabled {
		stages = append(stages,
			FilterStage("shadowBlur", SourceAlpha, BlurFilter{Sigma: sh.Blur * rs}),
			FilterStage("shadowOffset", "shadowBlur", OffsetFilter{DX: sh.OffsetX * rs, DY: sh.OffsetY * rs}),
			FilterStage(ResultOuterShadow, "shadowOffset", FloodFilter{Color: sh.Color}),
		)
		merge = append(merge, ResultOuterShadow)
	}
	if r := cfg.Ripples; r.Enabled {
		stages = append(stages,
			TurbulenceStage(ResultTurbulence, rippleTurbulence(r), rs),
			FilterStage("dilatedFoam1", SourceAlpha, DilateFilter{Radius: r.Gap * rs}),
			DisplaceStage("wavyShape1", "dilatedFoam1", ResultTurbulence, r.Gap*2*rs),
			FilterStage(ResultWavyFoam1, "wavyShape1", FloodFilter{Color: ColorWhite}),
			FilterStage("dilatedFoam2", SourceAlpha, DilateFilter{Radius: r.Gap / 3 * rs}),
			DisplaceStage("wavyShape2", "dilatedFoam2", ResultTurbulence, r.Gap*rs),
			FilterStage(ResultWavyFoam2, "wavyShape2", FloodFilter{Color: ColorWhite}),
		)
		merge = append(merge, ResultWavyFoam1)
	}
	if st := cfg.Stroke; st.Enabled {
		stages = append(stages,
			FilterStage("strokeShape", SourceAlpha, DilateFilter{Radius: st.Width * rs}),
			FilterStage(ResultDarkStroke, "strokeShape", FloodFilter{Color: st.Color}),
		)
		merge = append(merge, ResultDarkStroke)
	}
	if cfg.Ripples.Enabled {
		merge = append(merge, ResultWavyFoam2)
	}
	stages = append(stages, MergeStage(ResultMerge, merge...))
	return NewPipeline(stages...)
}

// ApplyEffects recomputes the effects overlay from the land. Mask is first
// rebuilt from [Surfaces.Land] and the effects surface cleared; when effects
// are disabled nothing else happens. An enabled inner shadow is composited
// onto the rebuilt mask, only where land exists, so repeated runs give the
// same pixels. It returns the pipeline so stage results can be inspected.
func ApplyEffects(s *Surfaces, cfg EffectsConfig) (*Pipeline, error) {
	effects, mask := s.Effects(), s.Mask()
	s.RestoreMask()
	effects.Clear()
	if !cfg.Enabled {
		return nil, nil
	}
	rs := s.RenderScale()

	silhouette := applyFilter(AlphaFilter{}, mask.Image())
	p := CoastlinePipeline(cfg, rs)
	out, err := p.Run(silhouette)
	if err != nil {
		return nil, fmt.Errorf("apply effects: %w", err)
	}
	effects.Draw(out, 0, 0, OpSourceOver, 1)

	if is := cfg.InnerShadow; is.Enabled {
		shadow := dropShadow(complement(silhouette), is, rs)
		mask.Draw(shadow, 0, 0, OpSourceAtop, 1)
	}
	return p, nil
}

// complement returns opaque black wherever the silhouette is transparent.
func complement(silhouette *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(silhouette.Rect)
	for i := 3; i < len(out.Pix); i += 4 {
		if silhouette.Pix[i] == 0 {
			out.Pix[i] = 255
		}
	}
	return out
}

// dropShadow draws src over its blurred, offset and colored shadow. The
// blur is a radius, so the Gaussian deviation is half of it.
func dropShadow(src *image.NRGBA, cfg ShadowConfig, rs float64) *image.NRGBA {
	shadow := applyFilter(BlurFilter{Sigma: cfg.Blur * rs / 2}, src)
	shadow = applyFilter(OffsetFilter{DX: cfg.OffsetX * rs, DY: cfg.OffsetY * rs}, shadow)
	shadow = applyFilter(FloodFilter{Color: cfg.Color}, shadow)
	compositeImage(shadow, src, nil, 0, 0, OpSourceOver, 1)
	return shadow
}
