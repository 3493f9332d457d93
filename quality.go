package starchart

import (
	"fmt"
	"math"
	"strings"
)

// QualityPreset trades render cost for fidelity.
type QualityPreset int

const (
	// QualityFinal renders the scene as authored.
	QualityFinal QualityPreset = iota
	// QualityDraft caps supersampling at 2, halves star counts and caps
	// bloom at 5 levels.
	QualityDraft
	// QualityPreview disables supersampling, keeps a quarter of the stars
	// and uses the shallowest bloom pyramid.
	QualityPreview
)

var qualityNames = [...]string{"final", "draft", "preview"}

// String returns the preset name.
func (q QualityPreset) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("QualityPreset(%d)", int(q))
	}
	return qualityNames[q]
}

// QualityPresets returns all presets from cheapest to most expensive.
func QualityPresets() []QualityPreset {
	return []QualityPreset{QualityPreview, QualityDraft, QualityFinal}
}

// ParseQualityPreset parses a preset name, case-insensitively.
func ParseQualityPreset(name string) (QualityPreset, error) {
	for i, n := range qualityNames {
		if strings.EqualFold(name, n) {
			return QualityPreset(i), nil
		}
	}
	return 0, fmt.Errorf("starchart: unknown quality preset %q (want preview, draft or final)", name)
}

// Apply returns a copy of cfg with the preset's overrides. QualityFinal
// returns an unchanged copy.
func (q QualityPreset) Apply(cfg SceneConfig) SceneConfig {
	out := cfg.Clone()
	switch q {
	case QualityDraft:
		out.Resolution.SSAA = min(out.Resolution.SSAA, 2)
		out.Stars.Core.Count = scaleCount(out.Stars.Core.Count, 0.5)
		out.Stars.Halo.Count = scaleCount(out.Stars.Halo.Count, 0.5)
		out.Post.Bloom.Levels = min(out.Post.Bloom.Levels, 5)
	case QualityPreview:
		out.Resolution.SSAA = min(out.Resolution.SSAA, 1)
		out.Stars.Core.Count = scaleCount(out.Stars.Core.Count, 0.25)
		out.Stars.Halo.Count = scaleCount(out.Stars.Halo.Count, 0.25)
		out.Post.Bloom.Levels = min(out.Post.Bloom.Levels, 4)
		out.Post.Grain.BlueNoise = false
	}
	return out
}

// Workload is a relative cost estimate: supersampled pixels plus stars.
func Workload(cfg SceneConfig) float64 {
	s := float64(max(1, cfg.Resolution.SSAA))
	px := float64(cfg.Resolution.Width) * float64(cfg.Resolution.Height) * s * s
	stars := float64(cfg.Stars.Core.Count + cfg.Stars.Halo.Count)
	return px*float64(max(1, cfg.Post.Bloom.Levels)) + stars
}

func scaleCount(n int, f float64) int {
	if n <= 0 {
		return n
	}
	return max(1, int(math.Round(float64(n)*f)))
}
