package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/starchart"
)

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, starchart.DefaultSceneConfig(), cfg)
}

func TestMarshal_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*starchart.SceneConfig)
	}{
		{"defaults", func(*starchart.SceneConfig) {}},
		{"free labels and halo color", func(c *starchart.SceneConfig) {
			hc := starchart.Color{0.123456, 0.5, 1}
			c.Rings[0].HaloColor = &hc
			c.Labels = []starchart.FreeLabel{{Text: "M31", R: 0.7, AngleDeg: 40}}
		}},
		{"no grade", func(c *starchart.SceneConfig) {
			c.Post.LUT = starchart.LUT{}
			c.Rings = c.Rings[:1]
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := starchart.DefaultSceneConfig()
			tt.modify(&cfg)

			b, err := Marshal(cfg)
			require.NoError(t, err)
			got, err := Parse(b)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestParse_PartialScene(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 99
resolution:
  width: 640
post:
  bloom:
    intensity: 0.9
rings:
  - r: 0.5
    color: "#ff8000"
    dash: [3, 1]
  - r: 0.8
    width: 2.5
    color: [0.1, 0.2, 0.3]
    labels:
      - text: NORTH
        angle_deg: 90
`))
	require.NoError(t, err)

	def := starchart.DefaultSceneConfig()
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 640, cfg.Resolution.Width)
	assert.Equal(t, def.Resolution.Height, cfg.Resolution.Height)
	assert.Equal(t, 0.9, cfg.Post.Bloom.Intensity)
	assert.Equal(t, def.Post.Bloom.Threshold, cfg.Post.Bloom.Threshold)

	require.Len(t, cfg.Rings, 2)
	r0 := cfg.Rings[0]
	assert.Equal(t, 0.5, r0.R)
	assert.Equal(t, 1.0, r0.Width, "width comes from the ring template")
	assert.Equal(t, []float64{3, 1}, r0.Dash)
	assert.InDelta(t, 1.0, r0.Color[0], 1e-12)
	assert.InDelta(t, 128.0/255, r0.Color[1], 1e-12)
	assert.InDelta(t, 0.0, r0.Color[2], 1e-12)

	r1 := cfg.Rings[1]
	assert.Equal(t, 2.5, r1.Width)
	assert.Equal(t, starchart.Color{0.1, 0.2, 0.3}, r1.Color)
	require.Len(t, r1.Labels, 1)
	assert.Equal(t, "NORTH", r1.Labels[0].Text)
	assert.Equal(t, 90.0, r1.Labels[0].AngleDeg)

	assert.NoError(t, cfg.Validate())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		errSubstr string
	}{
		{"bad yaml", "seed: [1", "parsing scene"},
		{"bad color", "text:\n  color: \"#zz0000\"\n", "invalid color"},
		{"unknown key", "post:\n  blom:\n    intensity: 1\n", "blom"},
		{"ring not a mapping", "rings:\n  - 0.5\n", "rings[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")

	cfg := starchart.DefaultSceneConfig()
	cfg.Seed = 2024
	cfg.Camera.TiltDeg = 30
	require.NoError(t, WriteFile(path, cfg))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 5\npost:\n  vignette: 0.2\n"), 0o644))

	t.Setenv("STARCHART_SEED", "77")
	t.Setenv("STARCHART_POST__VIGNETTE", "0.6")
	t.Setenv("STARCHART_POST__GRAIN__BLUE_NOISE", "false")
	t.Setenv("STARCHART_TEXT__COLOR", "#00ff00")

	cfg, err := LoadFile(path, WithEnv())
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Seed)
	assert.Equal(t, 0.6, cfg.Post.Vignette)
	assert.False(t, cfg.Post.Grain.BlueNoise)
	assert.InDelta(t, 1.0, cfg.Text.Color[1], 1e-12)

	// Without WithEnv the file wins.
	cfg, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.Seed)
	assert.Equal(t, 0.2, cfg.Post.Vignette)
}

func TestDefaults_FlagOverrides(t *testing.T) {
	t.Setenv("STARCHART_RESOLUTION__WIDTH", "300")

	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	fs.Int64("seed", 0, "")
	fs.Int("width", 0, "")
	fs.Int("height", 0, "")
	fs.Int("ssaa", 0, "")
	fs.String("output", "", "")
	require.NoError(t, fs.Parse([]string{"--width=800", "--ssaa=3", "--output=x.png"}))

	cfg, err := Defaults(WithEnv(), WithFlags(fs))
	require.NoError(t, err)

	def := starchart.DefaultSceneConfig()
	assert.Equal(t, 800, cfg.Resolution.Width, "flags take precedence over env")
	assert.Equal(t, 3, cfg.Resolution.SSAA)
	assert.Equal(t, def.Resolution.Height, cfg.Resolution.Height, "unset flags keep the default")
	assert.Equal(t, def.Seed, cfg.Seed)
}
