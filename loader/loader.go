// Package loader reads and writes scene files.
//
// A scene file is YAML using the snake_case keys of starchart.SceneConfig.
// Loading layers sources in increasing precedence:
//
//  1. starchart.DefaultSceneConfig
//  2. the scene file
//  3. STARCHART_* environment variables, when WithEnv is given
//  4. command-line flags that were explicitly set, when WithFlags is given
//
// Nested keys in environment variables are separated by a double
// underscore: STARCHART_POST__BLOOM__INTENSITY=0.8 sets
// post.bloom.intensity. Colors may be written as "#rrggbb" or as a list of
// three sRGB components in [0, 1].
//
// Lists replace the default list as a whole. Each ring entry starts from
// a plain white-blue ring of width 1, so only the fields that differ need
// to be written.
package loader

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/gogpu/starchart"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "STARCHART_"

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"seed":   "seed",
	"width":  "resolution.width",
	"height": "resolution.height",
	"ssaa":   "resolution.ssaa",
	"tilt":   "camera.tilt_deg",
	"fov":    "camera.fov_deg",
}

// ringTemplate supplies the fields a ring entry leaves out.
var ringTemplate = starchart.Ring{
	Width:         1,
	Color:         starchart.RGB(0xcc, 0xd6, 0xf0),
	LabelAngleDeg: 270,
}

// Option configures a load.
type Option func(*options)

type options struct {
	env   bool
	flags *pflag.FlagSet
}

// WithEnv applies STARCHART_* environment overrides.
func WithEnv() Option {
	return func(o *options) { o.env = true }
}

// WithFlags applies the changed flags of fs. Recognized flag names are
// seed, width, height, ssaa, tilt and fov; others are ignored.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *options) { o.flags = fs }
}

// LoadFile reads the scene file at path.
func LoadFile(path string, opts ...Option) (starchart.SceneConfig, error) {
	return load(file.Provider(path), path, opts)
}

// Parse decodes a scene from YAML bytes.
func Parse(data []byte, opts ...Option) (starchart.SceneConfig, error) {
	m, err := yaml.Parser().Unmarshal(data)
	if err != nil {
		return starchart.SceneConfig{}, fmt.Errorf("parsing scene: %w", err)
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return load(confmap.Provider(m, "."), "", opts)
}

// Defaults returns starchart.DefaultSceneConfig after environment and
// flag overrides.
func Defaults(opts ...Option) (starchart.SceneConfig, error) {
	return load(nil, "", opts)
}

func load(src koanf.Provider, name string, opts []Option) (starchart.SceneConfig, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	defaults, err := toMap(starchart.DefaultSceneConfig())
	if err != nil {
		return starchart.SceneConfig{}, err
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return starchart.SceneConfig{}, fmt.Errorf("loading defaults: %w", err)
	}

	if src != nil {
		var p koanf.Parser
		if name != "" {
			p = yaml.Parser()
		}
		if err := k.Load(src, p); err != nil {
			if name != "" {
				return starchart.SceneConfig{}, fmt.Errorf("reading scene file %s: %w", name, err)
			}
			return starchart.SceneConfig{}, fmt.Errorf("reading scene: %w", err)
		}
	}

	if o.env {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return starchart.SceneConfig{}, fmt.Errorf("loading env vars: %w", err)
		}
	}

	if o.flags != nil {
		fs := o.flags
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		}), nil); err != nil {
			return starchart.SceneConfig{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	if err := fillRings(k); err != nil {
		return starchart.SceneConfig{}, err
	}

	var cfg starchart.SceneConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				colorHook,
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	}); err != nil {
		return starchart.SceneConfig{}, fmt.Errorf("decoding scene: %w", err)
	}
	return cfg, nil
}

// envKey turns STARCHART_POST__BLOOM__INTENSITY into post.bloom.intensity.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// fillRings completes every ring entry from ringTemplate.
func fillRings(k *koanf.Koanf) error {
	raw, ok := k.Get("rings").([]interface{})
	if !ok {
		return nil
	}
	tmpl, err := toMap(ringTemplate)
	if err != nil {
		return err
	}
	out := make([]interface{}, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return fmt.Errorf("rings[%d]: expected a mapping, got %T", i, r)
		}
		merged := maps.Clone(tmpl)
		maps.Copy(merged, m)
		out[i] = merged
	}
	return k.Set("rings", out)
}

var colorType = reflect.TypeOf(starchart.Color{})

func colorHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != colorType || from.Kind() != reflect.String {
		return data, nil
	}
	c, err := starchart.ParseColor(data.(string))
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", data, err)
	}
	return c, nil
}

// toMap converts v to the generic map form koanf merges.
func toMap(v any) (map[string]interface{}, error) {
	b, err := yamlv3.Marshal(v)
	if err != nil {
		return nil, err
	}
	return yaml.Parser().Unmarshal(b)
}

// Marshal encodes cfg as a scene file.
func Marshal(cfg starchart.SceneConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes cfg to path as a scene file.
func WriteFile(path string, cfg starchart.SceneConfig) error {
	b, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
