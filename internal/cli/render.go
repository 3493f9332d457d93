package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gogpu/starchart"
	"github.com/gogpu/starchart/encode"
	"github.com/gogpu/starchart/loader"
)

const watchDebounce = 150 * time.Millisecond

type renderFlags struct {
	output  string
	quality string
	depth   int
	workers int
	font    string
	layers  bool
	watch   bool
	quiet   bool
}

func newRenderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [scene.yaml]",
		Short: "Render a scene to PNG or TIFF",
		Long: `Render a scene file, or the built-in default scene when no file is given.

The output format follows the extension of --output (.png, .tif, .tiff).
With --layers the stars, ui_core, ui_glow and final_linear buffers are
written next to the output as 16-bit linear images. With --watch the scene
file is re-rendered whenever it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if f.watch && path == "" {
				return errors.New("--watch needs a scene file")
			}
			if _, err := encode.FormatFromPath(f.output); err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := renderOnce(ctx, cmd, path, f); err != nil {
				return err
			}
			if !f.watch {
				return nil
			}

			w, err := newFileWatcher(path)
			if err != nil {
				return err
			}
			log := getLogger(ctx)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", path)
			return w.Run(ctx, watchDebounce, func(ctx context.Context) {
				if err := renderOnce(ctx, cmd, path, f); err != nil {
					// Keep watching; the next save may fix the scene.
					log.Error("render failed", "scene", path, "err", err)
				}
			}, log)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "starchart.png", "output image (.png, .tif, .tiff)")
	fl.StringVarP(&f.quality, "quality", "q", starchart.QualityFinal.String(), "quality preset (preview, draft, final)")
	fl.IntVar(&f.depth, "depth", 8, "output bit depth (8 or 16)")
	fl.IntVar(&f.workers, "workers", 0, "pixel workers (0 = GOMAXPROCS)")
	fl.StringVar(&f.font, "font", "", "TrueType/OpenType font file for labels")
	fl.BoolVar(&f.layers, "layers", false, "also write the intermediate layers")
	fl.BoolVarP(&f.watch, "watch", "w", false, "re-render when the scene file changes")
	fl.BoolVar(&f.quiet, "quiet", false, "do not print the summary table")

	// Scene overrides, applied by the loader when set.
	fl.Int64("seed", 0, "override the scene seed")
	fl.Int("width", 0, "override the output width")
	fl.Int("height", 0, "override the output height")
	fl.Int("ssaa", 0, "override the supersampling factor")
	fl.Float64("tilt", 0, "override the camera tilt in degrees")
	fl.Float64("fov", 0, "override the camera field of view in degrees")

	_ = cmd.RegisterFlagCompletionFunc("quality", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, q := range starchart.QualityPresets() {
			names = append(names, q.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// loadScene reads path, or the defaults when path is empty, with
// environment and flag overrides applied.
func loadScene(cmd *cobra.Command, path string) (starchart.SceneConfig, error) {
	opts := []loader.Option{loader.WithEnv(), loader.WithFlags(cmd.Flags())}
	if path == "" {
		return loader.Defaults(opts...)
	}
	return loader.LoadFile(path, opts...)
}

func renderOnce(ctx context.Context, cmd *cobra.Command, path string, f renderFlags) error {
	cfg, err := loadScene(cmd, path)
	if err != nil {
		return err
	}
	q, err := starchart.ParseQualityPreset(f.quality)
	if err != nil {
		return err
	}
	cfg = q.Apply(cfg)

	opts := []starchart.RenderOption{
		starchart.WithWorkers(f.workers),
		starchart.WithBitDepth(f.depth),
		starchart.WithLogger(getLogger(ctx)),
	}
	if f.font != "" {
		data, err := os.ReadFile(f.font)
		if err != nil {
			return fmt.Errorf("reading font: %w", err)
		}
		opts = append(opts, starchart.WithFontData(data))
	}

	res, err := starchart.Render(ctx, cfg, opts...)
	if err != nil {
		return err
	}

	if err := encode.WriteFile(f.output, res.Image); err != nil {
		return fmt.Errorf("writing %s: %w", f.output, err)
	}
	written := []string{f.output}
	if f.layers {
		for _, l := range starchart.Layers() {
			p := encode.LayerPath(f.output, l)
			if err := encode.WriteLayer(p, res.Layer(l)); err != nil {
				return fmt.Errorf("writing %s: %w", p, err)
			}
			written = append(written, p)
		}
	}

	for _, w := range res.Warnings {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if !f.quiet {
		printSummary(cmd.OutOrStdout(), cfg, q, res, written)
	}
	return nil
}

func printSummary(w io.Writer, cfg starchart.SceneConfig, q starchart.QualityPreset, res *starchart.RenderResult, written []string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stage", "Time"})
	for _, s := range res.Diagnostics.Stages {
		t.AppendRow(table.Row{s.Stage, s.Duration.Round(time.Microsecond)})
	}
	t.AppendFooter(table.Row{"total", res.Diagnostics.Total().Round(time.Microsecond)})
	t.Render()

	d := res.Diagnostics
	_, _ = fmt.Fprintf(w, "%dx%d ssaa %d (%s), seed %d, %d stars, %d clamps, %d placement iterations\n",
		res.Image.Width, res.Image.Height, cfg.Resolution.SSAA, q, d.Seed, d.Stars, d.NumericClamps, d.PlacementIterations)
	for _, p := range written {
		_, _ = fmt.Fprintf(w, "wrote %s\n", p)
	}
}
