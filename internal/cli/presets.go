package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/gogpu/starchart"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [scene.yaml]",
		Short: "List quality presets and their cost for a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := loadScene(cmd, path)
			if err != nil {
				return err
			}

			full := starchart.Workload(cfg)
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Preset", "SSAA", "Stars", "Bloom levels", "Blue noise", "Cost"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, Align: text.AlignRight},
				{Number: 3, Align: text.AlignRight},
				{Number: 4, Align: text.AlignRight},
				{Number: 6, Align: text.AlignRight},
			})
			for _, q := range starchart.QualityPresets() {
				c := q.Apply(cfg)
				t.AppendRow(table.Row{
					q.String(),
					c.Resolution.SSAA,
					c.Stars.Core.Count + c.Stars.Halo.Count,
					c.Post.Bloom.Levels,
					c.Post.Grain.BlueNoise,
					fmt.Sprintf("%.0f%%", 100*starchart.Workload(c)/full),
				})
			}
			t.Render()
			return nil
		},
	}
}
