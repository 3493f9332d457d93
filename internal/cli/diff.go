package cli

import (
	"fmt"
	"image"
	_ "image/png" // register decoder
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/tiff" // register decoder

	"github.com/gogpu/starchart"
)

func newDiffCommand() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two rendered images",
		Long: `Print the mean absolute RGB difference of two images, normalized to [0, 1].
The command fails when the difference exceeds --threshold.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readImage(args[0])
			if err != nil {
				return err
			}
			b, err := readImage(args[1])
			if err != nil {
				return err
			}
			d, err := starchart.MeanAbsDiff(a, b)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mean abs diff: %.6f\n", d)
			if d > threshold {
				return fmt.Errorf("images differ by %.6f (threshold %.6f)", d, threshold)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.01, "maximum accepted difference")
	return cmd
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}
