// Package cli provides the starchart command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/starchart"
)

// loggerKey stores the command logger in the context.
type loggerKey struct{}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "starchart",
		Short: "Render stylized star charts",
		Long: `starchart renders a procedural star field with projected orbital rings,
curved labels and a film-style post-processing stack.

Scenes are YAML files; any field can be overridden with STARCHART_*
environment variables, for example STARCHART_POST__BLOOM__INTENSITY=0.8.`,
		Version: starchart.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, loggerKey{}, newLogger(cmd.ErrOrStderr(), verbose)))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newPresetsCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// getLogger returns the logger set up by the root command.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "starchart v%s\n", starchart.Version)
		},
	}
}
