package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tastopo/tastopo/pkg/mapimage"
	"github.com/tastopo/tastopo/pkg/pipeline"
)

// generateCommand creates the generate command, the heart of the CLI.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		translate string
		noCache   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate <location>",
		Short: "Generate a topographic map sheet",
		Long: `Generate a print-ready topographic map sheet centred on a location.

The location is either a place name, resolved through the ListMap place
search, or a geo URI with explicit coordinates:

  tastopo generate "Quamby Bluff"
  tastopo generate geo:-41.6432,145.938

The sheet is written as SVG by default; PDF export requires librsvg.
Service responses are cached under ~/.cache/tastopo between runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Location = args[0]
			c.Config.applyDefaults(&opts)

			var err error
			opts.TranslateX, opts.TranslateY, err = pipeline.ParseTranslate(translate)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			return c.runGenerate(cmd, opts, noCache)
		},
	}

	cmd.Flags().UintVarP(&opts.Scale, "scale", "s", 0, "print scale ratio (default 25000)")
	cmd.Flags().IntVarP(&opts.Zoom, "zoom", "z", 0, "imagery resolution adjustment in powers of two")
	cmd.Flags().StringVar(&translate, "translate", "", "shift the map centre by dx,dy metres")
	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "override the sheet title")
	cmd.Flags().StringVarP(&opts.Paper, "paper", "p", "", "ISO 216 sheet size, A0 to A5 (default A4)")
	cmd.Flags().BoolVar(&opts.Portrait, "portrait", false, "rotate the sheet to portrait")
	cmd.Flags().BoolVar(&opts.NoGrid, "no-grid", false, "omit the kilometre grid overlay")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: svg (default) or pdf")
	cmd.Flags().StringVarP(&opts.Out, "output", "o", "", "output file (default: derived from the title)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "refetch cached service responses")

	return cmd
}

// runGenerate executes the pipeline and presents the result. On a quiet
// terminal run a spinner stands in for the progress logs.
func (c *CLI) runGenerate(cmd *cobra.Command, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	runner := c.newRunner(noCache)

	var spinner *Spinner
	if isInteractive() && c.Logger.GetLevel() != log.DebugLevel {
		// Warnings only while the spinner owns the terminal line.
		c.SetLogLevel(log.WarnLevel)
		spinner = newSpinnerWithContext(ctx, "Generating map sheet...")
		spinner.Start()
	}

	result, err := runner.Run(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	printSuccess("Sheet generated")
	printFile(result.OutputPath)
	printDetail("%s · 1:%d · %s · %s", result.Location.URI(), opts.Scale, mapimage.Datum, formatBytes(result.Size))
	printDetail("Sheet ID: %s", result.SheetID)
	return nil
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f kB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
