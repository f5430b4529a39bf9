package main

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/srcmd/internal/config"
	"github.com/g5becks/srcmd/internal/export"
	"github.com/g5becks/srcmd/internal/ui"
)

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export configured source trees to Markdown",
		ArgsUsage: "[source-name...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Assemble documents without writing files"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only print warnings and errors"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum parallel file reads", Value: defaultParallel},
		},
		Action: exportAction,
	}
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	quiet := cmd.Bool("quiet")
	sourceNames := cmd.Args().Slice()

	printer := ui.NewExportPrinter(dryRun, quiet)
	writer, tracker := newProgress(cfg, sourceNames, quiet)
	if writer != nil {
		writer.SetOutputWriter(os.Stderr)
		go writer.Render()
	}

	opts := export.Options{
		SourceNames: sourceNames,
		DryRun:      dryRun,
		MaxParallel: cmd.Int("parallel"),
		OnEvent: func(e export.Event) {
			printer.HandleEvent(e)
			if tracker != nil && e.Kind == export.EventSourceDone {
				tracker.Increment(1)
			}
		},
	}

	result, runErr := export.Run(ctx, cfg, opts)
	if writer != nil {
		tracker.MarkAsDone()
		writer.Stop()
	}

	printer.PrintSummary(result)
	return runErr
}

// newProgress builds a source-level progress bar for multi-source runs.
// Returns nil for quiet or single-source runs; the caller starts and stops
// the renderer.
func newProgress(cfg *config.Config, sourceNames []string, quiet bool) (progress.Writer, *progress.Tracker) {
	total := len(sourceNames)
	if total == 0 {
		total = len(cfg.Sources)
	}

	if quiet || total < 2 {
		return nil, nil
	}

	writer := ui.NewProgressWriter()
	tracker := &progress.Tracker{Message: "exporting sources", Total: int64(total)}
	writer.AppendTracker(tracker)

	return writer, tracker
}
