package main

import (
	"context"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/srcmd/internal/config"
	"github.com/g5becks/srcmd/internal/manifest"
	"github.com/g5becks/srcmd/internal/ui"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List configured sources and last export status",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.BoolFlag{Name: "json", Usage: "Emit JSON output"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show expanded source fields"},
		},
		Action: listAction,
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.OutputDir())
	if err != nil {
		return err
	}

	sourceNames := make([]string, 0, len(cfg.Sources))
	for sourceName := range cfg.Sources {
		sourceNames = append(sourceNames, sourceName)
	}
	slices.Sort(sourceNames)

	statuses := make([]ui.SourceStatus, 0, len(sourceNames))
	for _, sourceName := range sourceNames {
		sourceCfg := cfg.Sources[sourceName]
		status := ui.SourceStatus{
			Name:     sourceName,
			Path:     sourceCfg.Path,
			OutFile:  sourceCfg.Out,
			Patterns: sourceCfg.Patterns,
			Strip:    sourceCfg.StripComments,
			Status:   "not exported",
		}

		if entry := m.GetEntry(sourceName); entry != nil {
			status.Status = "exported"
			status.FileCount = entry.Files
			status.ExportedAt = entry.ExportedAt
		}

		statuses = append(statuses, status)
	}

	return ui.RenderSourceList(statuses, ui.ListOptions{
		JSON:    cmd.Bool("json"),
		Verbose: cmd.Bool("verbose"),
	})
}
