package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/srcmd/internal/markdown"
)

func newOutlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Usage:     "Show the heading outline of a generated document",
		ArgsUsage: "<file.md>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: outlineAction,
	}
}

func outlineAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: srcmd outline <file.md>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	filePath := cmd.Args().Get(0)
	content, err := os.ReadFile(filePath)
	if err != nil {
		return oops.
			Code("FILE_READ_ERROR").
			With("path", filePath).
			Wrapf(err, "reading document")
	}

	headings := markdown.ExtractOutline(content)

	if cmd.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if encodeErr := encoder.Encode(headings); encodeErr != nil {
			return oops.
				Code("JSON_ERROR").
				Wrapf(encodeErr, "encoding outline")
		}
		return nil
	}

	for _, heading := range headings {
		indent := strings.Repeat("  ", heading.Level-1)
		fmt.Printf("%s%s (line %d)\n", indent, heading.Text, heading.Line)
	}

	return nil
}
