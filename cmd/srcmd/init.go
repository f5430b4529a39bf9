package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"
)

const starterConfig = `# srcmd configuration
output = "export"

[sources.app]
path = "."
patterns = ["**/*"]
exclude = ["export/**"]
strip_comments = false
line_numbers = false
dedupe_headings = true
`

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create a starter srcmd.toml in the current directory",
		Action: initAction,
	}
}

func initAction(_ context.Context, _ *cli.Command) error {
	const configName = "srcmd.toml"

	if _, err := os.Stat(configName); err == nil {
		return oops.
			Code("CONFIG_EXISTS").
			With("path", configName).
			Hint("Edit the existing file instead").
			Errorf("%s already exists", configName)
	}

	if err := os.WriteFile(configName, []byte(starterConfig), 0o644); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", configName).
			Wrapf(err, "writing starter config")
	}

	fmt.Printf("created %s\n", configName)
	return nil
}
