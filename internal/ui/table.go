package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

type SourceStatus struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	OutFile    string    `json:"out_file"`
	Patterns   []string  `json:"patterns,omitempty"`
	Strip      bool      `json:"strip_comments"`
	Status     string    `json:"status"`
	FileCount  int       `json:"file_count,omitempty"`
	ExportedAt time.Time `json:"exported_at,omitzero"`
}

type ListOptions struct {
	JSON    bool
	Verbose bool
}

func RenderSourceList(sources []SourceStatus, opts ListOptions) error {
	if opts.JSON {
		return renderSourceListJSON(sources)
	}

	renderSourceListTable(sources, opts)
	return nil
}

func renderSourceListJSON(sources []SourceStatus) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(sources); err != nil {
		return fmt.Errorf("encode source list json: %w", err)
	}

	return nil
}

func renderSourceListTable(sources []SourceStatus, opts ListOptions) {
	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.SetStyle(table.StyleRounded)

	if opts.Verbose {
		writer.AppendHeader(table.Row{"SOURCE", "PATH", "OUTPUT", "STATUS", "PATTERNS", "STRIP"})
	} else {
		writer.AppendHeader(table.Row{"SOURCE", "PATH", "OUTPUT", "STATUS"})
	}

	for _, source := range sources {
		status := renderStatus(source)

		if opts.Verbose {
			writer.AppendRow(table.Row{
				source.Name,
				source.Path,
				source.OutFile,
				status,
				strings.Join(source.Patterns, ", "),
				source.Strip,
			})
			continue
		}

		writer.AppendRow(table.Row{
			source.Name,
			source.Path,
			source.OutFile,
			status,
		})
	}

	writer.Render()
}

func renderStatus(source SourceStatus) string {
	if source.Status == "exported" && source.FileCount > 0 {
		return fmt.Sprintf("exported (%d files, %s)",
			source.FileCount,
			source.ExportedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	return source.Status
}
