package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/g5becks/srcmd/internal/export"
	"github.com/g5becks/srcmd/internal/ui"
)

func newBufferPrinter(dryRun bool, quiet bool) (*ui.ExportPrinter, *bytes.Buffer) {
	color.NoColor = true

	buf := &bytes.Buffer{}
	return ui.NewExportPrinterWithWriter(buf, dryRun, quiet), buf
}

func TestExportPrinter_SourceLifecycle(t *testing.T) {
	printer, buf := newBufferPrinter(false, false)

	printer.HandleEvent(export.Event{Kind: export.EventSourceStart, Source: "app"})
	printer.HandleEvent(export.Event{
		Kind:   export.EventSourceDone,
		Source: "app",
		Result: &export.SourceResult{Files: 4, Bytes: 2048},
	})

	out := buf.String()
	if !strings.Contains(out, "exporting app") {
		t.Errorf("missing start line:\n%s", out)
	}
	if !strings.Contains(out, "✓ app") || !strings.Contains(out, "4 files") {
		t.Errorf("missing done line:\n%s", out)
	}
}

func TestExportPrinter_Failure(t *testing.T) {
	printer, buf := newBufferPrinter(false, false)

	printer.HandleEvent(export.Event{
		Kind:   export.EventSourceDone,
		Source: "app",
		Err:    errors.New("boom"),
	})

	out := buf.String()
	if !strings.Contains(out, "✗ app") || !strings.Contains(out, "boom") {
		t.Errorf("missing failure line:\n%s", out)
	}
}

func TestExportPrinter_Warning(t *testing.T) {
	printer, buf := newBufferPrinter(false, false)

	printer.HandleEvent(export.Event{
		Kind:   export.EventWarning,
		Source: "app",
		Detail: "big.bin exceeds size limit",
	})

	if !strings.Contains(buf.String(), "exceeds size limit") {
		t.Errorf("missing warning:\n%s", buf.String())
	}
}

func TestExportPrinter_QuietSuppressesChatter(t *testing.T) {
	printer, buf := newBufferPrinter(false, true)

	printer.HandleEvent(export.Event{Kind: export.EventSourceStart, Source: "app"})
	printer.HandleEvent(export.Event{
		Kind:   export.EventSourceDone,
		Source: "app",
		Result: &export.SourceResult{Files: 1},
	})
	printer.PrintSummary(&export.RunResult{Sources: 1, Files: 1})

	if buf.Len() != 0 {
		t.Errorf("quiet printer wrote output:\n%s", buf.String())
	}
}

func TestExportPrinter_Summary(t *testing.T) {
	tests := []struct {
		name    string
		dryRun  bool
		result  *export.RunResult
		wantSub []string
	}{
		{
			name:    "clean run",
			result:  &export.RunResult{Sources: 2, Files: 10},
			wantSub: []string{"export complete", "2 source(s)", "10 files"},
		},
		{
			name:    "with warnings and failures",
			result:  &export.RunResult{Sources: 2, Files: 5, Warnings: 3, Errors: 1},
			wantSub: []string{"3 warning(s)", "1 failed"},
		},
		{
			name:    "dry run",
			dryRun:  true,
			result:  &export.RunResult{Sources: 1},
			wantSub: []string{"dry-run complete", "no files were written"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			printer, buf := newBufferPrinter(tt.dryRun, false)
			printer.PrintSummary(tt.result)

			for _, want := range tt.wantSub {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("summary missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
