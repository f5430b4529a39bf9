package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/g5becks/srcmd/internal/export"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// ExportPrinter renders export progress events to stderr with colored
// output. Events may arrive from worker goroutines, hence the mutex.
type ExportPrinter struct {
	w      io.Writer
	dryRun bool
	quiet  bool
	mu     sync.Mutex
	s      styles
}

// NewExportPrinter creates an ExportPrinter that writes to stderr.
func NewExportPrinter(dryRun bool, quiet bool) *ExportPrinter {
	return &ExportPrinter{
		w:      os.Stderr,
		dryRun: dryRun,
		quiet:  quiet,
		s:      newStyles(),
	}
}

// NewExportPrinterWithWriter creates an ExportPrinter that writes to the
// given writer.
func NewExportPrinterWithWriter(w io.Writer, dryRun bool, quiet bool) *ExportPrinter {
	return &ExportPrinter{
		w:      w,
		dryRun: dryRun,
		quiet:  quiet,
		s:      newStyles(),
	}
}

// HandleEvent is the callback wired into export.Options.OnEvent.
func (p *ExportPrinter) HandleEvent(e export.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case export.EventSourceStart:
		if p.quiet {
			return
		}
		fmt.Fprintf(p.w, "%s exporting %s...\n",
			p.s.dim.Sprint("⟳"),
			p.s.bold.Sprint(e.Source),
		)

	case export.EventWarning:
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.s.yellow.Sprint("!"),
			p.s.bold.Sprint(e.Source),
			e.Detail,
		)

	case export.EventSourceDone:
		p.handleDone(e)
	}
}

func (p *ExportPrinter) handleDone(e export.Event) {
	if e.Err != nil {
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.s.red.Sprint("✗"),
			p.s.bold.Sprint(e.Source),
			e.Err,
		)
		return
	}

	if p.quiet || e.Result == nil {
		return
	}

	detail := fmt.Sprintf("(%d files, %s)", e.Result.Files, formatBytes(e.Result.Bytes))
	if e.Result.SkippedFiles > 0 {
		detail = fmt.Sprintf("(%d files, %d skipped, %s)",
			e.Result.Files, e.Result.SkippedFiles, formatBytes(e.Result.Bytes))
	}

	fmt.Fprintf(p.w, "%s %s %s\n",
		p.s.green.Sprint("✓"),
		p.s.bold.Sprint(e.Source),
		p.s.dim.Sprint(detail),
	)
}

// PrintSummary renders a final summary line after the run completes.
func (p *ExportPrinter) PrintSummary(r *export.RunResult) {
	if r == nil || p.quiet {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "export complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	parts := fmt.Sprintf("%s: %d source(s), %d files, %d skipped",
		label,
		r.Sources,
		r.Files,
		r.SkippedFiles,
	)

	if r.Warnings > 0 {
		parts += fmt.Sprintf(", %s", p.s.yellow.Sprintf("%d warning(s)", r.Warnings))
	}
	if r.Errors > 0 {
		parts += fmt.Sprintf(", %s", p.s.red.Sprintf("%d failed", r.Errors))
	}

	fmt.Fprintln(p.w, parts)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("no files were written"))
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
