// Package export turns configured source trees into single Markdown
// documents: walk, filter, strip, assemble, normalize, write.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/g5becks/srcmd/internal/config"
	"github.com/g5becks/srcmd/internal/grammar"
	"github.com/g5becks/srcmd/internal/manifest"
	"github.com/g5becks/srcmd/internal/markdown"
	"github.com/g5becks/srcmd/internal/source"
)

const defaultMaxParallel = 4

// EventKind discriminates progress events emitted during a run.
type EventKind int

const (
	EventSourceStart EventKind = iota
	EventSourceDone
	EventWarning
)

// Event is a progress notification delivered to Options.OnEvent.
type Event struct {
	Kind   EventKind
	Source string
	Detail string
	Err    error
	Result *SourceResult
}

// Options controls an export run.
type Options struct {
	SourceNames []string
	DryRun      bool
	MaxParallel int
	OnEvent     func(Event)
}

// SourceResult reports what one source export produced.
type SourceResult struct {
	Source       string
	OutPath      string
	Files        int
	SkippedFiles int
	Attachments  int
	Warnings     int
	Bytes        int64
	Duration     time.Duration
}

// RunResult aggregates a whole run.
type RunResult struct {
	Sources      int
	Files        int
	SkippedFiles int
	Warnings     int
	Errors       int
	DryRun       bool
	Results      []*SourceResult
}

type runner struct {
	cfg     *config.Config
	opts    Options
	fetcher *source.Fetcher
}

// Run exports the requested sources (all configured sources when none are
// named) sequentially; files within a source are processed in parallel.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	sourceNames, err := resolveSourceNames(cfg.Sources, opts.SourceNames)
	if err != nil {
		return nil, err
	}

	outputDir := cfg.OutputDir()
	m, err := manifest.Load(outputDir)
	if err != nil {
		return nil, err
	}

	r := &runner{cfg: cfg, opts: opts, fetcher: source.NewFetcher()}
	result := &RunResult{Sources: len(sourceNames), DryRun: opts.DryRun}

	for _, sourceName := range sourceNames {
		r.emit(Event{Kind: EventSourceStart, Source: sourceName})

		sourceResult, exportErr := r.exportSource(ctx, sourceName, cfg.Sources[sourceName])
		r.emit(Event{Kind: EventSourceDone, Source: sourceName, Err: exportErr, Result: sourceResult})

		if exportErr != nil {
			result.Errors++
			continue
		}

		result.Files += sourceResult.Files
		result.SkippedFiles += sourceResult.SkippedFiles
		result.Warnings += sourceResult.Warnings
		result.Results = append(result.Results, sourceResult)

		if !opts.DryRun {
			m.SetEntry(sourceName, &manifest.Entry{
				OutFile:      cfg.Sources[sourceName].Out,
				Files:        sourceResult.Files,
				SkippedFiles: sourceResult.SkippedFiles,
				Attachments:  sourceResult.Attachments,
				Bytes:        sourceResult.Bytes,
				Warnings:     sourceResult.Warnings,
				Duration:     sourceResult.Duration,
				ExportedAt:   time.Now().UTC(),
			})
		}
	}

	if !opts.DryRun && result.Errors < len(sourceNames) {
		if saveErr := m.Save(outputDir); saveErr != nil {
			return nil, saveErr
		}
	}

	if result.Errors > 0 {
		return result, oops.
			Code("EXPORT_FAILED").
			With("failed_sources", result.Errors).
			Errorf("%d source(s) failed during export", result.Errors)
	}

	return result, nil
}

func (r *runner) emit(e Event) {
	if r.opts.OnEvent != nil {
		r.opts.OnEvent(e)
	}
}

func (r *runner) exportSource(
	ctx context.Context,
	sourceName string,
	sourceCfg config.Source,
) (*SourceResult, error) {
	started := time.Now()
	root := r.cfg.RootDir(sourceCfg)

	entries, err := collectFiles(root, sourceCfg.Patterns, sourceCfg.Exclude)
	if err != nil {
		return nil, err
	}

	result := &SourceResult{Source: sourceName, OutPath: r.cfg.OutputPath(sourceCfg)}

	sections, excluded := r.renderSections(sourceName, sourceCfg, entries)
	result.SkippedFiles = excluded
	for _, section := range sections {
		if section.Skipped {
			result.SkippedFiles++
			continue
		}
		result.Files++
	}

	attachments := r.fetchAttachments(ctx, sourceName, sourceCfg.Attachments)
	for _, attachment := range attachments {
		if attachment.Failed {
			result.Warnings++
			continue
		}
		result.Attachments++
	}
	result.Warnings += countWarnings(sections)

	document := buildDocument(sourceCfg.Title, filepath.Base(root), time.Now(), sections, attachments)
	document = markdown.Normalize(document)
	if sourceCfg.Dedupe() {
		document = markdown.DisambiguateHeadings(document)
	}

	result.Bytes = int64(len(document))

	if !r.opts.DryRun {
		if mkdirErr := os.MkdirAll(filepath.Dir(result.OutPath), 0o750); mkdirErr != nil {
			return nil, oops.
				Code("WRITE_FAILED").
				With("path", result.OutPath).
				Wrapf(mkdirErr, "creating output directory")
		}
		if writeErr := writeFileAtomic(result.OutPath, []byte(document)); writeErr != nil {
			return nil, writeErr
		}
	}

	result.Duration = time.Since(started)
	return result, nil
}

// renderSections reads and renders the selected files concurrently; each
// goroutine writes its own slot, so no locking is needed and the assembled
// order stays the sorted walk order.
func (r *runner) renderSections(
	sourceName string,
	sourceCfg config.Source,
	entries []FileEntry,
) ([]fileSection, int) {
	maxParallel := r.opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}

	slots := make([]*fileSection, len(entries))
	var group errgroup.Group
	group.SetLimit(maxParallel)

	for i, entry := range entries {
		group.Go(func() error {
			slots[i] = r.renderFile(sourceName, sourceCfg, entry)
			return nil
		})
	}

	// Workers never return errors; skips are encoded in the slots.
	_ = group.Wait()

	sections := make([]fileSection, 0, len(entries))
	skipped := 0
	for _, slot := range slots {
		if slot == nil {
			skipped++
			continue
		}
		sections = append(sections, *slot)
	}

	return sections, skipped
}

// renderFile returns nil when the file is excluded outright (binary or
// invalid encoding); unreadable and oversized files keep a section with a
// skip notice.
func (r *runner) renderFile(
	sourceName string,
	sourceCfg config.Source,
	entry FileEntry,
) *fileSection {
	if entry.Size > sourceCfg.MaxFileSize {
		r.emit(Event{
			Kind:   EventWarning,
			Source: sourceName,
			Detail: fmt.Sprintf("%s exceeds size limit (%d bytes)", entry.RelPath, entry.Size),
		})
		return &fileSection{
			Entry:   entry,
			Skipped: true,
			Body:    skipNotice(fmt.Sprintf("file exceeds the size limit (%d bytes)", entry.Size)),
		}
	}

	raw, err := os.ReadFile(entry.AbsPath)
	if err != nil {
		r.emit(Event{
			Kind:   EventWarning,
			Source: sourceName,
			Detail: fmt.Sprintf("%s could not be read: %v", entry.RelPath, err),
		})
		return &fileSection{
			Entry:   entry,
			Skipped: true,
			Body:    skipNotice("file could not be read"),
		}
	}

	raw = stripBOM(raw)
	if isBinary(raw) || !isValidUTF8(raw) {
		return nil
	}

	content := string(raw)
	stripped := false
	if sourceCfg.StripComments {
		ext := filepath.Ext(entry.RelPath)
		if next := grammar.Strip(content, ext); next != content {
			stripped = true
			content = next
		}
	}

	return &fileSection{
		Entry:    entry,
		Lines:    strings.Count(content, "\n") + 1,
		Stripped: stripped,
		Body:     renderFileBody(entry.RelPath, content, sourceCfg.LineNumbers),
	}
}

func (r *runner) fetchAttachments(
	ctx context.Context,
	sourceName string,
	urls []string,
) []attachmentSection {
	sections := make([]attachmentSection, 0, len(urls))

	for _, url := range urls {
		attachment, err := r.fetcher.Fetch(ctx, url)
		if err != nil {
			r.emit(Event{
				Kind:   EventWarning,
				Source: sourceName,
				Detail: fmt.Sprintf("attachment %s failed: %v", url, err),
			})
			sections = append(sections, attachmentSection{Name: url, URL: url, Failed: true})
			continue
		}

		sections = append(sections, attachmentSection{
			Name:    attachment.Name,
			URL:     attachment.URL,
			Content: attachment.Content,
		})
	}

	return sections
}

func countWarnings(sections []fileSection) int {
	warnings := 0
	for _, section := range sections {
		if section.Skipped {
			warnings++
		}
	}
	return warnings
}

func resolveSourceNames(
	sourceConfigs map[string]config.Source,
	requestedNames []string,
) ([]string, error) {
	if len(requestedNames) == 0 {
		sourceNames := make([]string, 0, len(sourceConfigs))
		for sourceName := range sourceConfigs {
			sourceNames = append(sourceNames, sourceName)
		}

		slices.Sort(sourceNames)
		return sourceNames, nil
	}

	sourceNames := make([]string, 0, len(requestedNames))
	seen := make(map[string]struct{}, len(requestedNames))

	for _, sourceName := range requestedNames {
		if _, ok := sourceConfigs[sourceName]; !ok {
			return nil, oops.
				Code("SOURCE_NOT_FOUND").
				With("source", sourceName).
				Hint("Run 'srcmd list' to see configured sources").
				Errorf("source %q not found in config", sourceName)
		}

		if _, exists := seen[sourceName]; exists {
			continue
		}

		seen[sourceName] = struct{}{}
		sourceNames = append(sourceNames, sourceName)
	}

	return sourceNames, nil
}
