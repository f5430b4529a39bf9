package export_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/g5becks/srcmd/internal/config"
	"github.com/g5becks/srcmd/internal/export"
	"github.com/g5becks/srcmd/internal/manifest"
	"github.com/g5becks/srcmd/internal/markdown"
)

func writeFile(t *testing.T, root string, rel string, content []byte) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func testConfig(t *testing.T, src config.Source) *config.Config {
	t.Helper()

	cfg := &config.Config{
		ConfigDir: t.TempDir(),
		Sources:   map[string]config.Source{"app": src},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestRun_ExportsTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main // entry\n\nfunc main() {}\n"))
	writeFile(t, root, "sub/util.go", []byte("package sub\n"))
	writeFile(t, root, "README.md", []byte("# Readme\n"))
	writeFile(t, root, "image.bin", []byte{0x00, 0x01, 0x02})
	writeFile(t, root, "node_modules/dep.js", []byte("ignored()\n"))

	cfg := testConfig(t, config.Source{Path: root, StripComments: true})

	result, err := export.Run(context.Background(), cfg, export.Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Files != 3 {
		t.Errorf("Files = %d, want 3", result.Files)
	}
	if result.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1 (binary)", result.SkippedFiles)
	}

	outPath := cfg.OutputPath(cfg.Sources["app"])
	data, readErr := os.ReadFile(outPath)
	if readErr != nil {
		t.Fatalf("reading output: %v", readErr)
	}
	document := string(data)

	for _, want := range []string{
		"# Source Code Export",
		"## Directory Tree",
		"## Table of Contents",
		"## main.go",
		"## sub/util.go",
		"```go",
	} {
		if !strings.Contains(document, want) {
			t.Errorf("document missing %q", want)
		}
	}

	if strings.Contains(document, "// entry") {
		t.Error("comment survived strip_comments = true")
	}
	if strings.Contains(document, "dep.js") {
		t.Error("node_modules content leaked into export")
	}
	if strings.Contains(document, "image.bin") {
		t.Error("binary file leaked into export")
	}
}

func TestRun_OutputIsNormalized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("x = 1  # comment\n"))
	writeFile(t, root, "docs.md", []byte("##Heading\n\n\n\ntext\n"))

	cfg := testConfig(t, config.Source{Path: root})

	if _, err := export.Run(context.Background(), cfg, export.Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(cfg.OutputPath(cfg.Sources["app"]))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	document := string(data)
	if normalized := markdown.Normalize(document); normalized != document {
		t.Error("written document is not a fixed point of Normalize")
	}
}

func TestRun_SizeLimitSkipNotice(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", []byte(strings.Repeat("x", 100)))
	writeFile(t, root, "small.txt", []byte("ok\n"))

	cfg := testConfig(t, config.Source{Path: root, MaxFileSize: 10})

	result, err := export.Run(context.Background(), cfg, export.Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1", result.SkippedFiles)
	}

	data, _ := os.ReadFile(cfg.OutputPath(cfg.Sources["app"]))
	document := string(data)

	if !strings.Contains(document, "big.txt") {
		t.Error("oversized file missing from document")
	}
	if !strings.Contains(document, "exceeds the size limit") {
		t.Error("skip notice missing")
	}
	if strings.Contains(document, strings.Repeat("x", 100)) {
		t.Error("oversized body was embedded")
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main\n"))

	cfg := testConfig(t, config.Source{Path: root})

	result, err := export.Run(context.Background(), cfg, export.Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.DryRun {
		t.Error("DryRun flag lost")
	}

	if _, statErr := os.Stat(cfg.OutputPath(cfg.Sources["app"])); !os.IsNotExist(statErr) {
		t.Error("dry run wrote the output file")
	}
	if _, statErr := os.Stat(cfg.OutputDir()); !os.IsNotExist(statErr) {
		t.Error("dry run created the output directory")
	}
}

func TestRun_WritesManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main\n"))

	cfg := testConfig(t, config.Source{Path: root})

	if _, err := export.Run(context.Background(), cfg, export.Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	m, err := manifest.Load(cfg.OutputDir())
	if err != nil {
		t.Fatalf("manifest.Load() error = %v", err)
	}

	entry := m.GetEntry("app")
	if entry == nil {
		t.Fatal("manifest entry missing")
	}
	if entry.Files != 1 {
		t.Errorf("manifest Files = %d, want 1", entry.Files)
	}
	if entry.OutFile != "app.md" {
		t.Errorf("manifest OutFile = %q, want app.md", entry.OutFile)
	}
}

func TestRun_UnknownSource(t *testing.T) {
	cfg := testConfig(t, config.Source{Path: t.TempDir()})

	_, err := export.Run(context.Background(), cfg, export.Options{SourceNames: []string{"nope"}})
	if err == nil {
		t.Fatal("Run() error = nil, want SOURCE_NOT_FOUND")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestRun_MissingRoot(t *testing.T) {
	cfg := testConfig(t, config.Source{Path: filepath.Join(t.TempDir(), "missing")})

	result, err := export.Run(context.Background(), cfg, export.Options{})
	if err == nil {
		t.Fatal("Run() error = nil, want export failure")
	}
	if result == nil || result.Errors != 1 {
		t.Errorf("result = %+v, want one errored source", result)
	}
}

func TestRun_PatternsAndExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", []byte("package a\n"))
	writeFile(t, root, "keep_test.go", []byte("package a\n"))
	writeFile(t, root, "skip.txt", []byte("text\n"))

	cfg := testConfig(t, config.Source{
		Path:     root,
		Patterns: []string{"**/*.go"},
		Exclude:  []string{"**/*_test.go"},
	})

	if _, err := export.Run(context.Background(), cfg, export.Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, _ := os.ReadFile(cfg.OutputPath(cfg.Sources["app"]))
	document := string(data)

	if !strings.Contains(document, "## keep.go") {
		t.Error("keep.go missing")
	}
	if strings.Contains(document, "keep_test.go") {
		t.Error("excluded file included")
	}
	if strings.Contains(document, "skip.txt") {
		t.Error("non-matching file included")
	}
}

func TestRun_EventsEmitted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main\n"))

	cfg := testConfig(t, config.Source{Path: root})

	var kinds []export.EventKind
	opts := export.Options{
		OnEvent: func(e export.Event) {
			kinds = append(kinds, e.Kind)
		},
	}

	if _, err := export.Run(context.Background(), cfg, opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(kinds) < 2 || kinds[0] != export.EventSourceStart || kinds[len(kinds)-1] != export.EventSourceDone {
		t.Errorf("events = %v, want start..done", kinds)
	}
}
