package manifest_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/g5becks/srcmd/internal/manifest"
)

func TestLoad_MissingReturnsEmpty(t *testing.T) {
	m, err := manifest.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if m.Version != 1 {
		t.Errorf("Version = %d, want 1", m.Version)
	}
	if len(m.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", m.Sources)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := manifest.New()
	m.SetEntry("app", &manifest.Entry{
		OutFile:      "app.md",
		Files:        12,
		SkippedFiles: 3,
		Bytes:        4096,
		Duration:     250 * time.Millisecond,
		ExportedAt:   time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
	})

	if err := m.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entry := loaded.GetEntry("app")
	if entry == nil {
		t.Fatal("GetEntry() = nil, want entry")
	}
	if entry.Files != 12 || entry.SkippedFiles != 3 || entry.OutFile != "app.md" {
		t.Errorf("entry = %+v, want saved values", entry)
	}
	if !entry.ExportedAt.Equal(time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("ExportedAt = %v", entry.ExportedAt)
	}
}

func TestLoad_CorruptManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".srcmd.manifest.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing corrupt manifest: %v", err)
	}

	if _, err := manifest.Load(dir); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

func TestSave_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	if err := manifest.New().Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".srcmd.manifest.json")); err != nil {
		t.Errorf("manifest file not written: %v", err)
	}
}
