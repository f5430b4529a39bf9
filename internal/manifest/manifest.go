// Package manifest persists the outcome of the last export run next to the
// generated documents, so `srcmd list` can report status without re-walking
// source trees.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

const (
	fileName       = ".srcmd.manifest.json"
	currentVersion = 1
)

type Manifest struct {
	Version int               `json:"version"`
	Sources map[string]*Entry `json:"sources"`
}

// Entry records one source's most recent export.
type Entry struct {
	OutFile      string        `json:"out_file"`
	Files        int           `json:"files"`
	SkippedFiles int           `json:"skipped_files"`
	Attachments  int           `json:"attachments,omitempty"`
	Bytes        int64         `json:"bytes"`
	Warnings     int           `json:"warnings,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
	ExportedAt   time.Time     `json:"exported_at"`
}

func New() *Manifest {
	return &Manifest{
		Version: currentVersion,
		Sources: map[string]*Entry{},
	}
}

func Load(outputDir string) (*Manifest, error) {
	manifestPath := filepath.Join(outputDir, fileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}

		return nil, oops.
			Code("MANIFEST_ERROR").
			With("path", manifestPath).
			Wrapf(err, "reading manifest")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code("MANIFEST_ERROR").
			With("path", manifestPath).
			Hint("Delete the manifest and run 'srcmd export' to regenerate it").
			Wrapf(unmarshalErr, "parsing manifest")
	}

	if m.Version == 0 {
		m.Version = currentVersion
	}

	if m.Sources == nil {
		m.Sources = map[string]*Entry{}
	}

	return m, nil
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_ERROR").
			Errorf("cannot save nil manifest")
	}

	if m.Version == 0 {
		m.Version = currentVersion
	}

	if m.Sources == nil {
		m.Sources = map[string]*Entry{}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return oops.
			Code("MANIFEST_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating output directory")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return oops.
			Code("MANIFEST_ERROR").
			Wrapf(err, "encoding manifest")
	}

	data = append(data, '\n')
	manifestPath := filepath.Join(outputDir, fileName)

	tempFile, err := os.CreateTemp(outputDir, fileName+".*.tmp")
	if err != nil {
		return oops.
			Code("MANIFEST_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating temporary manifest")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("MANIFEST_ERROR").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary manifest")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code("MANIFEST_ERROR").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary manifest")
	}

	if renameErr := os.Rename(tempPath, manifestPath); renameErr != nil {
		return oops.
			Code("MANIFEST_ERROR").
			With("from", tempPath).
			With("to", manifestPath).
			Wrapf(renameErr, "replacing manifest")
	}

	return nil
}

func (m *Manifest) GetEntry(name string) *Entry {
	if m == nil {
		return nil
	}

	return m.Sources[name]
}

func (m *Manifest) SetEntry(name string, entry *Entry) {
	if m == nil {
		return
	}

	if m.Sources == nil {
		m.Sources = map[string]*Entry{}
	}

	m.Sources[name] = entry
}
