package export

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/oops"

	"github.com/g5becks/srcmd/internal/config"
)

// FileEntry is one file selected for export.
type FileEntry struct {
	RelPath string // slash-separated, relative to the source root
	AbsPath string
	Size    int64
}

// collectFiles walks root depth-first and returns the files matching the
// include patterns and not matching the excludes, sorted by relative path.
// Directories named in config.DefaultExcludes are never descended into.
func collectFiles(root string, patterns []string, exclude []string) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, oops.
			Code("ROOT_NOT_FOUND").
			With("path", root).
			Hint("Check the source path in your config").
			Wrapf(err, "reading source root")
	}

	if !info.IsDir() {
		return nil, oops.
			Code("ROOT_NOT_FOUND").
			With("path", root).
			Errorf("source root %q is not a directory", root)
	}

	for _, pattern := range append(slices.Clone(patterns), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, oops.
				Code("CONFIG_INVALID").
				With("pattern", pattern).
				Hint("Use doublestar glob syntax, e.g. **/*.go").
				Errorf("invalid glob pattern %q", pattern)
		}
	}

	skipDirs := config.DefaultExcludes()
	var entries []FileEntry

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && slices.Contains(skipDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(patterns, rel) || matchesAny(exclude, rel) {
			return nil
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		entries = append(entries, FileEntry{
			RelPath: rel,
			AbsPath: path,
			Size:    fileInfo.Size(),
		})

		return nil
	})
	if walkErr != nil {
		return nil, oops.
			Code("WALK_FAILED").
			With("path", root).
			Wrapf(walkErr, "walking source root")
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})

	return entries, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}

	return false
}
