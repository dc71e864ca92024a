package catalog

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirSource enumerates artifact files produced by a prior stage. Files with
// a leading underscore (ledgers, run summaries) are internal and skipped.
type DirSource struct {
	dir string
	ext string
}

var _ Source = (*DirSource)(nil)

// NewDirSource builds a source over dir, filtered to the given extension
// (including the dot, e.g. ".md").
func NewDirSource(dir, ext string) (*DirSource, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("directory required")
	}
	if !strings.HasPrefix(ext, ".") {
		return nil, errors.New("extension must start with a dot")
	}
	return &DirSource{dir: dir, ext: ext}, nil
}

// Enumerate lists matching artifact files in name order. A missing directory
// yields an empty catalog: the prior stage simply has not produced anything.
func (s *DirSource) Enumerate(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var items []Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), s.ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		items = append(items, Item{
			Key:         name,
			Title:       strings.TrimSuffix(name, filepath.Ext(name)),
			PublishedAt: info.ModTime(),
			Path:        filepath.Join(s.dir, name),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items, nil
}
