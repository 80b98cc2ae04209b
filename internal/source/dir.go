package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bowerhall/skugraph/internal/logger"
	"github.com/bowerhall/skugraph/internal/triple"
)

// Dir reads the .sku files directly inside a local directory. It does not
// descend into subdirectories.
type Dir struct {
	Path string
}

func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

func (d *Dir) Sources(ctx context.Context) ([]triple.Source, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("sku directory does not exist, skipping", "dir", d.Path)
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", d.Path, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsSKU(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var sources []triple.Source
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src, err := readFile(filepath.Join(d.Path, name), name)
		if err != nil {
			logger.Warn("could not read sku file", "file", name, "error", err)
			continue
		}

		logger.Debug("sku file read", "file", name, "lines", len(src.Lines))
		sources = append(sources, src)
	}

	return sources, nil
}

func readFile(path, name string) (triple.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return triple.Source{}, err
	}
	defer f.Close()

	return triple.ReadSource(name, f)
}
