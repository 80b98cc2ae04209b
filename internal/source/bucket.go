package source

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/bowerhall/skugraph/internal/logger"
	"github.com/bowerhall/skugraph/internal/storage"
	"github.com/bowerhall/skugraph/internal/triple"
)

// ObjectStore is the part of the storage client the bucket provider needs.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]storage.FileInfo, error)
	Download(ctx context.Context, name string) ([]byte, error)
}

// Bucket reads .sku objects stored under a prefix in an object store.
type Bucket struct {
	store  ObjectStore
	prefix string
}

func NewBucket(store ObjectStore, prefix string) *Bucket {
	return &Bucket{store: store, prefix: prefix}
}

func (b *Bucket) Sources(ctx context.Context) ([]triple.Source, error) {
	files, err := b.store.List(ctx, b.prefix)
	if err != nil {
		return nil, fmt.Errorf("list sku objects: %w", err)
	}

	var names []string
	for _, f := range files {
		if IsSKU(f.Name) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	var sources []triple.Source
	for _, name := range names {
		data, err := b.store.Download(ctx, name)
		if err != nil {
			logger.Warn("could not download sku object", "object", name, "error", err)
			continue
		}

		src, err := triple.ReadSource(name, bytes.NewReader(data))
		if err != nil {
			logger.Warn("could not read sku object", "object", name, "error", err)
			continue
		}

		logger.Debug("sku object read", "object", name, "lines", len(src.Lines))
		sources = append(sources, src)
	}

	return sources, nil
}
