package source

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/bowerhall/skugraph/internal/logger"
	"github.com/bowerhall/skugraph/internal/triple"
)

// Extension marks a file as a triple file. Matching is case-insensitive.
const Extension = ".sku"

// Provider hands the loader the raw lines of every triple file it finds.
type Provider interface {
	Sources(ctx context.Context) ([]triple.Source, error)
}

func IsSKU(name string) bool {
	return strings.EqualFold(path.Ext(name), Extension)
}

// Multi concatenates the sources of several providers in order. A failing
// provider is logged and skipped; Multi only fails when all of them do.
type Multi []Provider

func (m Multi) Sources(ctx context.Context) ([]triple.Source, error) {
	var (
		all  []triple.Source
		errs []error
	)

	for _, p := range m {
		srcs, err := p.Sources(ctx)
		if err != nil {
			logger.Warn("source provider failed", "error", err)
			errs = append(errs, err)
			continue
		}
		all = append(all, srcs...)
	}

	if len(m) > 0 && len(errs) == len(m) {
		return nil, errors.Join(errs...)
	}

	return all, nil
}
