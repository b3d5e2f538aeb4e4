package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/dailyword/internal/logging"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
	"golang.org/x/sync/singleflight"
)

type catalogSource interface {
	Translations(ctx context.Context) ([]models.Translation, error)
}

// Directory holds the catalog of translations the provider account is
// licensed for. The catalog is fetched once and kept for the life of the
// process; a restart is the only refresh.
type Directory struct {
	source catalogSource
	logger logging.Logger

	mu      sync.RWMutex
	catalog []models.Translation
	group   singleflight.Group
}

func NewDirectory(source catalogSource, logger logging.Logger) *Directory {
	return &Directory{source: source, logger: logger.With("module", "directory")}
}

// ListAuthorizedTranslations returns the cached catalog, fetching it on first
// use. Concurrent first callers share one fetch. A failed fetch is not cached.
func (d *Directory) ListAuthorizedTranslations(ctx context.Context) ([]models.Translation, error) {
	if catalog, ok := d.cached(); ok {
		return catalog, nil
	}

	v, err, shared := d.group.Do("catalog", func() (any, error) {
		if catalog, ok := d.cached(); ok {
			return catalog, nil
		}

		catalog, err := d.source.Translations(context.WithoutCancel(ctx))
		if err != nil {
			d.logger.Error(ctx, "catalog fetch failed", "error", err)
			return nil, fmt.Errorf("list translations: %w", err)
		}

		// an empty catalog is not kept, so a later call asks again
		if len(catalog) > 0 {
			d.mu.Lock()
			d.catalog = catalog
			d.mu.Unlock()
		}

		d.logger.Info(ctx, "catalog loaded", "translations", len(catalog))
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		d.logger.Debug(ctx, "catalog fetch shared")
	}
	return slices.Clone(v.([]models.Translation)), nil
}

func (d *Directory) cached() ([]models.Translation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.catalog) == 0 {
		return nil, false
	}
	return slices.Clone(d.catalog), true
}
