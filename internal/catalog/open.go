package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mabrurgoods/storefront/pkg/config"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

// Open builds the product source selected by cfg: the remote catalog service when a
// base url is configured, otherwise the snapshot file. A missing snapshot file yields
// an empty catalog, so every cart line renders as an unknown product.
func Open(ctx context.Context, cfg config.CatalogConfig, logg *logger.Logger) (Source, error) {
	if cfg.Remote() {
		client, err := NewClient(cfg.BaseURL,
			WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			WithAPIKey(cfg.APIKey),
			WithRetry(cfg.MaxRetries, 0),
			WithCacheSize(cfg.CacheSize),
		)
		if err != nil {
			return nil, fmt.Errorf("build catalog client: %w", err)
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "catalog_url", cfg.BaseURL), "catalog.remote_configured")
		}
		return client, nil
	}

	snapshot, err := LoadFile(cfg.SnapshotPath)
	if err != nil {
		if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "path", cfg.SnapshotPath), "catalog.snapshot_missing")
		}
		return NewSnapshot(nil), nil
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"path":     cfg.SnapshotPath,
			"products": snapshot.Len(),
		}), "catalog.snapshot_loaded")
	}
	return snapshot, nil
}
