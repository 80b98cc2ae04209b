package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bowerhall/skugraph/internal/config"
	"github.com/bowerhall/skugraph/internal/factstore"
	"github.com/bowerhall/skugraph/internal/graph"
	"github.com/bowerhall/skugraph/internal/logger"
	"github.com/bowerhall/skugraph/internal/reload"
	"github.com/bowerhall/skugraph/internal/source"
	"github.com/bowerhall/skugraph/internal/storage"
)

// app is everything a command needs once the knowledge graph is loaded.
type app struct {
	cfg       *config.Config
	index     *graph.Index
	reloader  *reload.Reloader
	snapshots *factstore.Store
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &exitError{code: exitLoadFailed, err: err}
	}

	logger.SetDebug(cfg.Debug)
	return cfg, nil
}

func newBucketClient(ctx context.Context, cfg config.BucketConfig) (*storage.Client, error) {
	client, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Name,
	})
	if err != nil {
		return nil, err
	}

	if err := client.Init(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// openApp loads config, discovers sources and builds the index.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, index: graph.New()}

	providers := source.Multi{source.NewDir(cfg.SKUDir)}

	if cfg.Bucket.Enabled {
		client, err := newBucketClient(ctx, cfg.Bucket)
		if err != nil {
			logger.Warn("bucket source disabled", "endpoint", cfg.Bucket.Endpoint, "error", err)
		} else {
			providers = append(providers, source.NewBucket(client, cfg.Bucket.Prefix))
			logger.Debug("bucket source enabled", "bucket", cfg.Bucket.Name, "prefix", cfg.Bucket.Prefix)
		}
	}

	var snapshots reload.Snapshots
	if cfg.SnapshotPath != "" {
		store, err := factstore.Open(cfg.SnapshotPath)
		if err != nil {
			return nil, &exitError{code: exitLoadFailed, err: fmt.Errorf("open snapshot %s: %w", cfg.SnapshotPath, err)}
		}
		a.snapshots = store
		snapshots = store
	}

	a.reloader = reload.New(providers, a.index, snapshots)

	out, err := a.reloader.Reload(ctx)
	if err != nil {
		a.Close()
		return nil, &exitError{code: exitLoadFailed, err: err}
	}

	if len(out.Result.Triples) == 0 {
		if len(out.Result.Failures) > 0 {
			a.Close()
			return nil, &exitError{
				code: exitLoadFailed,
				err:  errors.New("no usable index: every triple line failed to parse"),
			}
		}
		logger.Warn("no facts loaded", "dir", cfg.SKUDir)
	}

	return a, nil
}

func (a *app) Close() {
	a.reloader.Stop()

	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			logger.Warn("could not close snapshot store", "error", err)
		}
	}
}
