package app

import (
	"context"
	"io"
	"time"

	"github.com/kilianp07/matchcast/config"
	"github.com/kilianp07/matchcast/infra/dataset"
	"github.com/kilianp07/matchcast/infra/firestore"
	"github.com/kilianp07/matchcast/infra/logger"
)

// buildSource creates the configured data source, wrapped in the Redis cache
// when enabled. An unreachable cache is logged and skipped.
func buildSource(ctx context.Context, cfg config.SourceConfig, log logger.Logger) (dataset.Source, []io.Closer, error) {
	var src dataset.Source
	switch cfg.Type {
	case config.SourceFirestore:
		fs, err := firestore.New(ctx, cfg.Firestore, logger.New("firestore"))
		if err != nil {
			return nil, nil, err
		}
		src = fs
	default:
		src = dataset.NewFileSource(cfg.Path)
	}
	if !cfg.Cache.Enabled {
		return src, nil, nil
	}
	cache := dataset.NewRedisCache(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cache.Ping(pctx); err != nil {
		log.Warnf("dataset cache %s unavailable, reading %s directly: %v", cfg.Cache.Addr, src.Name(), err)
		_ = cache.Close()
		return src, nil, nil
	}
	cached := &dataset.CachedSource{Source: src, Cache: cache, TTL: cfg.Cache.TTL(), Log: log}
	return cached, []io.Closer{cache}, nil
}
