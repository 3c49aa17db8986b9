package server

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figtree/pkg/cache"
	"github.com/matzehuels/figtree/pkg/config"
	"github.com/matzehuels/figtree/pkg/pipeline"
	"github.com/matzehuels/figtree/pkg/store"
)

// redisPrefix namespaces the server's keys in a shared Redis.
const redisPrefix = "figtree:"

// keyScope separates server cache entries from CLI entries sharing a
// backend.
const keyScope = "server:"

// NewRunner opens the backends named by cfg: Redis for the bundle cache,
// and MongoDB, a directory or memory for templates, in that order of
// preference.
func NewRunner(ctx context.Context, cfg *config.Server, logger *log.Logger) (*pipeline.Runner, error) {
	var c cache.Cache = cache.NewNullCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, redisPrefix)
		if err != nil {
			return nil, err
		}
		c = rc
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	logger.Info("backends ready",
		"cache", cacheName(cfg),
		"store", pipeline.BackendName(st))
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyScope)
	return pipeline.NewRunner(c, keyer, st, logger), nil
}

func openStore(ctx context.Context, cfg *config.Server) (store.Store, error) {
	switch {
	case cfg.MongoURI != "":
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	case cfg.StoreDir != "":
		return store.NewFileStore(cfg.StoreDir)
	default:
		return store.NewMemoryStore(), nil
	}
}

func cacheName(cfg *config.Server) string {
	if cfg.RedisURL != "" {
		return "redis"
	}
	return "none"
}
