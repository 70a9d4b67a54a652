package wordlebot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/cached"
	"github.com/wordlestats/wordlebot/wordlebot/storage/file"
	"github.com/wordlestats/wordlebot/wordlebot/storage/memory"
	"github.com/wordlestats/wordlebot/wordlebot/storage/mongo"
	"github.com/wordlestats/wordlebot/wordlebot/storage/postgres"
	"github.com/wordlestats/wordlebot/wordlebot/storage/redis"
	"github.com/wordlestats/wordlebot/wordlebot/storage/spaces"
)

// OpenStore connects the configured backend and, unless disabled, puts the
// stats cache in front of it.
func OpenStore(ctx context.Context, cfg StorageConfig) (storage.Store, error) {
	start := time.Now()

	store, err := OpenBackend(ctx, cfg.Backend, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("Storage opened",
		slog.String("type", "sys"),
		slog.String("backend", cfg.Backend),
		slog.Duration("took", time.Since(start)))

	if cfg.DisableCache {
		return store, nil
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = config.StatsCacheSize
	}
	c, err := cached.New(store, size, config.StatsCacheExpiration)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

// OpenBackend opens one backend by name without any caching. The migration
// tool uses it to open two backends from the same config.
func OpenBackend(ctx context.Context, backend string, cfg StorageConfig) (storage.Store, error) {
	switch strings.ToLower(backend) {
	case BackendPostgres:
		s, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := mongo.Open(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSpaces:
		s, err := spaces.Open(ctx, cfg.Spaces)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		s, err := file.Open(cfg.File.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendHistory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
