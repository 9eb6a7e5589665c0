package ratings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/smartbet/internal/config"
	"github.com/rickgao/smartbet/internal/database"
	"github.com/rickgao/smartbet/internal/elo"
)

// Open creates the persister selected by cfg.Driver. The returned close
// function releases its connections and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (elo.Persister, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case "file":
		logger.Info("using file ratings storage", "dir", cfg.Dir)
		return NewFile(cfg.Dir), func() {}, nil

	case "memory":
		logger.Info("using in-memory ratings storage")
		return NewMemory(), func() {}, nil

	case "postgres":
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connect ratings database: %w", err)
		}
		p := NewPostgres(pool)
		if err := p.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("using postgres ratings storage",
			"host", cfg.Postgres.Host,
			"database", cfg.Postgres.Name,
		)
		return p, pool.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("using redis ratings storage",
			"addr", cfg.Redis.Addr,
			"prefix", cfg.Redis.KeyPrefix,
		)
		return NewRedis(client, cfg.Redis.KeyPrefix), func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
