package snapshot

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/sitekit/internal/config"
	"go.uber.org/zap"
)

// Provide selects the snapshot backend. Redis when configured and reachable,
// otherwise the in-memory store so the wizard keeps working without durable
// crash recovery.
func Provide(cfg config.Config, log *zap.Logger) Store {
	if cfg.RedisAddr == "" {
		log.Warn("redis not configured, wizard snapshots are in-memory only")
		return NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, wizard snapshots are in-memory only",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		return NewMemoryStore()
	}

	log.Info("wizard snapshots backed by redis", zap.String("addr", cfg.RedisAddr))
	return NewRedisStore(client, cfg.SnapshotTTL)
}
