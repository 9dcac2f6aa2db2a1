package analytics

import (
	"context"

	"go-lms/internal/config"
	"go-lms/internal/database"
	"go-lms/internal/metrics"
	"go-lms/internal/scheduler"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewProvider wires the warehouse provider behind the widget data cache. Redis is used when
// REDIS_ADDR is set, otherwise an in-memory cache purged by the scheduler.
func NewProvider(lc fx.Lifecycle, cfg *config.Config, wh *database.Warehouse, sched scheduler.Scheduler, m *metrics.Metrics, logger *zap.Logger) (Provider, error) {
	var cache Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Warn("redis not reachable, widget data will be fetched uncached", zap.Error(err))
				}
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		cache = NewRedisCache(client, logger)
	} else {
		mem := NewMemoryCache(cfg.WidgetCacheSize)
		if err := sched.Named("widget-cache-purge", "@every 1m", func() { mem.Purge() }); err != nil {
			return nil, err
		}
		cache = mem
	}

	return NewCachedProvider(NewSQLProvider(wh, m, logger), cache, cfg.WidgetCacheTTL, m), nil
}
