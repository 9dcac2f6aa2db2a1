package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache shares widget data between API instances. Values are stored as JSON, so Data
// comes back in its generic form.
type RedisCache struct {
	client redis.UniversalClient
	logger *zap.Logger
}

func NewRedisCache(client redis.UniversalClient, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) (WidgetData, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("widget cache read failed", zap.String("key", key), zap.Error(err))
		}
		return WidgetData{}, false
	}

	var data WidgetData
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Warn("widget cache entry corrupt", zap.String("key", key), zap.Error(err))
		return WidgetData{}, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, data WidgetData, ttl time.Duration) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("widget cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn("widget cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("widget cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
