package analytics

import (
	"context"
	"time"

	"go-lms/internal/metrics"
)

// CachedProvider serves repeated requests for the same widget context from a cache.
// Refresh requests skip the read but still store the new answer. Failures are never cached.
type CachedProvider struct {
	next    Provider
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCachedProvider(next Provider, cache Cache, ttl time.Duration, m *metrics.Metrics) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl, metrics: m}
}

func (p *CachedProvider) FetchWidgetData(ctx context.Context, req Request) (WidgetData, error) {
	key := req.CacheKey()
	if !req.Refresh {
		if data, ok := p.cache.Get(ctx, key); ok {
			p.metrics.ObserveCache(true)
			return data, nil
		}
		p.metrics.ObserveCache(false)
	}

	data, err := p.next.FetchWidgetData(ctx, req)
	if err != nil {
		return WidgetData{}, err
	}
	p.cache.Set(ctx, key, data, p.ttl)
	return data, nil
}
