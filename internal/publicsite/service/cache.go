package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sparklinkhq/sparklink/internal/cache"
	"github.com/sparklinkhq/sparklink/internal/publicsite/domain"
	"go.uber.org/zap"
)

const (
	cacheTTL       = 5 * time.Minute
	cacheKeyPrefix = "publicsite:"
)

// redisSiteCache shares cached sites across instances.
type redisSiteCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSiteCache(client *redis.Client, log *zap.Logger) domain.SiteCache {
	return &redisSiteCache{client: client, log: log.Named("publicsite.cache")}
}

func (c *redisSiteCache) Get(ctx context.Context, username string) (*domain.SiteResponse, bool) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+username).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var site domain.SiteResponse
	if err := json.Unmarshal(raw, &site); err != nil {
		return nil, false
	}
	return &site, true
}

func (c *redisSiteCache) Set(ctx context.Context, username string, site *domain.SiteResponse) {
	raw, err := json.Marshal(site)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+username, raw, cacheTTL).Err(); err != nil {
		c.log.Warn("cache write failed", zap.Error(err))
	}
}

func (c *redisSiteCache) Delete(ctx context.Context, username string) {
	if err := c.client.Del(ctx, cacheKeyPrefix+username).Err(); err != nil {
		c.log.Warn("cache delete failed", zap.Error(err))
	}
}

// memorySiteCache backs single-instance deployments and tests.
type memorySiteCache struct {
	entries cache.Cache[string, *domain.SiteResponse]
}

func NewMemorySiteCache() domain.SiteCache {
	return &memorySiteCache{entries: cache.NewTTLCache[string, *domain.SiteResponse]()}
}

func (c *memorySiteCache) Get(_ context.Context, username string) (*domain.SiteResponse, bool) {
	return c.entries.Get(username)
}

func (c *memorySiteCache) Set(_ context.Context, username string, site *domain.SiteResponse) {
	c.entries.Set(username, site, cacheTTL)
}

func (c *memorySiteCache) Delete(_ context.Context, username string) {
	c.entries.Delete(username)
}
