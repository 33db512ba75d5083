package publicsite

import (
	"github.com/redis/go-redis/v9"
	"github.com/sparklinkhq/sparklink/internal/config"
	"github.com/sparklinkhq/sparklink/internal/publicsite/domain"
	"github.com/sparklinkhq/sparklink/internal/publicsite/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideCache(cfg config.Config, log *zap.Logger) domain.SiteCache {
	if cfg.RedisAddr == "" {
		return service.NewMemorySiteCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return service.NewRedisSiteCache(client, log)
}

var Module = fx.Module("publicsite.service",
	fx.Provide(provideCache),
	fx.Provide(service.New),
)
