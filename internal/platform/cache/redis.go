package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/keurgym/membership/pkg/config"
)

// NewClient returns a redis client, or nil when caching is not configured.
// Reporting treats a nil client as cache-off and queries straight through.
func NewClient(lc fx.Lifecycle, l *zap.SugaredLogger, cfg *cfgpkg.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		l.Infow("redis not configured, report caching disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// Cache is best-effort; do not block startup on it.
				l.Warnw("redis ping failed, continuing without cache", "err", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

var Module = fx.Options(
	fx.Provide(NewClient),
)
