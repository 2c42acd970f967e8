package lock

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/parkwise/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLocker picks Redis when an address is configured, otherwise an
// in-process mutex for single-replica deployments.
func NewLocker(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Locker {
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		log.Info("using in-process penalty lock")
		return NewKeyedMutex()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	log.Info("using redis penalty lock", zap.String("addr", addr))
	return NewRedisLocker(client, log, "parkwise:lock:", cfg.Redis.LockTTL)
}

var Module = fx.Module("lock",
	fx.Provide(NewLocker),
)
