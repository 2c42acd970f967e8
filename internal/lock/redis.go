package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLocker is a SetNX lock with token-checked release.
type RedisLocker struct {
	client *redis.Client
	script *redis.Script
	log    *zap.Logger

	prefix     string
	ttl        time.Duration
	retryEvery time.Duration
}

func NewRedisLocker(client *redis.Client, log *zap.Logger, prefix string, ttl time.Duration) *RedisLocker {
	if client == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:     client,
		script:     redis.NewScript(lockReleaseScript),
		log:        log.Named("lock.redis"),
		prefix:     prefix,
		ttl:        ttl,
		retryEvery: 25 * time.Millisecond,
	}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, ErrNotConfigured
	}
	if key == "" {
		return "", false, ErrEmptyKey
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if key == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{l.prefix + key}, token).Err()
}

// Acquire polls TryLock until it succeeds or ctx is done.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ticker := time.NewTicker(l.retryEvery)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return nil, acquireErr(err)
		}

		token, ok, err := l.TryLock(ctx, key)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, acquireErr(ctxErr)
			}
			return nil, err
		}
		if ok {
			return func() {
				if err := l.Release(context.Background(), key, token); err != nil {
					l.log.Warn("release failed", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, acquireErr(ctx.Err())
		case <-ticker.C:
		}
	}
}

func acquireErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrNotAcquired
	}
	return err
}
