package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	redisclient "github.com/zatekoja/dentalclinic/internal/infrastructure/clients/redis"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
	"github.com/zatekoja/dentalclinic/pkg/retry"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another request is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var errLockHeld = errors.New("lock held by another request")

// RedisLocker implements SlotLocker with SET NX PX on a shared Redis
type RedisLocker struct {
	client *redisclient.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker creates a lock that expires after ttl and waits at most wait to acquire
func NewRedisLocker(client *redisclient.Client, ttl, wait time.Duration) providers.SlotLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		wait:   wait,
	}
}

// Acquire blocks until the key is held, wait elapses or ctx is done
func (l *RedisLocker) Acquire(ctx context.Context, key string) (providers.Unlock, error) {
	token := uuid.New().String()

	err := retry.Do(ctx, acquireRetryConfig(l.wait), func() error {
		ok, err := l.client.Client().SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to set lock: %w", err)
		}
		if !ok {
			return errLockHeld
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewTransientError(apperrors.CodeLockUnavailable, "booking is busy, please retry", err).
			WithArabic("النظام مشغول حالياً، يرجى المحاولة مرة أخرى")
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client.Client(), []string{key}, token).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to release booking lock")
		}
	}, nil
}

func acquireRetryConfig(wait time.Duration) retry.Config {
	return retry.Config{
		MaxAttempts:     50,
		InitialDelay:    20 * time.Millisecond,
		MaxDelay:        250 * time.Millisecond,
		BackoffFactor:   1.5,
		MaxTotalTimeout: wait,
	}
}
