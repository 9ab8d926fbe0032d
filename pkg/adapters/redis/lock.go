package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/mindshifting/mindshift/pkg/ports"
)

// Locker implements ports.DistributedLocker using Redis SET NX PX.
// One replica holds a session at a time; the TTL guards against a
// crashed holder.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Locker{client: client, prefix: prefix}
}

// unlockScript releases the lock only when this holder still owns it.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Lock acquires the lock for key, polling with backoff until acquired
// or the context is canceled.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	// The value identifies this holder so an expired lock reclaimed by
	// another replica is never released by us.
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis error acquiring lock: %w", err)
		}
		if success {
			return func(ctx context.Context) error {
				return l.client.Eval(ctx, unlockScript, []string{lockKey}, val).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
