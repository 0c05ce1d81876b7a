package redisstore

import (
	"context"
	"fmt"
	"time"

	"fxrates-exporter/internal/application"
	infraconfig "fxrates-exporter/internal/infrastructure/config"

	"github.com/redis/go-redis/v9"
)

var _ application.RunLock = (*Lock)(nil)

// Lock holds export keys in Redis until TTL expires.
type Lock struct {
	Client *redis.Client
	TTL    time.Duration
	// Owner is stored as the key value to tell holders apart.
	Owner string
}

// New returns a lock whose keys expire after ttl, one minute when ttl is not
// positive.
func New(client *redis.Client, ttl time.Duration, owner string) *Lock {
	if ttl <= 0 {
		ttl = infraconfig.DefaultLockTTL
	}
	return &Lock{Client: client, TTL: ttl, Owner: owner}
}

func (l *Lock) TryAcquire(ctx context.Context, key string) (bool, error) {
	owner := l.Owner
	if owner == "" {
		owner = "1"
	}
	ok, err := l.Client.SetNX(ctx, key, owner, l.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock %s: %w", key, err)
	}
	return ok, nil
}
