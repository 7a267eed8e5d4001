package alerts

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCooldownActive indicates an alert was dispatched too recently.
var ErrCooldownActive = errors.New("alert cooldown active")

// Cooldown throttles repeated dispatches per caller using a Redis key with
// expiry. A zero TTL disables throttling entirely.
type Cooldown struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCooldown constructs a Cooldown store.
func NewCooldown(client *redis.Client, ttl time.Duration) *Cooldown {
	return &Cooldown{client: client, ttl: ttl}
}

// Acquire reserves the dispatch window for the caller key. It fails with
// ErrCooldownActive when a previous reservation has not yet expired.
func (c *Cooldown) Acquire(ctx context.Context, key string) error {
	if c == nil || c.ttl <= 0 || key == "" {
		return nil
	}
	ok, err := c.client.SetNX(ctx, "alert:cooldown:"+key, 1, c.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrCooldownActive
	}
	return nil
}

// Release frees the reservation early, used when a dispatch fails outright.
func (c *Cooldown) Release(ctx context.Context, key string) {
	if c == nil || c.ttl <= 0 || key == "" {
		return
	}
	_ = c.client.Del(ctx, "alert:cooldown:"+key).Err()
}
