package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "raffle:webhook:event:"

// RedisDeduplicator remembers gateway event ids for ttl with SET NX.
type RedisDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduplicator(client *redis.Client, ttl time.Duration) *RedisDeduplicator {
	return &RedisDeduplicator{client: client, ttl: ttl}
}

func (d *RedisDeduplicator) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, keyPrefix+eventID, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}
	return ok, nil
}

func (d *RedisDeduplicator) Forget(ctx context.Context, eventID string) error {
	if err := d.client.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("failed to forget webhook event: %w", err)
	}
	return nil
}

// NewRedisClient connects and pings with timeout.
func NewRedisClient(addr, password string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}
