package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ClaimTrackingCode reserves a freshly generated tracking code so two intakes
// generating the same code in the same instant cannot both persist it. The
// claim expires on its own; the database unique index is the backstop.
func (c *Client) ClaimTrackingCode(ctx context.Context, code string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("tracking:claim:%s", code), "1", ttl).Result()
}

// GetCachedTracking returns a cached tracking response body, if any.
func (c *Client) GetCachedTracking(ctx context.Context, code string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("tracking:result:%s", code)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// SetCachedTracking stores a tracking response body with a TTL.
func (c *Client) SetCachedTracking(ctx context.Context, code string, body []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("tracking:result:%s", code), body, ttl).Err()
}

// InvalidateTracking drops the cached tracking entry after a transition so
// customers never see a stale status for longer than one request.
func (c *Client) InvalidateTracking(ctx context.Context, code string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("tracking:result:%s", code)).Err()
}
