// Package redis holds the rate-limit store: the client connection and the
// sliding-window send limiter built on it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config carries the connection settings for the rate-limit store.
type Config struct {
	Addr string
	DB   int
	// Timeout bounds the startup ping; defaultTimeout when zero.
	Timeout time.Duration
}

// Connect opens a Redis client and pings it so a misconfigured address fails
// at startup rather than on the first send. The limiter degrades gracefully if
// Redis goes away later, so this is the only hard dependency on it.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
