// README: Redis client initialization for the settings and route caches.
package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when addr is empty; callers treat a nil client as "no cache".
func NewRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
