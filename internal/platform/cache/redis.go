// Package cache opens the Redis connection shared by sessions, exports and the job queue.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// New creates a Redis client and checks that it answers.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// QueueOpts returns the asynq connection options for addr.
func QueueOpts(addr string) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr}
}
