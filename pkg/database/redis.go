package database

import (
	"context"
	"fmt"
	"time"

	"hospital-queue/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis creates the redis client used for the lock-reaper lease.
// Scheduling correctness never depends on redis; callers may run without it.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	return client, nil
}
