package cache

import (
	"context"
	"fmt"
	"time"

	"gym_crm_backend/pkg/utils"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Redis wraps the shared client used for idempotency replay storage.
type Redis struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedis connects using REDIS_HOST/REDIS_PORT/REDIS_PASSWORD and verifies
// the connection with a ping.
func NewRedis() (*Redis, error) {
	host := utils.Getenv("REDIS_HOST", "localhost")
	port := utils.Getenv("REDIS_PORT", "6379")
	password := utils.Getenv("REDIS_PASSWORD", "")

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Str("addr", fmt.Sprintf("%s:%s", host, port)).Msg("Redis connected")
	return &Redis{client: client, ctx: ctx}, nil
}

// Set stores a key-value pair with expiration.
func (r *Redis) Set(key string, value string, expiration time.Duration) error {
	return r.client.Set(r.ctx, key, value, expiration).Err()
}

// Get retrieves a value by key.
func (r *Redis) Get(key string) (string, error) {
	return r.client.Get(r.ctx, key).Result()
}

// Exists checks if a key exists.
func (r *Redis) Exists(key string) (bool, error) {
	result, err := r.client.Exists(r.ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping checks the Redis connection.
func (r *Redis) Ping() error {
	_, err := r.client.Ping(r.ctx).Result()
	return err
}
