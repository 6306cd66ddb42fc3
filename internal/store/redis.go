package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisPrefix namespaces every key written by RedisKV.
const RedisPrefix = "wenyan:"

// RedisOptions configures the Redis-backed KV.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisKV implements KV on a Redis server.
type RedisKV struct {
	client *redis.Client
}

// OpenRedis connects to Redis and verifies the connection with PING.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &UnavailableError{Op: "ping redis", Err: err}
	}
	return &RedisKV{client: client}, nil
}

// NewRedisKV wraps an existing client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, RedisPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &UnavailableError{Op: "get " + key, Err: err}
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, RedisPrefix+key, value, 0).Err(); err != nil {
		return &UnavailableError{Op: "set " + key, Err: err}
	}
	return nil
}

// Close releases the Redis connection pool.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
