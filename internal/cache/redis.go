package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis-backed membership set.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Redis is the production Set backed by a Redis set key.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, opts Options) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Contains(ctx context.Context, member string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, MembershipKey, member).Result()
	if err != nil {
		return false, fmt.Errorf("checking cache membership: %w", err)
	}
	return ok, nil
}

func (r *Redis) Add(ctx context.Context, member string) error {
	if err := r.client.SAdd(ctx, MembershipKey, member).Err(); err != nil {
		return fmt.Errorf("adding cache member: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
