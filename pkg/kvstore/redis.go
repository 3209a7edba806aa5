package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/mabrurgoods/storefront/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestKey(key string) string
}

// Redis stores entries under storefront:guest:<key> without expiry.
type Redis struct {
	client redisClient
}

func NewRedis(client redisClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.client.GuestKey(key))
	if errors.Is(err, redis.ErrNil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.GuestKey(key), value, 0)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.GuestKey(key))
}
