package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps cart payloads in Redis, one string value per key.
// A zero TTL keeps carts forever; deployments usually set one so abandoned
// carts age out.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(addr, password string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
		ttl: ttl,
	}
}

func (r *RedisStorage) Read(key string) (string, bool, error) {
	val, err := r.client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStorage) Write(key, value string) error {
	return r.client.Set(context.Background(), key, value, r.ttl).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
