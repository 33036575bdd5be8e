package redis

import (
	"context"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const keyPrefix = "shop-console:"

// CartStorage keeps cart blobs as plain Redis strings. A non-zero ttl makes
// idle carts expire; every write refreshes it.
type CartStorage struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCartStorage(client *goredis.Client, ttl time.Duration) *CartStorage {
	return &CartStorage{client: client, ttl: ttl}
}

// NewClient accepts either a redis:// URL or a bare host:port.
func NewClient(addr string) *goredis.Client {
	opts, err := goredis.ParseURL(addr)
	if err != nil {
		opts = &goredis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}
	return goredis.NewClient(opts)
}

func (s *CartStorage) Read(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "redis get %q", key)
	}
	return val, true, nil
}

func (s *CartStorage) Write(ctx context.Context, key string, value string) error {
	err := s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err()
	return errors.Wrapf(err, "redis set %q", key)
}

func (s *CartStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
