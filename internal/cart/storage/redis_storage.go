package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const REDIS_TIMEOUT = 5 * time.Second
const KEY_PREFIX = "kiosk:"

type redisStorage struct {
	rdb *redis.Client
}

// NewRedisStorage persists kiosk state in redis, for deployments where the
// kiosk box itself has no writable disk.
func NewRedisStorage(addr string) Storage {
	return &redisStorage{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (rs *redisStorage) Load(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), REDIS_TIMEOUT)
	defer cancel()

	data, err := rs.rdb.Get(ctx, KEY_PREFIX+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.Wrap(ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

func (rs *redisStorage) Save(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), REDIS_TIMEOUT)
	defer cancel()

	return rs.rdb.Set(ctx, KEY_PREFIX+key, value, 0).Err()
}
