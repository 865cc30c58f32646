package rediskeeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drstein77/storefront/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// RedisKeeper stores each durable slot as one string key.
type RedisKeeper struct {
	client redis.UniversalClient
	prefix string
	log    Log
}

func NewRedisKeeper(ctx context.Context, addr string, log Log) (*RedisKeeper, error) {
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	kp := NewRedisKeeperWithClient(client, log)
	if !kp.Ping(ctx) {
		client.Close()
		return nil, fmt.Errorf("unable to reach redis at %s", addr)
	}

	log.Info("Connected to redis", zap.String("addr", addr))
	return kp, nil
}

// NewRedisKeeperWithClient wraps an existing client.
func NewRedisKeeperWithClient(client redis.UniversalClient, log Log) *RedisKeeper {
	return &RedisKeeper{
		client: client,
		prefix: "storefront:slot:",
		log:    log,
	}
}

func (kp *RedisKeeper) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := kp.client.Get(ctx, kp.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		kp.log.Error("Failed to read slot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read slot %q from redis: %w", key, err)
	}
	return data, nil
}

func (kp *RedisKeeper) Put(ctx context.Context, key string, value []byte) error {
	if err := kp.client.Set(ctx, kp.prefix+key, value, 0).Err(); err != nil {
		kp.log.Error("Failed to write slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write slot %q to redis: %w", key, err)
	}
	return nil
}

func (kp *RedisKeeper) Delete(ctx context.Context, key string) error {
	n, err := kp.client.Del(ctx, kp.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete slot %q from redis: %w", key, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (kp *RedisKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return kp.client.Ping(ctx).Err() == nil
}

func (kp *RedisKeeper) Close() bool {
	if err := kp.client.Close(); err != nil {
		kp.log.Error("Failed to close redis client", zap.Error(err))
		return false
	}
	kp.log.Info("Redis client closed")
	return true
}
