package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yigit/erpconsole/internal/config"
)

// RedisDB holds the optional redis connection
type RedisDB struct {
	Client *redis.Client
}

// NewRedisDB connects to redis. It returns nil, nil when no address is configured.
func NewRedisDB(cfg *config.Config) (*RedisDB, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to establish redis connection: %w", err)
	}

	return &RedisDB{Client: client}, nil
}

// Health pings redis
func (db *RedisDB) Health(ctx context.Context) error {
	return db.Client.Ping(ctx).Err()
}

// Close closes the connection
func (db *RedisDB) Close() error {
	if db == nil || db.Client == nil {
		return nil
	}
	return db.Client.Close()
}
