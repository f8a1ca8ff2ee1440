package sessionstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKey ключ, под которым хранится токен сессии.
const RedisKey = "storefront:session:token"

// Redis хранит токен под одним ключом без срока жизни.
type Redis struct {
	client *redis.Client
}

// NewRedis создаёт бэкенд и проверяет доступность сервера.
func NewRedis(ctx context.Context, client *redis.Client) (*Redis, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// Save записывает токен под ключом RedisKey.
func (r *Redis) Save(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, RedisKey, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Load читает токен. Отсутствие ключа даёт ErrNoToken.
func (r *Redis) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, RedisKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return token, nil
}

// Clear удаляет ключ с токеном.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, RedisKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (r *Redis) Close() error {
	return r.client.Close()
}
