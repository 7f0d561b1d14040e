package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisClient{Client: client}, nil
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}

// SessionStorage implements fiber.Storage on top of Redis so sessions
// survive restarts and can be shared between instances.
type SessionStorage struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

var _ fiber.Storage = (*SessionStorage)(nil)

func NewSessionStorage(client *redis.Client, prefix string) *SessionStorage {
	return &SessionStorage{client: client, prefix: prefix, timeout: 3 * time.Second}
}

func (s *SessionStorage) key(k string) string {
	return s.prefix + k
}

func (s *SessionStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *SessionStorage) Get(key string) ([]byte, error) {
	if len(key) == 0 {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if len(key) == 0 || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	return s.client.Set(ctx, s.key(key), val, exp).Err()
}

func (s *SessionStorage) Delete(key string) error {
	if len(key) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	return s.client.Del(ctx, s.key(key)).Err()
}

// Reset removes every session under the prefix.
func (s *SessionStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the owning RedisClient closes the connection pool.
func (s *SessionStorage) Close() error {
	return nil
}
