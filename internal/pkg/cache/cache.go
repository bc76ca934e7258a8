package cache

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/StreamFox/internal/pkg/env"
)

// Store is the key-value surface the webhook pipeline and the video caches
// are built on. Values are opaque strings; durability and visibility follow
// whatever backend implements it.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes key unconditionally.
	Set(ctx context.Context, key, value string) error
	// SetNX writes key only if it does not exist yet and reports whether
	// the write happened.
	SetNX(ctx context.Context, key, value string) (bool, error)
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var (
	client *redis.Client
	once   sync.Once
)

// SetupCache initializes the connection to the Redis cache server.
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")
	password := env.GetEnv("CACHE_PASSWORD", "")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	// Test the connection
	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to Redis cache: %v", err)
	} else {
		log.Printf("Successfully connected to Redis cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	once.Do(func() {
		if client == nil {
			SetupCache()
		}
	})
	return client
}

// RedisStore adapts the shared Redis client to the Store interface.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by the given client. A nil client
// falls back to the shared connection from SetupCache.
func NewRedisStore(c *redis.Client) *RedisStore {
	if c == nil {
		c = GetClient()
	}
	return &RedisStore{client: c}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) SetNX(ctx context.Context, key, value string) (bool, error) {
	return s.client.SetNX(ctx, key, value, 0).Result()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
