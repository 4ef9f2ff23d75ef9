// Package redis implements kv.Provider on a Redis database. Keys are
// namespaced with the application name.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/kv"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store provides key-value persistence in Redis.
type Store struct {
	opts   Options
	client *redis.Client
}

var _ kv.Provider = (*Store)(nil)

// New creates a Store that connects on Init or Load.
func New(opts Options) *Store {
	return &Store{opts: opts}
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func namespaced(key string) string {
	return constants.AppName + ":" + key
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     s.opts.Addr,
		Password: s.opts.Password,
		DB:       s.opts.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return fmt.Errorf("could not connect to redis (%s): %w", s.opts.Addr, err)
	}
	s.client = client
	return nil
}

func (s *Store) Init() error { return s.connect() }
func (s *Store) Load() error { return s.connect() }

func (s *Store) Location() string {
	if s.opts.Addr == "" {
		return "redis"
	}
	return fmt.Sprintf("redis://%s/%d", s.opts.Addr, s.opts.DB)
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return kv.ErrNotLoaded
	}
	return s.client.Ping(ctx).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.client == nil {
		return "", false, kv.ErrNotLoaded
	}
	data, err := s.client.Get(ctx, namespaced(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.client == nil {
		return kv.ErrNotLoaded
	}
	if err := s.client.Set(ctx, namespaced(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.client == nil {
		return kv.ErrNotLoaded
	}
	if err := s.client.Del(ctx, namespaced(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
