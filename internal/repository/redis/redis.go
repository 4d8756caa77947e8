// Package redis implements the KV port on Redis strings.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/and161185/veriuser/internal/errs"
)

// DefaultPrefix namespaces the collection keys.
const DefaultPrefix = "veriuser:"

// KV stores each collection under prefix+key without expiry.
type KV struct {
	client *redis.Client
	prefix string
}

// Option configures a KV instance.
type Option func(*KV)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(p string) Option {
	return func(k *KV) { k.prefix = p }
}

// New connects to the Redis server at url and verifies the connection.
func New(ctx context.Context, url string, opts ...Option) (*KV, error) {
	o, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(o)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewWithClient(client, opts...), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, opts ...Option) *KV {
	k := &KV{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	return k
}

// Close closes the Redis connection.
func (k *KV) Close() error {
	return k.client.Close()
}

// Load returns the blob stored under key.
func (k *KV) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := k.client.Get(ctx, k.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return b, nil
}

// Save replaces the blob stored under key.
func (k *KV) Save(ctx context.Context, key string, data []byte) error {
	if err := k.client.Set(ctx, k.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
