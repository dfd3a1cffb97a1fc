package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBlobStore keeps blobs as plain Redis strings under prefix+key.
type RedisBlobStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobStore wraps an existing client.
func NewRedisBlobStore(client *redis.Client, prefix string) *RedisBlobStore {
	return &RedisBlobStore{client: client, prefix: prefix}
}

func (r *RedisBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: redis get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("catalog: redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisBlobStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
