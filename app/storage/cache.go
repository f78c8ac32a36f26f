package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedBlobStore is a read-through Redis cache in front of another blob
// store. Cache failures degrade to the underlying store, never to the caller.
type CachedBlobStore struct {
	inner  BlobStore
	client *redis.Client
	ttl    time.Duration
}

var _ BlobStore = (*CachedBlobStore)(nil)

func NewCachedBlobStore(inner BlobStore, addr string, ttl time.Duration) (*CachedBlobStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CachedBlobStore{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}, nil
}

func (c *CachedBlobStore) Write(ctx context.Context, name string, content string) (string, error) {
	url, err := c.inner.Write(ctx, name, content)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, cacheKey(url), content, c.ttl).Err(); err != nil {
		slog.Debug("Failed to prime blob cache", "url", url, "error", err)
	}

	return url, nil
}

func (c *CachedBlobStore) Read(ctx context.Context, url string) (string, error) {
	val, err := c.client.Get(ctx, cacheKey(url)).Result()
	if err == nil {
		return val, nil
	}
	if err != redis.Nil {
		slog.Debug("Blob cache read failed", "url", url, "error", err)
	}

	content, err := c.inner.Read(ctx, url)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, cacheKey(url), content, c.ttl).Err(); err != nil {
		slog.Debug("Failed to populate blob cache", "url", url, "error", err)
	}

	return content, nil
}

func cacheKey(url string) string {
	return "blob:" + url
}
