package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
)

// SnapshotCacheKey is the redis key holding the latest school document.
const SnapshotCacheKey = "edubridge:school-data"

// CacheRepository is the gateway's local cache: it always holds the latest
// snapshot regardless of whether the remote write succeeded. Entries do not
// expire; the cache is a fallback copy, not a TTL cache.
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// Get retrieves the cached document bytes.
func (r *CacheRepository) Get(ctx context.Context) ([]byte, error) {
	if r == nil || r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, SnapshotCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", SnapshotCacheKey, err)
	}

	return raw, nil
}

// Set stores the document bytes without expiry.
func (r *CacheRepository) Set(ctx context.Context, payload []byte) error {
	if r == nil || r.client == nil {
		return nil
	}

	if err := r.client.Set(ctx, SnapshotCacheKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", SnapshotCacheKey, err)
	}

	return nil
}
