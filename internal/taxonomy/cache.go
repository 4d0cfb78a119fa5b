package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/redis"
)

// cacheStore is the slice of the redis client the cache needs.
type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Cache stores the snapshot blob in Redis and mirrors it to a static file
// for fallback reads. The file write is best effort: failures are logged
// and swallowed.
type Cache struct {
	store    cacheStore
	logg     *logger.Logger
	key      string
	ttl      time.Duration
	filePath string
}

// CacheParams configure the snapshot cache.
type CacheParams struct {
	Store    cacheStore
	Logger   *logger.Logger
	Key      string
	TTL      time.Duration
	FilePath string
}

// NewCache builds the snapshot cache.
func NewCache(params CacheParams) (*Cache, error) {
	if params.Store == nil {
		return nil, errors.New("cache store is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Key == "" {
		return nil, errors.New("cache key is required")
	}
	if params.TTL <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}
	return &Cache{
		store:    params.Store,
		logg:     params.Logger,
		key:      params.Key,
		ttl:      params.TTL,
		filePath: params.FilePath,
	}, nil
}

// Get returns the cached snapshot, or nil on a miss.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot cache: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot cache: %w", err)
	}
	return &snapshot, nil
}

// Put stores the snapshot with the configured TTL and mirrors it to disk.
func (c *Cache) Put(ctx context.Context, snapshot *Snapshot) error {
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.store.Set(ctx, c.key, string(encoded), c.ttl); err != nil {
		return fmt.Errorf("write snapshot cache: %w", err)
	}
	c.mirrorToFile(ctx, encoded)
	return nil
}

func (c *Cache) mirrorToFile(ctx context.Context, encoded []byte) {
	if c.filePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0o755); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "path", c.filePath), "taxonomy file mirror mkdir failed: "+err.Error())
		return
	}
	if err := os.WriteFile(c.filePath, encoded, 0o644); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "path", c.filePath), "taxonomy file mirror write failed: "+err.Error())
	}
}
