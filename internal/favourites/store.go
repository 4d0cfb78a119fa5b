package favourites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/redis"
)

// cacheStore is the slice of the redis client the favourites set needs.
type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Store keeps one unordered id set per visitor in Redis, serialized as a
// JSON array with no TTL. Ids are not guaranteed to reference live (or
// existing) classifieds; readers reconcile lazily.
type Store struct {
	store cacheStore
	keyFn func(sourceID string) string
}

// NewStore builds the favourites store. keyFn maps a source id onto its
// cache key.
func NewStore(store cacheStore, keyFn func(string) string) (*Store, error) {
	if store == nil {
		return nil, errors.New("cache store is required")
	}
	if keyFn == nil {
		return nil, errors.New("key func is required")
	}
	return &Store{store: store, keyFn: keyFn}, nil
}

// Get returns the visitor's stored id set; missing keys yield an empty set.
func (s *Store) Get(ctx context.Context, sourceID string) ([]int64, error) {
	raw, err := s.store.Get(ctx, s.keyFn(sourceID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []int64{}, nil
		}
		return nil, fmt.Errorf("read favourites: %w", err)
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode favourites: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// Put overwrites the visitor's stored id set.
func (s *Store) Put(ctx context.Context, sourceID string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favourites: %w", err)
	}
	if err := s.store.Set(ctx, s.keyFn(sourceID), string(encoded), 0); err != nil {
		return fmt.Errorf("write favourites: %w", err)
	}
	return nil
}
