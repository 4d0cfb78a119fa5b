package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/redis"
	"github.com/google/uuid"
)

// generationLock is a best-effort single-flight guard around snapshot
// regeneration. Losers do not queue or wait; they skip. The owner token
// keeps a slow generator from deleting a lock that expired and was
// re-acquired by someone else.
type generationLock struct {
	store cacheStore
	key   string
	ttl   time.Duration
	owner string
}

func newGenerationLock(store cacheStore, key string, ttl time.Duration) (*generationLock, error) {
	if store == nil {
		return nil, errors.New("lock store is required")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}
	return &generationLock{store: store, key: key, ttl: ttl}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (l *generationLock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release frees the lock only if the owner value still matches.
func (l *generationLock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	value, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}
