package taxonomy

import (
	"context"
	"time"

	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/logger"
)

// Service exposes read-through access to the taxonomy snapshot.
//
// GetOrGenerate never returns an error to its caller: lock contention and
// generation failures both surface as a nil snapshot with a logged cause,
// and the cache keeps serving its last valid value.
type Service interface {
	GetOrGenerate(ctx context.Context) (*Snapshot, error)
	Refresh(ctx context.Context) (*Snapshot, error)
}

// ServiceParams groups dependencies for the taxonomy service.
type ServiceParams struct {
	Repo    *Repository
	Cache   *Cache
	Store   cacheStore
	Logger  *logger.Logger
	LockKey string
	LockTTL time.Duration
}

type service struct {
	repo    *Repository
	cache   *Cache
	store   cacheStore
	logg    *logger.Logger
	lockKey string
	lockTTL time.Duration
	now     func() time.Time
}

// NewService builds a taxonomy service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "taxonomy repo is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "taxonomy cache is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.LockKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lock key is required")
	}
	if params.LockTTL <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lock ttl must be positive")
	}
	return &service{
		repo:    params.Repo,
		cache:   params.Cache,
		store:   params.Store,
		logg:    params.Logger,
		lockKey: params.LockKey,
		lockTTL: params.LockTTL,
		now:     time.Now,
	}, nil
}

// GetOrGenerate returns the cached snapshot when fresh, otherwise
// regenerates it under the single-flight lock. A (nil, nil) return means
// the caller should fall back to stale data or an empty state.
func (s *service) GetOrGenerate(ctx context.Context) (*Snapshot, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		s.logg.Error(ctx, "reading taxonomy cache", err)
	} else if cached != nil {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh regenerates the snapshot unconditionally (modulo the lock) and
// overwrites the cache. Used by the scheduled refresh job and by cold
// reads.
func (s *service) Refresh(ctx context.Context) (*Snapshot, error) {
	lock, err := newGenerationLock(s.store, s.lockKey, s.lockTTL)
	if err != nil {
		s.logg.Error(ctx, "building taxonomy lock", err)
		return nil, nil
	}

	acquired, err := lock.Acquire(ctx)
	if err != nil {
		s.logg.Error(ctx, "acquiring taxonomy lock", err)
		return nil, nil
	}
	if !acquired {
		s.logg.Info(ctx, "taxonomy generation already in flight; skipping")
		return nil, nil
	}
	defer func() {
		if relErr := lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "releasing taxonomy lock", relErr)
		}
	}()

	snapshot, err := s.repo.Generate(ctx, s.now().UTC())
	if err != nil {
		s.logg.Error(ctx, "generating taxonomy snapshot", err)
		return nil, nil
	}

	if err := s.cache.Put(ctx, snapshot); err != nil {
		// snapshot itself is valid; serve it even if caching failed
		s.logg.Error(ctx, "caching taxonomy snapshot", err)
	}
	return snapshot, nil
}
