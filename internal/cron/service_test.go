package cron

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name string
	runs int
	err  error
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Run(context.Context) error {
	j.runs++
	return j.err
}

type fakeLock struct {
	acquired bool
	released int
	fail     error
}

func (l *fakeLock) Acquire(context.Context) (bool, error) {
	if l.fail != nil {
		return false, l.fail
	}
	return l.acquired, nil
}

func (l *fakeLock) Release(context.Context) error {
	l.released++
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(jobs...),
		Lock:     lock,
	})
	require.NoError(t, err)
	return svc
}

func TestRunCycle_RunsJobsInOrder(t *testing.T) {
	var order []string
	first := &orderedJob{name: "first", order: &order}
	second := &orderedJob{name: "second", order: &order}

	svc := newTestService(t, &fakeLock{acquired: true}, first, second)
	require.NoError(t, svc.runCycle(context.Background()))

	assert.Equal(t, []string{"first", "second"}, order)
}

type orderedJob struct {
	name  string
	order *[]string
}

func (j *orderedJob) Name() string { return j.name }

func (j *orderedJob) Run(context.Context) error {
	*j.order = append(*j.order, j.name)
	return nil
}

func TestRunCycle_FailingJobDoesNotStopOthers(t *testing.T) {
	failing := &fakeJob{name: "failing", err: errors.New("boom")}
	next := &fakeJob{name: "next"}

	svc := newTestService(t, &fakeLock{acquired: true}, failing, next)
	require.NoError(t, svc.runCycle(context.Background()))

	assert.Equal(t, 1, failing.runs)
	assert.Equal(t, 1, next.runs)
}

func TestRunCycle_SkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &fakeJob{name: "job"}
	lock := &fakeLock{acquired: false}

	svc := newTestService(t, lock, job)
	require.NoError(t, svc.runCycle(context.Background()))

	assert.Zero(t, job.runs)
	assert.Zero(t, lock.released)
}

func TestRunCycle_ReleasesLockAfterRun(t *testing.T) {
	lock := &fakeLock{acquired: true}

	svc := newTestService(t, lock, &fakeJob{name: "job"})
	require.NoError(t, svc.runCycle(context.Background()))

	assert.Equal(t, 1, lock.released)
}

func TestRunCycle_LockErrorSurfaces(t *testing.T) {
	lock := &fakeLock{fail: errors.New("redis down")}

	svc := newTestService(t, lock, &fakeJob{name: "job"})
	err := svc.runCycle(context.Background())

	require.Error(t, err)
}

func TestNewService_RequiresLock(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: testLogger()})
	require.Error(t, err)
}

// memStore is an in-memory stand-in for the redis client.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func TestRedisLock_AcquireAndRelease(t *testing.T) {
	store := newMemStore()
	lock, err := NewRedisLock(store, "ml:lock:cron", time.Hour)
	require.NoError(t, err)

	acquired, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, acquired)

	// a second instance cannot take the lock while it is held
	other, err := NewRedisLock(store, "ml:lock:cron", time.Hour)
	require.NoError(t, err)
	acquired, err = other.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, lock.Release(context.Background()))

	acquired, err = other.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLock_ReleaseIsOwnerGuarded(t *testing.T) {
	store := newMemStore()
	lock, err := NewRedisLock(store, "ml:lock:cron", time.Hour)
	require.NoError(t, err)

	acquired, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, acquired)

	// simulate expiry followed by another instance taking ownership
	require.NoError(t, store.Del(context.Background(), "ml:lock:cron"))
	_, err = store.SetNX(context.Background(), "ml:lock:cron", "other-owner", time.Hour)
	require.NoError(t, err)

	require.NoError(t, lock.Release(context.Background()))

	value, err := store.Get(context.Background(), "ml:lock:cron")
	require.NoError(t, err)
	assert.Equal(t, "other-owner", value)
}

func TestRegistry_SkipsNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &fakeJob{name: "only"})
	registry.Register(nil)

	jobs := registry.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "only", jobs[0].Name())
}
