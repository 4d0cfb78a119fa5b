package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSetGetDelRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, "ml:taxonomy:snapshot", "{}", time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, "ml:taxonomy:snapshot")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "{}" {
		t.Fatalf("expected stored value, got %q", value)
	}

	if err := client.Del(ctx, "ml:taxonomy:snapshot"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "ml:taxonomy:snapshot"); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNXOnlySetsOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	ok, err := client.SetNX(ctx, "ml:lock:taxonomy", "owner-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first setnx should win: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "ml:lock:taxonomy", "owner-b", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("second setnx should lose while the key exists")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.TaxonomyKey(); got != "ml:taxonomy:snapshot" {
		t.Fatalf("unexpected taxonomy key %s", got)
	}
	if got := client.TaxonomyLockKey(); got != "ml:lock:taxonomy" {
		t.Fatalf("unexpected taxonomy lock key %s", got)
	}
	if got := client.FavouritesKey("visitor-42"); got != "ml:favourites:visitor-42" {
		t.Fatalf("unexpected favourites key %s", got)
	}
	if got := client.FavouritesKey(""); got != "ml:favourites" {
		t.Fatalf("empty source id should skip empty parts, got %s", got)
	}
	if got := client.CronLockKey(); got != "ml:lock:cron" {
		t.Fatalf("unexpected cron lock key %s", got)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}
