package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type payload struct{ N int }
	if err := mc.Set(ctx, "k", &payload{N: 7}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var v interface{}
	if err := mc.Get(ctx, "k", &v); err != nil {
		t.Fatalf("get: %v", err)
	}
	got, ok := v.(*payload)
	if !ok || got.N != 7 {
		t.Fatalf("unexpected value %#v", v)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var v interface{}
	if err := mc.Get(context.Background(), "absent", &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	var v interface{}
	if err := mc.Get(ctx, "k", &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expired key should miss, got %v", err)
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", 1, time.Minute)
	_ = mc.Set(ctx, "b", 2, time.Minute)
	_ = mc.Set(ctx, "c", 3, time.Minute)

	exists, err := mc.Exists(ctx, "c")
	if err != nil || !exists {
		t.Fatalf("newest key should survive eviction")
	}
}
