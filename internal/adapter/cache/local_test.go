package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/ports"
)

func TestLocalCache(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got, err := c.Get(ctx, "k"); err != nil || got != "v" {
		t.Fatalf("expected v, got %q, %v", got, err)
	}

	if err := c.Set(ctx, "struct", map[string]int{"n": 1}, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got, _ := c.Get(ctx, "struct"); got != `{"n":1}` {
		t.Errorf("expected JSON encoding, got %q", got)
	}

	_ = c.Delete(ctx, "k")
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected miss after delete, got %v", err)
	}
}

func TestLocalCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	_ = c.Set(ctx, "short", "v", time.Second)
	_ = c.Set(ctx, "forever", "v", 0)

	clock = clock.Add(999 * time.Millisecond)
	if _, err := c.Get(ctx, "short"); err != nil {
		t.Fatalf("expected key to live until its deadline, got %v", err)
	}

	clock = clock.Add(time.Millisecond)
	if _, err := c.Get(ctx, "short"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected expired key to miss, got %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected expired entry to stay until swept, got %d entries", c.Len())
	}

	if n := c.evictExpired(); n != 1 {
		t.Errorf("expected one eviction, got %d", n)
	}
	if _, err := c.Get(ctx, "forever"); err != nil {
		t.Errorf("expected entry without ttl to survive, got %v", err)
	}
}

func TestLocalCache_CopiesByteValues(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()

	buf := []byte("12")
	_ = c.Set(ctx, "hits", buf, 0)
	buf[0] = '9'

	if got, _ := c.Get(ctx, "hits"); got != "12" {
		t.Errorf("expected stored value to be independent of the caller's buffer, got %q", got)
	}
}

func TestLocalCache_CloseTwice(t *testing.T) {
	c := NewLocalCache(time.Hour, zap.NewNop())
	_ = c.Close()
	if err := c.Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
}

func TestNew_FallsBackWithoutRedis(t *testing.T) {
	c := New("", zap.NewNop())
	defer c.Close()

	if _, ok := c.(*LocalCache); !ok {
		t.Fatalf("expected LocalCache, got %T", c)
	}
}
