//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/ports"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	rc, err := NewRedisCache(url, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer rc.Close()

	if _, err := rc.Get(ctx, "missing"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	storage := NewStorage(rc, "rl:")
	if err := storage.Set("client", []byte("counter"), time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := storage.Get("client")
	if err != nil || string(got) != "counter" {
		t.Fatalf("expected counter, got %q, %v", got, err)
	}

	time.Sleep(1500 * time.Millisecond)
	if got, _ := storage.Get("client"); got != nil {
		t.Errorf("expected key to expire, got %q", got)
	}

	if c := New(url, zap.NewNop()); c.Ping() != nil {
		t.Error("expected New to return a reachable cache")
	}
}
