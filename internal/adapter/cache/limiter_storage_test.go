package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/logdeltra/delivery-api/internal/mocks"
)

func TestStorage(t *testing.T) {
	backing := mocks.NewMockCache()
	s := NewStorage(backing, "rl:")

	got, err := s.Get("client")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil on miss, got %v, %v", got, err)
	}

	if err := s.Set("client", []byte{0x81, 0x00, 0xff}, time.Minute); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if raw, _ := backing.Get(context.Background(), "rl:client"); raw == "" {
		t.Error("expected value stored under the prefixed key")
	}

	got, err = s.Get("client")
	if err != nil || len(got) != 3 || got[0] != 0x81 || got[2] != 0xff {
		t.Fatalf("expected stored bytes back, got %v, %v", got, err)
	}

	if err := s.Delete("client"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got, _ := s.Get("client"); got != nil {
		t.Errorf("expected miss after delete, got %v", got)
	}
}

func TestStorage_BackendError(t *testing.T) {
	backing := mocks.NewMockCache()
	backing.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", errors.New("connection reset")
	}
	s := NewStorage(backing, "")

	if _, err := s.Get("k"); err == nil {
		t.Fatal("expected backend error to surface")
	}
}

func TestStorage_IgnoresEmpty(t *testing.T) {
	backing := mocks.NewMockCache()
	backing.SetFunc = func(ctx context.Context, key string, value interface{}, exp time.Duration) error {
		t.Fatalf("unexpected Set(%q)", key)
		return nil
	}
	s := NewStorage(backing, "")

	if err := s.Set("", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", nil, 0); err != nil {
		t.Fatal(err)
	}
}
