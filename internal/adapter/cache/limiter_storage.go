package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/logdeltra/delivery-api/internal/ports"
)

const storageTimeout = 2 * time.Second

// Storage exposes a ports.Cache as fiber.Storage so the limiter middleware
// shares counters across replicas when Redis is in use.
type Storage struct {
	cache  ports.Cache
	prefix string
}

var _ fiber.Storage = (*Storage)(nil)

func NewStorage(c ports.Cache, prefix string) *Storage {
	return &Storage{cache: c, prefix: prefix}
}

// Get returns nil, nil for a missing key as fiber.Storage requires.
func (s *Storage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	val, err := s.cache.Get(ctx, s.prefix+key)
	if errors.Is(err, ports.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.cache.Set(ctx, s.prefix+key, val, exp)
}

func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.cache.Delete(ctx, s.prefix+key)
}

// Reset is a no-op; limiter keys expire on their own.
func (s *Storage) Reset() error {
	return nil
}

// Close leaves the underlying cache open; main owns it.
func (s *Storage) Close() error {
	return nil
}
