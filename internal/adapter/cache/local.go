package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/ports"
)

// LocalCache keeps values in process memory. It backs the rate limiter when
// no Redis is reachable, which means each replica counts requests on its own.
type LocalCache struct {
	mu      sync.RWMutex
	entries map[string]localEntry
	now     func() time.Time
	log     *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

type localEntry struct {
	value    []byte
	deadline time.Time // zero means no expiry
}

func (e localEntry) liveAt(t time.Time) bool {
	return e.deadline.IsZero() || t.Before(e.deadline)
}

// NewLocalCache starts a LocalCache that drops expired entries every
// sweepEvery (one minute when not positive).
func NewLocalCache(sweepEvery time.Duration, log *zap.Logger) *LocalCache {
	if sweepEvery <= 0 {
		sweepEvery = time.Minute
	}
	c := &LocalCache{
		entries: make(map[string]localEntry),
		now:     time.Now,
		log:     log,
		done:    make(chan struct{}),
	}
	go c.sweepLoop(sweepEvery)

	log.Info("Keeping cache entries in process memory",
		zap.Duration("sweep_every", sweepEvery),
	)
	return c
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.liveAt(c.now()) {
		return "", ports.ErrCacheMiss
	}
	return string(e.value), nil
}

// Set stores value under key. Strings and byte slices are kept as is, other
// values as JSON, matching what RedisCache would read back.
func (c *LocalCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}

	e := localEntry{value: raw}
	if ttl > 0 {
		e.deadline = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error { return nil }

// Close stops the sweeper. Calling it again is a no-op.
func (c *LocalCache) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// Len counts stored entries, including expired ones not yet swept.
func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *LocalCache) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if n := c.evictExpired(); n > 0 {
				c.log.Debug("Evicted expired cache entries", zap.Int("count", n))
			}
		}
	}
}

// evictExpired removes every entry past its deadline and reports how many
// were removed.
func (c *LocalCache) evictExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		if !e.liveAt(now) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

func encodeValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return append([]byte(nil), v...), nil
	case string:
		return []byte(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode cache value: %w", err)
		}
		return raw, nil
	}
}
