package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

const checkTimeout = 5 * time.Second

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

type check struct {
	probe    Probe
	critical bool
}

// Service aggregates dependency probes. A failing critical probe makes the
// service unready; a failing optional probe only degrades it.
type Service struct {
	version   string
	startTime time.Time
	checks    map[string]check
	log       *zap.Logger
	mu        sync.RWMutex
}

func NewService(version string, log *zap.Logger) *Service {
	return &Service{
		version:   version,
		startTime: time.Now(),
		checks:    make(map[string]check),
		log:       log,
	}
}

// Register adds a probe under name, replacing any previous one.
func (s *Service) Register(name string, probe Probe, critical bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check{probe: probe, critical: critical}
	s.log.Info("Registered health checker", zap.String("name", name), zap.Bool("critical", critical))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every probe concurrently.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checks := make(map[string]check, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, c := range checks {
		wg.Add(1)
		go func(name string, c check) {
			defer wg.Done()
			result := s.run(ctx, name, c)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()

	overall := StatusHealthy
	ready := true
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
			ready = false
		case StatusDegraded:
			if overall != StatusUnhealthy {
				overall = StatusDegraded
			}
		}
	}

	return &ReadyResponse{
		Ready:     ready,
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func (s *Service) run(ctx context.Context, name string, c check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := c.probe(ctx)
	result := CheckResult{
		Name:      name,
		Status:    StatusHealthy,
		Message:   "connection ok",
		Duration:  time.Since(start),
		Timestamp: start,
	}
	if err != nil {
		result.Status = StatusDegraded
		if c.critical {
			result.Status = StatusUnhealthy
		}
		result.Message = "ping failed: " + err.Error()
		s.log.Warn("Health check failed", zap.String("name", name), zap.Error(err))
	}
	return result
}
