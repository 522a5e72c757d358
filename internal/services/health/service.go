package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Checker pings one dependency.
type Checker func(ctx context.Context) error

// Report is the health payload. OK is false when any check failed.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service runs the registered dependency checks.
type Service struct {
	Timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Checker
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{Timeout: 2 * time.Second, checks: make(map[string]Checker)}
}

// Register adds a named check. A nil checker is ignored.
func (s *Service) Register(name string, check Checker) {
	if check == nil {
		return
	}
	s.mu.Lock()
	s.checks[name] = check
	s.mu.Unlock()
}

// Names lists registered checks in order.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status runs every check concurrently under one timeout.
func (s *Service) Status(ctx context.Context) Report {
	s.mu.RLock()
	checks := make(map[string]Checker, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()

	report := Report{OK: true}
	if len(checks) == 0 {
		return report
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	report.Checks = make(map[string]string, len(checks))
	for name, check := range checks {
		wg.Add(1)
		go func(name string, check Checker) {
			defer wg.Done()
			status := "ok"
			if err := check(ctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			report.Checks[name] = status
			if status != "ok" {
				report.OK = false
			}
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return report
}
