package metrics

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps per-tool counters in process memory. Each tool gets
// its own lock so concurrent orchestrations recording different tools do
// not serialize on one another.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryMetric
	now     func() time.Time
}

type memoryMetric struct {
	mu sync.Mutex
	m  ToolMetrics
}

type MemoryOption func(*MemoryStore)

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryMetric, 8),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) Record(ctx context.Context, tool string, success bool, elapsed time.Duration) error {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return nil
	}

	entry := s.entry(tool)
	entry.mu.Lock()
	entry.m.observe(success, elapsed, s.now())
	entry.mu.Unlock()
	return nil
}

func (s *MemoryStore) Fetch(ctx context.Context, tool string) (*ToolMetrics, error) {
	s.mu.RLock()
	entry, ok := s.entries[strings.TrimSpace(tool)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMetricsNotFound
	}

	entry.mu.Lock()
	snapshot := entry.m
	entry.mu.Unlock()
	return &snapshot, nil
}

func (s *MemoryStore) entry(tool string) *memoryMetric {
	s.mu.RLock()
	entry, ok := s.entries[tool]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok = s.entries[tool]; ok {
		return entry
	}
	entry = &memoryMetric{}
	s.entries[tool] = entry
	return entry
}
