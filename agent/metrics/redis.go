package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMetricsKeyPrefix = "metrics:"
	lockStripes             = 32
)

// RedisStore persists per-tool counters in Redis as JSON documents under
// metrics:<tool>. The read-modify-write update is guarded by striped
// in-process locks keyed by tool name; the process is the only writer of
// its metrics keys, so a per-key lock is sufficient to keep updates
// atomic without a snapshot-and-store race.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
	locks     [lockStripes]sync.Mutex
}

type RedisOption func(*RedisStore)

func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	s := &RedisStore{
		client:    client,
		keyPrefix: defaultMetricsKeyPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *RedisStore) Record(ctx context.Context, tool string, success bool, elapsed time.Duration) error {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return nil
	}

	lock := s.lockFor(tool)
	lock.Lock()
	defer lock.Unlock()

	key := s.keyPrefix + tool

	var m ToolMetrics
	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &m); err != nil {
			// A corrupt document restarts the counters rather than
			// poisoning every later observation.
			m = ToolMetrics{}
		}
	case errors.Is(err, redis.Nil):
		// first observation for this tool
	default:
		return fmt.Errorf("load metrics for tool=%s: %w", tool, err)
	}

	m.observe(success, elapsed, s.now())

	payload, err := json.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshal metrics for tool=%s: %w", tool, err)
	}
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("save metrics for tool=%s: %w", tool, err)
	}
	return nil
}

func (s *RedisStore) Fetch(ctx context.Context, tool string) (*ToolMetrics, error) {
	key := s.keyPrefix + strings.TrimSpace(tool)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMetricsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load metrics for tool=%s: %w", tool, err)
	}

	var m ToolMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal metrics for tool=%s: %w", tool, err)
	}
	return &m, nil
}

func (s *RedisStore) lockFor(tool string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tool))
	return &s.locks[h.Sum32()%lockStripes]
}
