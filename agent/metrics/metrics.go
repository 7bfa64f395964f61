package metrics

import (
	"context"
	"errors"
	"time"
)

var ErrMetricsNotFound = errors.New("metrics not found")

// ToolMetrics are the durable reliability counters for one tool. The
// average is recomputed on every observation rather than derived from a
// running sum, so it stays exact over arbitrarily long lifetimes.
type ToolMetrics struct {
	Calls        int64         `json:"calls"`
	SuccessCount int64         `json:"success_count"`
	ErrorCount   int64         `json:"error_count"`
	AvgExecTime  time.Duration `json:"avg_exec_time_ns"`
	LastUsed     time.Time     `json:"last_used"`
}

// Store records one observation per tool invocation and serves read-only
// lookups. Record must be atomic per tool key: two concurrent observations
// for the same tool never lose an update.
type Store interface {
	Record(ctx context.Context, tool string, success bool, elapsed time.Duration) error
	Fetch(ctx context.Context, tool string) (*ToolMetrics, error)
}

// observe applies one observation in place. Callers hold the key's lock.
func (m *ToolMetrics) observe(success bool, elapsed time.Duration, now time.Time) {
	m.Calls++
	if success {
		m.SuccessCount++
	} else {
		m.ErrorCount++
	}
	m.AvgExecTime = time.Duration((int64(m.AvgExecTime)*(m.Calls-1) + int64(elapsed)) / m.Calls)
	m.LastUsed = now.UTC()
}
