package tool

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	taskx "github.com/jakkaphatm/chatcart/agent/task"
)

// Registry is the static mapping from tool name to capability worker. It
// is populated once at startup and read by every in-flight orchestration.
type Registry struct {
	mu      sync.RWMutex
	workers map[string]*taskx.Worker
}

func NewRegistry() *Registry {
	return &Registry{
		workers: make(map[string]*taskx.Worker, 8),
	}
}

func (r *Registry) Register(name string, worker *taskx.Worker) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if worker == nil {
		return fmt.Errorf("%w: worker for tool=%s is nil", contractx.ErrValidation, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.workers[name]; exists {
		return fmt.Errorf("%w: tool=%s already registered", contractx.ErrValidation, name)
	}
	r.workers[name] = worker
	return nil
}

func (r *Registry) Lookup(name string) (contractx.Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workers[name]
	if !ok {
		return nil, false
	}
	return w, true
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.workers))
	for name := range r.workers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActiveTasks aggregates the task snapshots of every registered worker,
// deduplicating workers registered under several names.
func (r *Registry) ActiveTasks() []taskx.Task {
	r.mu.RLock()
	seen := make(map[*taskx.Worker]struct{}, len(r.workers))
	workers := make([]*taskx.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		workers = append(workers, w)
	}
	r.mu.RUnlock()

	var tasks []taskx.Task
	for _, w := range workers {
		tasks = append(tasks, w.Registry().ListActive()...)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}
