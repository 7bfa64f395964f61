package task

import (
	"container/heap"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

const defaultGracePeriod = time.Hour

// DomainFunc is the worker's domain logic for one task.
type DomainFunc func(ctx context.Context, t *Task) (map[string]any, error)

// Registry tracks the in-flight and recently finished tasks of one worker.
// Finished entries are removed a fixed grace period after completion by a
// single delay-queue goroutine (one timer for all pending removals, never
// a sleeping goroutine per task). Reads also purge lazily, so an injected
// test clock is honored without real timers.
type Registry struct {
	agentType string
	grace     time.Duration
	now       func() time.Time

	mu    sync.Mutex
	tasks map[string]*Task
	queue removalQueue

	wake    chan struct{}
	stopped chan struct{}
	started bool
}

type Option func(*Registry)

func WithGracePeriod(grace time.Duration) Option {
	return func(r *Registry) {
		if grace > 0 {
			r.grace = grace
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRegistry(agentType string, opts ...Option) *Registry {
	r := &Registry{
		agentType: agentType,
		grace:     defaultGracePeriod,
		now:       time.Now,
		tasks:     make(map[string]*Task, 8),
		wake:      make(chan struct{}, 1),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Registry) AgentType() string {
	return r.agentType
}

// Execute registers a task, runs fn, records the outcome on the task, and
// schedules the entry's removal after the grace period. Failures are
// recorded on the task and then re-raised to the caller; the registry
// observes failures, it does not swallow them. Scheduling the removal is
// fire-and-forget and never delays the return.
func (r *Registry) Execute(ctx context.Context, customerID string, payload map[string]any, fn DomainFunc) (map[string]any, error) {
	t := &Task{
		ID:         uuid.NewString(),
		AgentType:  r.agentType,
		CustomerID: customerID,
		Payload:    payload,
		Status:     StatusProcessing,
		CreatedAt:  r.now().UTC(),
	}

	r.mu.Lock()
	r.tasks[t.ID] = t
	r.mu.Unlock()

	result, err := fn(ctx, t)

	completedAt := r.now().UTC()
	r.mu.Lock()
	if err != nil {
		t.Status = StatusFailed
		t.Error = err.Error()
	} else {
		t.Status = StatusCompleted
		t.Result = result
	}
	t.CompletedAt = completedAt
	r.scheduleRemovalLocked(t.ID, completedAt.Add(r.grace))
	r.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetStatus returns a snapshot copy of the task, or ErrTaskNotFound once
// the grace period has elapsed.
func (r *Registry) GetStatus(taskID string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked(r.now())

	t, ok := r.tasks[taskID]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *t, nil
}

// ListActive returns snapshot copies of every registered task, including
// completed ones still inside their grace period, ordered by creation.
func (r *Registry) ListActive() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked(r.now())

	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Remove drops a task immediately. The pending delayed removal becomes a
// no-op; stale queue entries are discarded when they surface.
func (r *Registry) Remove(taskID string) {
	r.mu.Lock()
	delete(r.tasks, taskID)
	r.mu.Unlock()
}

// Close stops the removal goroutine. Pending entries are still purged
// lazily on read.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.started {
		r.started = false
		close(r.stopped)
	}
	r.mu.Unlock()
}

func (r *Registry) scheduleRemovalLocked(taskID string, due time.Time) {
	heap.Push(&r.queue, removal{taskID: taskID, due: due})
	if !r.started {
		r.started = true
		go r.removalLoop()
	}
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// purgeLocked drops every task whose removal is due. Runs on the read path
// as well as in the removal loop, so reads see grace-period expiry even
// when the loop's timer has not fired yet.
func (r *Registry) purgeLocked(now time.Time) {
	for r.queue.Len() > 0 {
		next := r.queue[0]
		if next.due.After(now) {
			return
		}
		heap.Pop(&r.queue)
		t, ok := r.tasks[next.taskID]
		if !ok {
			continue
		}
		// Never remove a task that is still processing; its removal will
		// be rescheduled when it completes.
		if t.Status == StatusProcessing {
			continue
		}
		delete(r.tasks, next.taskID)
	}
}

func (r *Registry) removalLoop() {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		r.mu.Lock()
		now := r.now()
		r.purgeLocked(now)
		var wait time.Duration
		if r.queue.Len() > 0 {
			wait = r.queue[0].due.Sub(now)
		}
		r.mu.Unlock()

		if wait <= 0 {
			// Queue is empty; sleep until new work arrives.
			select {
			case <-r.wake:
				continue
			case <-r.stopped:
				return
			}
		}

		timer.Reset(wait)
		select {
		case <-timer.C:
		case <-r.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-r.stopped:
			return
		}
	}
}

type removal struct {
	taskID string
	due    time.Time
}

type removalQueue []removal

func (q removalQueue) Len() int           { return len(q) }
func (q removalQueue) Less(i, j int) bool { return q[i].due.Before(q[j].due) }
func (q removalQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *removalQueue) Push(x any)        { *q = append(*q, x.(removal)) }
func (q *removalQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
