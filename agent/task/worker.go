package task

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Worker binds a capability's domain logic to its task registry. It is the
// unit the tool registry hands to the orchestrator: every invocation runs
// through Execute so the task lifecycle is recorded uniformly.
type Worker struct {
	registry *Registry
	fn       DomainFunc
}

func NewWorker(agentType string, fn DomainFunc, opts ...Option) *Worker {
	return &Worker{
		registry: NewRegistry(agentType, opts...),
		fn:       fn,
	}
}

func (w *Worker) AgentType() string {
	return w.registry.AgentType()
}

func (w *Worker) Registry() *Registry {
	return w.registry
}

func (w *Worker) Execute(ctx context.Context, customerID string, args map[string]any) (map[string]any, error) {
	result, err := w.registry.Execute(ctx, customerID, args, w.fn)
	if err != nil {
		log.Warn().
			Err(err).
			Str("agent_type", w.registry.AgentType()).
			Str("customer_id", customerID).
			Msg("worker task failed")
		return nil, err
	}
	return result, nil
}
