package contract

import (
	"context"
	"time"

	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

// Planner turns an inbound message plus conversation state into a Plan.
// It never fails: transport errors and malformed model output degrade to a
// deterministic fallback plan.
type Planner interface {
	Plan(ctx context.Context, text string, sess *sessionx.ConversationSession) Plan
}

// Capability is one callable tool backed by a worker. Execute re-raises
// worker failures to the caller after recording them on the task.
type Capability interface {
	AgentType() string
	Execute(ctx context.Context, customerID string, args map[string]any) (map[string]any, error)
}

// ToolRegistry resolves a tool name from a plan to its capability.
type ToolRegistry interface {
	Lookup(name string) (Capability, bool)
}

// MetricsRecorder receives one observation per tool invocation attempt.
type MetricsRecorder interface {
	Record(ctx context.Context, tool string, success bool, elapsed time.Duration) error
}

// PlanExecutor runs a plan's tool calls in order and assembles the outcome.
type PlanExecutor interface {
	ExecutePlan(ctx context.Context, plan Plan, sess *sessionx.ConversationSession) PlanOutcome
}
