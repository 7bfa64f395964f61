package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

const defaultCallTimeout = 20 * time.Second

// Orchestrator executes a plan's tool calls strictly in list order. Later
// calls may reference earlier results, never the reverse, so nothing here
// runs concurrently within one plan. One failed call never halts the
// plan; it surfaces as an error result and a metrics failure observation.
type Orchestrator struct {
	tools       contractx.ToolRegistry
	metrics     contractx.MetricsRecorder
	callTimeout time.Duration
	now         func() time.Time
}

type Option func(*Orchestrator)

func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(tools contractx.ToolRegistry, metrics contractx.MetricsRecorder, opts ...Option) (*Orchestrator, error) {
	if tools == nil {
		return nil, errors.New("tool registry is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics recorder is required")
	}

	o := &Orchestrator{
		tools:       tools,
		metrics:     metrics,
		callTimeout: defaultCallTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

// ExecutePlan runs every tool call in order and passes the plan's reply
// text through unmodified. The returned results list is in call order and
// is the same namespace placeholders were resolved against.
func (o *Orchestrator) ExecutePlan(ctx context.Context, plan contractx.Plan, sess *sessionx.ConversationSession) contractx.PlanOutcome {
	customerID := ""
	if sess != nil {
		customerID = sess.CustomerID
	}

	results := make([]contractx.ToolResult, 0, len(plan.ToolCalls))
	for _, call := range plan.ToolCalls {
		results = append(results, o.executeCall(ctx, call, customerID, results))
	}

	return contractx.PlanOutcome{
		Reply:       plan.ReplyText,
		ToolResults: results,
	}
}

func (o *Orchestrator) executeCall(ctx context.Context, call contractx.ToolCall, customerID string, sofar []contractx.ToolResult) contractx.ToolResult {
	args, err := resolveArgs(call.Args, sofar)
	if err != nil {
		log.Warn().Err(err).Str("tool", call.Tool).Msg("placeholder resolution failed")
		return contractx.ToolResult{
			Tool:  call.Tool,
			Args:  call.Args,
			Error: fmt.Sprintf("placeholder resolution failed: %v", err),
		}
	}

	capability, ok := o.tools.Lookup(call.Tool)
	if !ok {
		log.Warn().Str("tool", call.Tool).Msg("unknown tool in plan")
		return contractx.ToolResult{
			Tool:  call.Tool,
			Args:  args,
			Error: fmt.Sprintf("%v: %s", contractx.ErrUnknownTool, call.Tool),
		}
	}

	cctx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	start := o.now()
	result, err := capability.Execute(cctx, customerID, args)
	elapsed := o.now().Sub(start)

	if recordErr := o.metrics.Record(ctx, call.Tool, err == nil, elapsed); recordErr != nil {
		log.Warn().Err(recordErr).Str("tool", call.Tool).Msg("metrics record failed")
	}

	if err != nil {
		// Timeouts land here too and are treated exactly like any other
		// tool error: non-fatal to the remaining plan.
		return contractx.ToolResult{
			Tool:  call.Tool,
			Args:  args,
			Error: err.Error(),
		}
	}

	return contractx.ToolResult{
		Tool:   call.Tool,
		Args:   args,
		Result: result,
	}
}
