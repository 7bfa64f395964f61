package conductornode

import (
	"context"
	"fmt"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

func ExecuteTools(ctx context.Context, in *GraphState, executor contractx.PlanExecutor) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	outcome := executor.ExecutePlan(ctx, in.Plan, in.Session)
	in.Reply = outcome.Reply
	in.ToolResults = outcome.ToolResults
	return in, nil
}
