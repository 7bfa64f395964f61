package conductornode

import (
	"context"
	"fmt"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

// BuildPlan asks the planner for the next move. The planner contract is
// that it never errors; a broken model call comes back as a fallback plan.
func BuildPlan(ctx context.Context, in *GraphState, planner contractx.Planner) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	in.Plan = planner.Plan(ctx, in.Text, in.Session)
	return in, nil
}
