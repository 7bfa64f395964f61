package conductornode

import (
	"context"
	"fmt"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	plannerx "github.com/jakkaphatm/chatcart/agent/planner"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

// RecordAgentReply appends the outbound message and stashes this turn's
// tool results in the session context so the next planning round can see
// what already happened.
func RecordAgentReply(_ context.Context, in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	var toolsUsed []string
	for _, tr := range in.ToolResults {
		toolsUsed = append(toolsUsed, tr.Tool)
	}

	in.Session.Append(sessionx.Message{
		Role:      sessionx.RoleAgent,
		Text:      in.Reply,
		Channel:   in.Channel,
		Timestamp: in.Now,
		ToolsUsed: toolsUsed,
	})
	if len(in.ToolResults) > 0 {
		in.Session.SetContext(plannerx.ContextKeyLastToolResults, in.ToolResults)
	}
	in.Session.Touch(in.Now)
	return in, nil
}
