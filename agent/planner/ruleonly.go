package planner

import (
	"context"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

// RuleOnly plans with the rule-based classifier alone, never calling the
// model. Used in demo mode and wherever no planning model is configured.
type RuleOnly struct{}

func NewRuleOnly() RuleOnly {
	return RuleOnly{}
}

func (RuleOnly) Plan(_ context.Context, text string, _ *sessionx.ConversationSession) contractx.Plan {
	return Fallback(text)
}
