package conductornode

import (
	"errors"
	"time"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

var ErrInvalidMessage = errors.New("message text is empty")

type GraphInput struct {
	SessionID  string
	Channel    string
	CustomerID string
	Text       string
}

type GraphOutput struct {
	SessionID   string
	Reply       string
	ToolResults []contractx.ToolResult
}

// GraphState is threaded through the conversation pipeline nodes.
type GraphState struct {
	SessionID  string
	Channel    string
	CustomerID string
	Text       string
	Now        time.Time

	Session     *sessionx.ConversationSession
	Plan        contractx.Plan
	Reply       string
	ToolResults []contractx.ToolResult
}
