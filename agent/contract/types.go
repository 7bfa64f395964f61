package contract

// Plan is the structured output produced by the planner for one inbound
// message: the reply to send back plus the tool calls to run, in order.
type Plan struct {
	ReplyText string     `json:"reply_text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall names a tool capability and its arguments. String-valued
// arguments may embed ${tool_results[...]} placeholders that are resolved
// against earlier results of the same plan execution.
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult records one tool invocation. Exactly one of Result and Error
// is meaningful; tool-level failures travel in Error, not as Go errors.
type ToolResult struct {
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// PlanOutcome is what plan execution hands back to the conversation layer.
// Reply is the planner's reply text passed through unmodified.
type PlanOutcome struct {
	Reply       string
	ToolResults []ToolResult
}

type ChatRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	Channel    string `json:"channel"`
	CustomerID string `json:"customer_id,omitempty"`
	Text       string `json:"text"`
}

type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Actions   *Actions `json:"actions,omitempty"`
}

// Actions carries the side effects of a turn alongside the reply.
type Actions struct {
	ToolResults []ToolResult `json:"tool_results"`
}
