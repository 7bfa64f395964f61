package task

import "time"

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Task is one unit of work executed by a capability worker. It is created
// when execution starts, transitions exactly once out of processing, and
// stays visible in the registry for a grace period after completion so
// "is my request still being worked" queries keep answering.
type Task struct {
	ID          string         `json:"id"`
	AgentType   string         `json:"agent_type"`
	CustomerID  string         `json:"customer_id,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	Status      Status         `json:"status"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt time.Time      `json:"completed_at"`
}
