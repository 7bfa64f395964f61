package conductor

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	nodex "github.com/jakkaphatm/chatcart/agent/nodes/conductor"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

// Conductor owns the per-message conversation pipeline: load state, plan,
// execute tools, persist state, reply. One Conductor serves all sessions.
type Conductor struct {
	store    sessionx.Store
	planner  contractx.Planner
	executor contractx.PlanExecutor

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

type Option func(*Conductor)

func WithClock(now func() time.Time) Option {
	return func(c *Conductor) {
		if now != nil {
			c.now = now
		}
	}
}

func New(store sessionx.Store, planner contractx.Planner, executor contractx.PlanExecutor, opts ...Option) (*Conductor, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if planner == nil {
		return nil, errors.New("planner is required")
	}
	if executor == nil {
		return nil, errors.New("plan executor is required")
	}

	c := &Conductor{
		store:    store,
		planner:  planner,
		executor: executor,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	graphRunner, err := c.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// HandleMessage runs one conversational turn. Actions is present only
// when the plan actually invoked tools.
func (c *Conductor) HandleMessage(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResponse, error) {
	out, err := c.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID:  req.SessionID,
		Channel:    req.Channel,
		CustomerID: req.CustomerID,
		Text:       req.Text,
	})
	if err != nil {
		return contractx.ChatResponse{}, err
	}

	resp := contractx.ChatResponse{
		SessionID: out.SessionID,
		Reply:     out.Reply,
	}
	if len(out.ToolResults) > 0 {
		resp.Actions = &contractx.Actions{ToolResults: out.ToolResults}
	}
	return resp, nil
}
