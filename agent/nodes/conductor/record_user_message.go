package conductornode

import (
	"context"
	"fmt"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

func RecordUserMessage(_ context.Context, in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	in.Session.Append(sessionx.Message{
		Role:      sessionx.RoleCustomer,
		Text:      in.Text,
		Channel:   in.Channel,
		Timestamp: in.Now,
	})
	return in, nil
}
