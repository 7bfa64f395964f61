package conductornode

import (
	"fmt"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	return GraphOutput{
		SessionID:   in.SessionID,
		Reply:       in.Reply,
		ToolResults: in.ToolResults,
	}, nil
}
