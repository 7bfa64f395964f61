package conductornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

// SaveSession persists the updated conversation. A write failure loses
// continuity for the next turn but the customer still gets this reply, so
// it is logged and swallowed.
func SaveSession(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	if err := store.Set(ctx, in.Session); err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("session save failed")
	}
	return in, nil
}
