package conductornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

// LoadOrCreateSession fetches the conversation state. Absent, expired and
// unreachable all degrade to a fresh session: a session backend outage
// must never cost the customer their reply.
func LoadOrCreateSession(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := store.Get(ctx, in.SessionID)
	switch {
	case err == nil:
		sess.EnsureContext()
		if in.CustomerID == "" {
			in.CustomerID = sess.CustomerID
		}
	case errors.Is(err, sessionx.ErrSessionNotFound):
		sess = sessionx.New(in.SessionID, in.CustomerID, in.Channel, in.Now)
	default:
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("session load failed, starting fresh")
		sess = sessionx.New(in.SessionID, in.CustomerID, in.Channel, in.Now)
	}

	in.Session = sess
	return in, nil
}
