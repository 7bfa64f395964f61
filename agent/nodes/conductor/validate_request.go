package conductornode

import (
	"strings"
	"time"

	"github.com/google/uuid"

	sessionx "github.com/jakkaphatm/chatcart/agent/session"
)

// ValidateRequest normalizes the inbound request. A missing session id
// means a new conversation: a fresh id is issued here and travels back to
// the caller in the response.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = "sid-" + uuid.NewString()
	}

	channel := strings.TrimSpace(in.Channel)
	if channel == "" {
		channel = sessionx.ChannelWeb
	}

	return &GraphState{
		SessionID:  sessionID,
		Channel:    channel,
		CustomerID: strings.TrimSpace(in.CustomerID),
		Text:       text,
		Now:        nowFn().UTC(),
	}, nil
}
