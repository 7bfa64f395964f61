package session

import (
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
)

// Channels a conversation can arrive on. A session may span several of
// them; each message records the channel it was exchanged on.
const (
	ChannelWeb      = "web"
	ChannelMobile   = "mobile"
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"
	ChannelKiosk    = "in_store_kiosk"
	ChannelVoice    = "voice_assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Channel   string    `json:"channel,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	ToolsUsed []string  `json:"tools_used,omitempty"`
}

// ConversationSession is the persisted state of one customer conversation.
// The message list is append-only for the session's lifetime; the session
// itself expires on a sliding TTL managed by the store.
type ConversationSession struct {
	ID           string         `json:"id"`
	CustomerID   string         `json:"customer_id,omitempty"`
	Channel      string         `json:"channel"`
	Messages     []Message      `json:"messages"`
	Context      map[string]any `json:"context,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
}

func New(id, customerID, channel string, now time.Time) *ConversationSession {
	return &ConversationSession{
		ID:           id,
		CustomerID:   customerID,
		Channel:      channel,
		Messages:     make([]Message, 0, 8),
		Context:      make(map[string]any, 4),
		CreatedAt:    now.UTC(),
		LastActivity: now.UTC(),
	}
}

func (s *ConversationSession) Touch(now time.Time) {
	s.LastActivity = now.UTC()
}

func (s *ConversationSession) EnsureContext() {
	if s.Context == nil {
		s.Context = make(map[string]any, 4)
	}
}

// Append adds a message to the end of the history and bumps LastActivity.
func (s *ConversationSession) Append(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.LastActivity
	}
	s.Messages = append(s.Messages, msg)
	if msg.Timestamp.After(s.LastActivity) {
		s.LastActivity = msg.Timestamp
	}
}

// Recent returns up to n most recent messages in chronological order.
func (s *ConversationSession) Recent(n int) []Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// SetContext stores a free-form context value (cart, active products,
// conversation stage, last tool results).
func (s *ConversationSession) SetContext(key string, val any) {
	s.EnsureContext()
	s.Context[key] = val
}
