package planner

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	promptx "github.com/jakkaphatm/chatcart/agent/prompt"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
	openrouterx "github.com/jakkaphatm/chatcart/pkg/openrouter"
)

const (
	defaultMaxMessages = 12
	defaultTimeout     = 30 * time.Second

	// Context key under which the conversation layer stashes the previous
	// turn's tool results.
	ContextKeyLastToolResults = "last_tool_results"
)

// completionFunc issues one chat completion and returns the raw model text.
type completionFunc func(ctx context.Context, system, user string) (string, error)

// Adapter converts an inbound message plus session context into a Plan by
// calling the external planning model and parsing its free-form output.
// It never raises: transport failures, empty output, and undecodable
// output all degrade to the deterministic rule-based fallback.
type Adapter struct {
	complete    completionFunc
	maxMessages int
	timeout     time.Duration
}

type Option func(*Adapter)

func WithMaxMessages(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxMessages = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// withCompletion swaps the model call; tests use it to avoid the network.
func withCompletion(fn completionFunc) Option {
	return func(a *Adapter) {
		if fn != nil {
			a.complete = fn
		}
	}
}

func New(client *openaisdk.Client, cfg openrouterx.Config, opts ...Option) (*Adapter, error) {
	if client == nil {
		return nil, errors.New("openrouter client is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("planner model is required")
	}

	a := &Adapter{
		complete:    modelCompletion(client, cfg),
		maxMessages: defaultMaxMessages,
		timeout:     defaultTimeout,
	}
	if cfg.Timeout > 0 {
		a.timeout = cfg.Timeout
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

func modelCompletion(client *openaisdk.Client, cfg openrouterx.Config) completionFunc {
	return func(ctx context.Context, system, user string) (string, error) {
		params := openaisdk.ChatCompletionNewParams{
			Model: openaisdk.ChatModel(strings.TrimSpace(cfg.Model)),
			Messages: []openaisdk.ChatCompletionMessageParamUnion{
				openaisdk.SystemMessage(system),
				openaisdk.UserMessage(user),
			},
			Temperature: openaisdk.Float(cfg.Temperature),
		}
		if cfg.MaxCompletionToken > 0 {
			params.MaxCompletionTokens = openaisdk.Int(cfg.MaxCompletionToken)
		}

		completion, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", err
		}
		if len(completion.Choices) == 0 {
			return "", errors.New("completion has no choices")
		}
		return completion.Choices[0].Message.Content, nil
	}
}

// Plan builds a bounded context window, calls the planning model, and
// parses the result. Every failure mode returns the fallback plan.
func (a *Adapter) Plan(ctx context.Context, text string, sess *sessionx.ConversationSession) contractx.Plan {
	user, err := a.buildUserPayload(text, sess)
	if err != nil {
		log.Warn().Err(err).Msg("planner context encode failed")
		return Fallback(text)
	}

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.complete(cctx, promptx.Planner(), user)
	if err != nil {
		log.Warn().Err(err).Msg("planner call failed, using rule fallback")
		return Fallback(text)
	}
	if strings.TrimSpace(raw) == "" {
		log.Warn().Msg("planner returned empty output, using rule fallback")
		return Fallback(text)
	}

	plan, err := parsePlan(raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", truncate(raw, 300)).Msg("planner output undecodable, using rule fallback")
		return Fallback(text)
	}
	return plan
}

func (a *Adapter) buildUserPayload(text string, sess *sessionx.ConversationSession) (string, error) {
	payload := map[string]any{
		"user_message": text,
	}
	if sess != nil {
		window := make([]map[string]any, 0, a.maxMessages)
		for _, msg := range sess.Recent(a.maxMessages) {
			window = append(window, map[string]any{
				"role":    string(msg.Role),
				"text":    msg.Text,
				"channel": msg.Channel,
			})
		}
		payload["recent_messages"] = window
		payload["customer_id"] = sess.CustomerID
		if sess.Context != nil {
			if results, ok := sess.Context[ContextKeyLastToolResults]; ok {
				payload["last_tool_results"] = results
			}
		}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
