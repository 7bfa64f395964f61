package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

const defaultReplyText = "I'm here to help you find the right products!"

// rawPlan defers tool_calls decoding so one malformed entry (or a
// malformed list) never invalidates the whole plan.
type rawPlan struct {
	ReplyText string          `json:"reply_text"`
	ToolCalls json.RawMessage `json:"tool_calls"`
}

// parsePlan extracts and normalizes a plan from free-form model output.
// Extraction rules, in order: strip a fenced block if present; otherwise
// take the substring from the first '{' to the last '}'. Then decode and
// normalize per entry.
func parsePlan(raw string) (contractx.Plan, error) {
	candidate := extractCandidate(raw)
	if candidate == "" {
		return contractx.Plan{}, fmt.Errorf("%w: no JSON object in planner output", contractx.ErrValidation)
	}

	var parsed rawPlan
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: decode plan: %v", contractx.ErrValidation, err)
	}

	return normalize(parsed), nil
}

func extractCandidate(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = stripFence(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return ""
	}
	return trimmed[start : end+1]
}

func stripFence(s string) string {
	// Drop the opening fence line (``` or ```json) and a trailing fence.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// normalize fills defaults and validates tool_calls entry by entry. A
// malformed entry is dropped and logged; the rest of the plan survives.
func normalize(parsed rawPlan) contractx.Plan {
	plan := contractx.Plan{
		ReplyText: strings.TrimSpace(parsed.ReplyText),
	}
	if plan.ReplyText == "" {
		plan.ReplyText = defaultReplyText
	}

	if len(parsed.ToolCalls) == 0 {
		return plan
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(parsed.ToolCalls, &entries); err != nil {
		log.Warn().Err(err).Msg("tool_calls is not a list, dropping all calls")
		return plan
	}

	for i, entry := range entries {
		call, err := decodeToolCall(entry)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("dropping malformed tool call")
			continue
		}
		plan.ToolCalls = append(plan.ToolCalls, call)
	}
	return plan
}

func decodeToolCall(entry json.RawMessage) (contractx.ToolCall, error) {
	var call contractx.ToolCall
	if err := json.Unmarshal(entry, &call); err != nil {
		return contractx.ToolCall{}, fmt.Errorf("%w: decode tool call: %v", contractx.ErrValidation, err)
	}
	call.Tool = strings.TrimSpace(call.Tool)
	if call.Tool == "" {
		return contractx.ToolCall{}, fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if call.Args == nil {
		call.Args = map[string]any{}
	}
	return call, nil
}
