package planner

import (
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

// FallbackReply is the fixed continuation sent when the planning service
// is unreachable or unintelligible and no local intent matches.
const FallbackReply = "Sorry, I'm having trouble reaching our assistant right now. Could we try that again in a moment?"

var (
	skuPattern    = regexp.MustCompile(`\b[A-Z]{2,}-?\d{2,}\b`)
	budgetPattern = regexp.MustCompile(`(?i)\b(?:under|below|upto|up to)\s+(\d+)`)
	orderPattern  = regexp.MustCompile(`\bORD-\d{3,}\b`)
	amountPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?\s*|inr\s*)?(\d+(?:\.\d{1,2})?)\b`)
)

// Fallback is the deterministic rule-based intent classifier used
// whenever the planning model cannot be consulted. It only emits a tool
// call for unambiguous patterns; everything else gets the fixed
// continuation reply with no calls.
func Fallback(text string) contractx.Plan {
	lower := strings.ToLower(text)

	if sku := skuPattern.FindString(text); sku != "" && containsAny(lower, "stock", "available", "availability", "in store") {
		return contractx.Plan{
			ReplyText: "Let me check availability for " + sku + ".",
			ToolCalls: []contractx.ToolCall{
				{Tool: "check_stock", Args: map[string]any{"sku": sku}},
			},
		}
	}

	if orderID := orderPattern.FindString(text); orderID != "" && containsAny(lower, "pay", "checkout", "authorize") {
		// Only authorize when the message states an amount; guessing one
		// is worse than asking again.
		if amount, ok := extractAmount(text, orderID); ok {
			return contractx.Plan{
				ReplyText: "Processing the payment for " + orderID + " now.",
				ToolCalls: []contractx.ToolCall{
					{Tool: "authorize_payment", Args: map[string]any{"order_id": orderID, "amount": amount}},
				},
			}
		}
	}

	if containsAny(lower, "recommend", "show me", "looking for", "suggest", "browse") {
		args := map[string]any{"query": strings.TrimSpace(text)}
		if m := budgetPattern.FindStringSubmatch(text); len(m) == 2 {
			if budget, err := strconv.ParseFloat(m[1], 64); err == nil {
				args["budget"] = budget
			}
		}
		return contractx.Plan{
			ReplyText: "Let me look through our catalog for you.",
			ToolCalls: []contractx.ToolCall{
				{Tool: "recommend", Args: args},
			},
		}
	}

	return contractx.Plan{
		ReplyText: FallbackReply,
		ToolCalls: []contractx.ToolCall{},
	}
}

// extractAmount finds the first number in the text that is not part of
// the order id.
func extractAmount(text, orderID string) (float64, bool) {
	stripped := strings.ReplaceAll(text, orderID, "")
	m := amountPattern.FindStringSubmatch(stripped)
	if len(m) != 2 {
		return 0, false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
