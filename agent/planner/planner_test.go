package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sessionx "github.com/jakkaphatm/chatcart/agent/session"
	openrouterx "github.com/jakkaphatm/chatcart/pkg/openrouter"
)

func testAdapter(t *testing.T, fn completionFunc) *Adapter {
	t.Helper()

	client := openrouterx.NewClient(openrouterx.Config{
		APIKey: "test-key",
		Model:  "test-model",
	})
	a, err := New(client, openrouterx.Config{Model: "test-model"}, withCompletion(fn))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestPlanHappyPath(t *testing.T) {
	t.Parallel()

	var gotUser string
	a := testAdapter(t, func(ctx context.Context, system, user string) (string, error) {
		gotUser = user
		return `{"reply_text":"Two options for you","tool_calls":[{"tool":"recommend","args":{"query":"laptop","budget":60000}}]}`, nil
	})

	now := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	sess := sessionx.New("s1", "cust-5", sessionx.ChannelWeb, now)
	sess.Append(sessionx.Message{Role: sessionx.RoleCustomer, Text: "need a laptop", Channel: sessionx.ChannelWeb, Timestamp: now})

	plan := a.Plan(context.Background(), "need a laptop under 60000", sess)
	if plan.ReplyText != "Two options for you" {
		t.Fatalf("ReplyText = %q", plan.ReplyText)
	}
	if len(plan.ToolCalls) != 1 || plan.ToolCalls[0].Tool != "recommend" {
		t.Fatalf("ToolCalls = %+v", plan.ToolCalls)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(gotUser), &payload); err != nil {
		t.Fatalf("user payload is not JSON: %v", err)
	}
	if payload["user_message"] != "need a laptop under 60000" {
		t.Fatalf("user_message = %v", payload["user_message"])
	}
	if payload["customer_id"] != "cust-5" {
		t.Fatalf("customer_id = %v", payload["customer_id"])
	}
	if _, ok := payload["recent_messages"]; !ok {
		t.Fatal("payload missing recent_messages")
	}
}

func TestPlanTransportFailureFallsBack(t *testing.T) {
	t.Parallel()

	a := testAdapter(t, func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("connection refused")
	})

	plan := a.Plan(context.Background(), "do you have SKU-123 in stock?", nil)
	if len(plan.ToolCalls) != 1 || plan.ToolCalls[0].Tool != "check_stock" {
		t.Fatalf("fallback plan = %+v, want check_stock call", plan)
	}
	if plan.ToolCalls[0].Args["sku"] != "SKU-123" {
		t.Fatalf("fallback sku = %v", plan.ToolCalls[0].Args["sku"])
	}
}

func TestPlanUndecodableOutputFallsBack(t *testing.T) {
	t.Parallel()

	a := testAdapter(t, func(ctx context.Context, system, user string) (string, error) {
		return "sorry, no JSON today", nil
	})

	plan := a.Plan(context.Background(), "what is the meaning of life", nil)
	if plan.ReplyText != FallbackReply {
		t.Fatalf("ReplyText = %q, want fixed fallback", plan.ReplyText)
	}
	if len(plan.ToolCalls) != 0 {
		t.Fatalf("ToolCalls = %+v, want none", plan.ToolCalls)
	}
}

func TestPlanIncludesLastToolResults(t *testing.T) {
	t.Parallel()

	var gotUser string
	a := testAdapter(t, func(ctx context.Context, system, user string) (string, error) {
		gotUser = user
		return `{"reply_text":"ok"}`, nil
	})

	now := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	sess := sessionx.New("s2", "cust", sessionx.ChannelWeb, now)
	sess.SetContext(ContextKeyLastToolResults, []map[string]any{{"tool": "recommend"}})

	a.Plan(context.Background(), "and the second one?", sess)

	var payload map[string]any
	if err := json.Unmarshal([]byte(gotUser), &payload); err != nil {
		t.Fatalf("user payload is not JSON: %v", err)
	}
	if _, ok := payload["last_tool_results"]; !ok {
		t.Fatal("payload missing last_tool_results")
	}
}

func TestNewRejectsMissingClientOrModel(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, openrouterx.Config{Model: "m"}); err == nil {
		t.Fatal("New(nil client) error = nil")
	}
	client := openrouterx.NewClient(openrouterx.Config{APIKey: "k", Model: "m"})
	if _, err := New(client, openrouterx.Config{}); err == nil {
		t.Fatal("New() with empty model error = nil")
	}
}

func TestFallbackRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		wantTool string
	}{
		{"stock question with sku", "is LAP-1001 available?", "check_stock"},
		{"recommend keyword", "recommend me some shoes", "recommend"},
		{"show me phrasing", "show me shirts under 1500", "recommend"},
		{"payment with order and amount", "pay 2198 for order ORD-90001", "authorize_payment"},
		{"payment without amount", "please checkout ORD-90001", ""},
		{"no intent", "hello there", ""},
		{"sku without stock words", "I bought LAP-1001 yesterday", ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan := Fallback(tc.text)
			if tc.wantTool == "" {
				if len(plan.ToolCalls) != 0 {
					t.Fatalf("ToolCalls = %+v, want none", plan.ToolCalls)
				}
				if plan.ReplyText != FallbackReply {
					t.Fatalf("ReplyText = %q, want fixed fallback", plan.ReplyText)
				}
				return
			}
			if len(plan.ToolCalls) != 1 || plan.ToolCalls[0].Tool != tc.wantTool {
				t.Fatalf("ToolCalls = %+v, want one %s call", plan.ToolCalls, tc.wantTool)
			}
		})
	}
}

func TestFallbackExtractsBudget(t *testing.T) {
	t.Parallel()

	plan := Fallback("show me shirts under 1500")
	if len(plan.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %+v", plan.ToolCalls)
	}
	if plan.ToolCalls[0].Args["budget"] != 1500.0 {
		t.Fatalf("budget = %v, want 1500", plan.ToolCalls[0].Args["budget"])
	}
}

func TestFallbackPaymentExtractsOrderAndAmount(t *testing.T) {
	t.Parallel()

	plan := Fallback("pay ₹2198 for ORD-90001 with my card")
	if len(plan.ToolCalls) != 1 || plan.ToolCalls[0].Tool != "authorize_payment" {
		t.Fatalf("plan = %+v", plan)
	}
	args := plan.ToolCalls[0].Args
	if args["order_id"] != "ORD-90001" {
		t.Fatalf("order_id = %v", args["order_id"])
	}
	if args["amount"] != 2198.0 {
		t.Fatalf("amount = %v", args["amount"])
	}
}

func TestRuleOnlyPlanner(t *testing.T) {
	t.Parallel()

	p := NewRuleOnly()
	plan := p.Plan(context.Background(), "recommend a wallet", nil)
	if len(plan.ToolCalls) != 1 || plan.ToolCalls[0].Tool != "recommend" {
		t.Fatalf("plan = %+v", plan)
	}
}
