package orchestrator

import (
	"context"
	"testing"
	"time"

	catalogx "github.com/jakkaphatm/chatcart/agent/catalog"
	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	metricsx "github.com/jakkaphatm/chatcart/agent/metrics"
	toolx "github.com/jakkaphatm/chatcart/agent/tool"
)

// End-to-end over the real workers: a recommend call feeds its top pick's
// SKU into a stock check via a placeholder.
func TestExecutePlanWithRealTools(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := catalogx.NewMemoryRepository(catalogx.DemoProducts(), catalogx.DemoOrders(now))
	metrics := metricsx.NewMemoryStore()

	registry := toolx.NewRegistry()
	recommend := toolx.NewRecommend(repo)
	stock := toolx.NewCheckStock(repo)
	t.Cleanup(recommend.Registry().Close)
	t.Cleanup(stock.Registry().Close)
	if err := registry.Register(toolx.NameRecommend, recommend); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := registry.Register(toolx.NameCheckStock, stock); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	o, err := New(registry, metrics)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plan := contractx.Plan{
		ReplyText: "The AeroBook looks right for you.",
		ToolCalls: []contractx.ToolCall{
			{Tool: toolx.NameRecommend, Args: map[string]any{"query": "laptops", "budget": 60000.0}},
			{Tool: toolx.NameCheckStock, Args: map[string]any{
				"sku": "${tool_results[0].result.items[0].sku}",
			}},
		},
	}
	outcome := o.ExecutePlan(context.Background(), plan, nil)

	if len(outcome.ToolResults) != 2 {
		t.Fatalf("ToolResults len = %d, want 2", len(outcome.ToolResults))
	}
	if outcome.ToolResults[0].Error != "" || outcome.ToolResults[1].Error != "" {
		t.Fatalf("results = %+v, want both successful", outcome.ToolResults)
	}

	// Only LAP-1001 fits a 60000 budget, so the stock check ran against it.
	stockResult := outcome.ToolResults[1]
	if stockResult.Args["sku"] != "LAP-1001" {
		t.Fatalf("resolved sku = %v, want LAP-1001", stockResult.Args["sku"])
	}
	if stockResult.Result["found"] != true {
		t.Fatalf("stock result = %+v", stockResult.Result)
	}

	// Both invocations were observed.
	for _, tool := range []string{toolx.NameRecommend, toolx.NameCheckStock} {
		m, err := metrics.Fetch(context.Background(), tool)
		if err != nil {
			t.Fatalf("Fetch(%s) error = %v", tool, err)
		}
		if m.Calls != 1 || m.SuccessCount != 1 {
			t.Fatalf("metrics for %s = %+v", tool, m)
		}
	}

	// Both task registries kept their completed entries visible.
	tasks := registry.ActiveTasks()
	if len(tasks) != 2 {
		t.Fatalf("ActiveTasks() len = %d, want 2", len(tasks))
	}
}
