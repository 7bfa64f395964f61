package orchestrator

import (
	"strings"
	"testing"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

func sampleResults() []contractx.ToolResult {
	return []contractx.ToolResult{
		{
			Tool: "recommend",
			Args: map[string]any{"query": "laptop"},
			Result: map[string]any{
				"items": []any{
					map[string]any{"sku": "LAP-1001", "price": 54990.0, "in_stock": true},
					map[string]any{"sku": "LAP-1002", "price": 74990.0},
				},
			},
		},
		{
			Tool:  "check_stock",
			Error: "inventory service timeout",
		},
	}
}

func TestEvalPathFieldAndIndexAccess(t *testing.T) {
	t.Parallel()

	got, err := evalPath("tool_results[0].result.items[1].sku", sampleResults())
	if err != nil {
		t.Fatalf("evalPath() error = %v", err)
	}
	if got != "LAP-1002" {
		t.Fatalf("evalPath() = %v, want LAP-1002", got)
	}
}

func TestEvalPathPreservesValueTypes(t *testing.T) {
	t.Parallel()

	got, err := evalPath("tool_results[0].result.items[0].price", sampleResults())
	if err != nil {
		t.Fatalf("evalPath() error = %v", err)
	}
	if got != 54990.0 {
		t.Fatalf("evalPath() = %v (%T), want float64 54990", got, got)
	}

	got, err = evalPath("tool_results[0].result.items[0].in_stock", sampleResults())
	if err != nil {
		t.Fatalf("evalPath() error = %v", err)
	}
	if got != true {
		t.Fatalf("evalPath() = %v, want true", got)
	}
}

func TestEvalPathErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
	}{
		{"unknown root", "session.customer_id"},
		{"index out of range", "tool_results[5].result"},
		{"negative-ish junk", "tool_results[-1].result"},
		{"missing field", "tool_results[0].result.nope"},
		{"index on map", "tool_results[0].result[0]"},
		{"field on list", "tool_results[0].result.items.sku"},
		{"result of failed call", "tool_results[1].result"},
		{"trailing junk", "tool_results[0].result!"},
		{"no index on root", "tool_results.result"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := evalPath(tc.expr, sampleResults()); err == nil {
				t.Fatalf("evalPath(%q) error = nil, want error", tc.expr)
			}
		})
	}
}

func TestEvalPathErrorFieldOfFailedCall(t *testing.T) {
	t.Parallel()

	got, err := evalPath("tool_results[1].error", sampleResults())
	if err != nil {
		t.Fatalf("evalPath() error = %v", err)
	}
	if got != "inventory service timeout" {
		t.Fatalf("evalPath() = %v", got)
	}
}

func TestResolveArgsNestedStructures(t *testing.T) {
	t.Parallel()

	args := map[string]any{
		"sku":    "${tool_results[0].result.items[0].sku}",
		"static": 7.0,
		"nested": map[string]any{
			"text": "first pick: ${tool_results[0].result.items[0].sku}",
		},
		"list": []any{"${tool_results[0].result.items[1].sku}"},
	}

	resolved, err := resolveArgs(args, sampleResults())
	if err != nil {
		t.Fatalf("resolveArgs() error = %v", err)
	}
	if resolved["sku"] != "LAP-1001" {
		t.Fatalf("sku = %v", resolved["sku"])
	}
	if resolved["static"] != 7.0 {
		t.Fatalf("static = %v, want passthrough", resolved["static"])
	}
	nested := resolved["nested"].(map[string]any)
	if nested["text"] != "first pick: LAP-1001" {
		t.Fatalf("nested text = %v", nested["text"])
	}
	list := resolved["list"].([]any)
	if list[0] != "LAP-1002" {
		t.Fatalf("list[0] = %v", list[0])
	}
}

func TestResolveArgsErrorNamesArg(t *testing.T) {
	t.Parallel()

	_, err := resolveArgs(map[string]any{"sku": "${tool_results[9].result}"}, sampleResults())
	if err == nil {
		t.Fatal("resolveArgs() error = nil")
	}
	if !strings.Contains(err.Error(), "arg sku") {
		t.Fatalf("error = %v, want arg name included", err)
	}
}

func TestResolveStringNoPlaceholders(t *testing.T) {
	t.Parallel()

	got, err := resolveString("plain text ${not closed", sampleResults())
	if err != nil {
		t.Fatalf("resolveString() error = %v", err)
	}
	if got != "plain text ${not closed" {
		t.Fatalf("resolveString() = %v", got)
	}
}
