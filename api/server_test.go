package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	conductorx "github.com/jakkaphatm/chatcart/agent/conductor"
	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	metricsx "github.com/jakkaphatm/chatcart/agent/metrics"
	taskx "github.com/jakkaphatm/chatcart/agent/task"
)

type fakeConductor struct {
	resp contractx.ChatResponse
	err  error
	got  contractx.ChatRequest
}

func (f *fakeConductor) HandleMessage(_ context.Context, req contractx.ChatRequest) (contractx.ChatResponse, error) {
	f.got = req
	return f.resp, f.err
}

type fakeTasks struct {
	tasks []taskx.Task
}

func (f *fakeTasks) ActiveTasks() []taskx.Task { return f.tasks }

type fakeMetricsReader struct {
	m   *metricsx.ToolMetrics
	err error
}

func (f *fakeMetricsReader) Fetch(context.Context, string) (*metricsx.ToolMetrics, error) {
	return f.m, f.err
}

func newTestServer(t *testing.T, c Conductor, tasks TaskLister, metrics MetricsReader) *httptest.Server {
	t.Helper()
	h, err := NewHandler(c, tasks, metrics)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)
	return server
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	cond := &fakeConductor{resp: contractx.ChatResponse{
		SessionID: "sid-1",
		Reply:     "hi there",
		Actions: &contractx.Actions{ToolResults: []contractx.ToolResult{
			{Tool: "recommend", Result: map[string]any{"items": []any{}}},
		}},
	}}
	server := newTestServer(t, cond, &fakeTasks{}, &fakeMetricsReader{err: metricsx.ErrMetricsNotFound})

	resp, err := http.Post(server.URL+"/v1/chat", "application/json",
		strings.NewReader(`{"text":"hello","channel":"mobile","customer_id":"cust-1"}`))
	if err != nil {
		t.Fatalf("POST /v1/chat error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body contractx.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID != "sid-1" || body.Reply != "hi there" {
		t.Fatalf("body = %+v", body)
	}
	if body.Actions == nil || len(body.Actions.ToolResults) != 1 {
		t.Fatalf("actions = %+v", body.Actions)
	}

	if cond.got.Text != "hello" || cond.got.Channel != "mobile" || cond.got.CustomerID != "cust-1" {
		t.Fatalf("conductor request = %+v", cond.got)
	}
}

func TestChatEndpointBadJSON(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeConductor{}, &fakeTasks{}, &fakeMetricsReader{})

	resp, err := http.Post(server.URL+"/v1/chat", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChatEndpointEmptyText(t *testing.T) {
	t.Parallel()

	cond := &fakeConductor{err: conductorx.ErrInvalidMessage}
	server := newTestServer(t, cond, &fakeTasks{}, &fakeMetricsReader{})

	resp, err := http.Post(server.URL+"/v1/chat", "application/json", strings.NewReader(`{"text":""}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChatEndpointInternalError(t *testing.T) {
	t.Parallel()

	cond := &fakeConductor{err: errors.New("graph exploded")}
	server := newTestServer(t, cond, &fakeTasks{}, &fakeMetricsReader{})

	resp, err := http.Post(server.URL+"/v1/chat", "application/json", strings.NewReader(`{"text":"hi"}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	reader := &fakeMetricsReader{m: &metricsx.ToolMetrics{
		Calls:        3,
		SuccessCount: 2,
		ErrorCount:   1,
		AvgExecTime:  200 * time.Millisecond,
	}}
	server := newTestServer(t, &fakeConductor{}, &fakeTasks{}, reader)

	resp, err := http.Get(server.URL + "/v1/metrics/recommend")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Tool    string               `json:"tool"`
		Metrics metricsx.ToolMetrics `json:"metrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Tool != "recommend" {
		t.Fatalf("tool = %q", body.Tool)
	}
	if body.Metrics.Calls != 3 || body.Metrics.AvgExecTime != 200*time.Millisecond {
		t.Fatalf("metrics = %+v", body.Metrics)
	}
}

func TestMetricsEndpointUnknownTool(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeConductor{}, &fakeTasks{},
		&fakeMetricsReader{err: metricsx.ErrMetricsNotFound})

	resp, err := http.Get(server.URL + "/v1/metrics/ghost")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTasksEndpoint(t *testing.T) {
	t.Parallel()

	tasks := &fakeTasks{tasks: []taskx.Task{
		{ID: "t1", AgentType: "recommendation", Status: taskx.StatusCompleted},
		{ID: "t2", AgentType: "payment", Status: taskx.StatusProcessing},
	}}
	server := newTestServer(t, &fakeConductor{}, tasks, &fakeMetricsReader{})

	resp, err := http.Get(server.URL + "/v1/tasks")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Count int          `json:"count"`
		Tasks []taskx.Task `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 2 || len(body.Tasks) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeConductor{}, &fakeTasks{}, &fakeMetricsReader{})

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
