package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	conductorx "github.com/jakkaphatm/chatcart/agent/conductor"
	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	metricsx "github.com/jakkaphatm/chatcart/agent/metrics"
	taskx "github.com/jakkaphatm/chatcart/agent/task"
)

// Conductor is the conversation entrypoint the HTTP layer depends on.
type Conductor interface {
	HandleMessage(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResponse, error)
}

// TaskLister exposes in-flight and recently finished background tasks.
type TaskLister interface {
	ActiveTasks() []taskx.Task
}

// MetricsReader serves per-tool reliability counters.
type MetricsReader interface {
	Fetch(ctx context.Context, tool string) (*metricsx.ToolMetrics, error)
}

type Handler struct {
	conductor Conductor
	tasks     TaskLister
	metrics   MetricsReader
}

func NewHandler(conductor Conductor, tasks TaskLister, metrics MetricsReader) (*Handler, error) {
	if conductor == nil {
		return nil, errors.New("conductor is required")
	}
	if tasks == nil {
		return nil, errors.New("task lister is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics reader is required")
	}
	return &Handler{
		conductor: conductor,
		tasks:     tasks,
		metrics:   metrics,
	}, nil
}

// Router assembles the full HTTP surface.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", h.handleChat)
		r.Get("/metrics/{tool}", h.handleMetrics)
		r.Get("/tasks", h.handleTasks)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req contractx.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.conductor.HandleMessage(r.Context(), req)
	if err != nil {
		if errors.Is(err, conductorx.ErrInvalidMessage) {
			writeError(w, http.StatusBadRequest, "message text is required")
			return
		}
		log.Error().Err(err).Msg("chat turn failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tool := chi.URLParam(r, "tool")

	m, err := h.metrics.Fetch(r.Context(), tool)
	if err != nil {
		if errors.Is(err, metricsx.ErrMetricsNotFound) {
			writeError(w, http.StatusNotFound, "no metrics for tool "+tool)
			return
		}
		log.Error().Err(err).Str("tool", tool).Msg("metrics fetch failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tool":    tool,
		"metrics": m,
	})
}

func (h *Handler) handleTasks(w http.ResponseWriter, _ *http.Request) {
	tasks := h.tasks.ActiveTasks()
	if tasks == nil {
		tasks = []taskx.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
