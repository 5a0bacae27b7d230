package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/hrtask/docs" // Register OpenAPI document
	"github.com/mtlprog/hrtask/internal/handler/dto"
	"github.com/mtlprog/hrtask/internal/service"
	"github.com/mtlprog/hrtask/internal/static"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool        *pgxpool.Pool
	taskService *service.TaskService
}

// New creates a new Handler instance.
func New(pool *pgxpool.Pool, taskService *service.TaskService) *Handler {
	return &Handler{
		pool:        pool,
		taskService: taskService,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API reference
	mux.HandleFunc("GET /api.md", h.handleAPIMd)
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Task registry
	mux.HandleFunc("GET /api/v1/tasks", h.handleListTasks)
	mux.HandleFunc("POST /api/v1/tasks", h.handleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks/{id}", h.handleGetTask)

	// Lifecycle
	mux.HandleFunc("POST /api/v1/tasks/{id}/start", h.handleStartTask)
	mux.HandleFunc("POST /api/v1/tasks/{id}/pause", h.handlePauseTask)
	mux.HandleFunc("POST /api/v1/tasks/{id}/resume", h.handleResumeTask)
	mux.HandleFunc("POST /api/v1/tasks/{id}/finish", h.handleFinishTask)

	// Reporting
	mux.HandleFunc("GET /api/v1/reports/ratings", h.handleRatingReport)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleAPIMd serves the embedded API reference.
func (h *Handler) handleAPIMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(static.APIMd)); err != nil {
		slog.Error("failed to write api.md", "error", err)
	}
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err to its HTTP form and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractTaskID extracts the task ID path parameter.
// Returns (taskID, true) if present, ("", false) otherwise (error already sent to client).
// Malformed IDs are left to the service, which reports them as unknown tasks.
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}
	return taskID, true
}
