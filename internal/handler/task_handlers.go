package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mtlprog/hrtask/internal/handler/dto"
	"github.com/mtlprog/hrtask/internal/repository"
	"github.com/mtlprog/hrtask/internal/service"
)

// handleCreateTask creates a new task.
// @Summary Create a new task
// @Description Registers a NOT_STARTED task for an employee with an estimated effort in hours.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskDetail
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	assignmentDate, err := dto.ParseDate(req.AssignmentDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "assignment_date must be YYYY-MM-DD")
		return
	}

	task, err := h.taskService.CreateTask(ctx, service.CreateTaskParams{
		EmployeeID:        req.EmployeeID,
		EmployeeName:      req.EmployeeName,
		Department:        req.Department,
		TaskName:          req.TaskName,
		AssignmentDate:    assignmentDate,
		TimeRequiredHours: req.TimeRequiredHours,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskDetail(task, h.taskService.Now()))
}

// handleGetTask retrieves task details with events.
// @Summary Get task details
// @Description Get the task, its live elapsed time and its event history
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	events, err := h.taskService.ListEvents(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response := dto.TaskDetailResponse{
		Task:   dto.ToTaskDetail(task, h.taskService.Now()),
		Events: make([]dto.TaskEventInfo, len(events)),
	}
	for i, event := range events {
		response.Events[i] = dto.ToTaskEventInfo(event)
	}

	respondJSON(w, http.StatusOK, response)
}

// handleStartTask starts or restarts the task timer.
// @Summary Start a task
// @Description Moves a NOT_STARTED or PAUSED task to IN_PROGRESS. Starting a running task is a no-op.
// @Tags lifecycle
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.StatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tasks/{id}/start [post]
func (h *Handler) handleStartTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	if _, err := h.taskService.StartTask(r.Context(), taskID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.StatusResponse{Status: "started"})
}

// handlePauseTask pauses a running task.
// @Summary Pause a task
// @Description Banks the running interval of an IN_PROGRESS task and moves it to PAUSED.
// @Tags lifecycle
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.StatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tasks/{id}/pause [post]
func (h *Handler) handlePauseTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	if _, err := h.taskService.PauseTask(r.Context(), taskID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.StatusResponse{Status: "paused"})
}

// handleResumeTask resumes a paused task.
// @Summary Resume a task
// @Description Restarts the timer of a PAUSED task.
// @Tags lifecycle
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.StatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tasks/{id}/resume [post]
func (h *Handler) handleResumeTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	if _, err := h.taskService.ResumeTask(r.Context(), taskID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.StatusResponse{Status: "resumed"})
}

// handleFinishTask completes a task and returns its rating.
// @Summary Finish a task
// @Description Completes an IN_PROGRESS or PAUSED task, rating actual against required time.
// @Tags lifecycle
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.FinishResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tasks/{id}/finish [post]
func (h *Handler) handleFinishTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	_, result, err := h.taskService.FinishTask(r.Context(), taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToFinishResponse(result))
}

// handleListTasks lists tasks with filtering and pagination.
// @Summary List tasks
// @Description List tasks with optional filters, sorting and pagination
// @Tags tasks
// @Produce json
// @Param employee_id query string false "Filter by employee"
// @Param department query string false "Filter by department"
// @Param status query string false "Comma-separated statuses: IN_PROGRESS,PAUSED"
// @Param from query string false "Assignment date lower bound (YYYY-MM-DD)"
// @Param to query string false "Assignment date upper bound (YYYY-MM-DD)"
// @Param sort query string false "Sort fields: -assignment_date,task_name"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.TasksListResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filters := repository.TaskListFilters{
		Limit:  50,
		Offset: 0,
	}

	if employeeID := query.Get("employee_id"); employeeID != "" {
		filters.EmployeeID = &employeeID
	}
	if department := query.Get("department"); department != "" {
		filters.Department = &department
	}
	if statusParam := query.Get("status"); statusParam != "" {
		filters.Statuses = splitAndTrim(statusParam, ",")
	}
	if sortParam := query.Get("sort"); sortParam != "" {
		filters.Sort = splitAndTrim(sortParam, ",")
	}

	var ok bool
	if filters.From, ok = parseOptionalDate(w, query.Get("from"), "from"); !ok {
		return
	}
	if filters.To, ok = parseOptionalDate(w, query.Get("to"), "to"); !ok {
		return
	}

	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 200 {
			filters.Limit = n
		}
	}
	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			filters.Offset = n
		}
	}

	results, total, err := h.taskService.ListTasks(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	now := h.taskService.Now()
	tasks := make([]dto.TaskDetail, len(results))
	for i, task := range results {
		tasks[i] = dto.ToTaskDetail(task, now)
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks:  tasks,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// parseOptionalDate parses a YYYY-MM-DD query value. An empty value yields nil.
// Returns false if the value is malformed (error already sent to client).
func parseOptionalDate(w http.ResponseWriter, value, name string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := dto.ParseDate(value)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", name+" must be YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

// splitAndTrim splits a string by delimiter and trims whitespace.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
