package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskline/taskline-go/internal/middleware"
	"github.com/taskline/taskline-go/internal/model"
	"github.com/taskline/taskline-go/internal/repository"
	"github.com/taskline/taskline-go/internal/service"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// HandleCreateTask handles POST /api/v1/tasks requests.
func (h *TaskHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.CreateTask(r.Context(), req)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleListTasks handles GET /api/v1/tasks requests. Results are scoped to
// the caller: the controller forces the assignee filter to the current user.
func (h *TaskHandler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Please authenticate")
		return
	}

	var filter model.TaskFilter
	q := r.URL.Query()

	if title := q.Get("title"); title != "" {
		filter.Title = &title
	}
	if raw := q.Get("status"); raw != "" {
		status, valid := model.NormalizeStatus(raw)
		if !valid {
			writeError(w, http.StatusBadRequest, model.ErrInvalidStatus.Error())
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("priority"); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "priority must be an integer")
			return
		}
		filter.Priority = &priority
	}
	filter.AssigneeID = &user.ID

	opts := model.QueryOptions{SortBy: q.Get("sortBy")}
	var err error
	if opts.Page, err = intQueryParam(q.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	if opts.Limit, err = intQueryParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	tasks, err := h.service.QueryTasks(r.Context(), filter, opts)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleGetTask handles GET /api/v1/tasks/{taskID} requests.
func (h *TaskHandler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), id)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleUpdateTask handles PATCH /api/v1/tasks/{taskID} requests.
func (h *TaskHandler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req model.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.UpdateTaskByID(r.Context(), id, req)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleDeleteTask handles DELETE /api/v1/tasks/{taskID} requests.
func (h *TaskHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	if _, err := h.service.DeleteTaskByID(r.Context(), id); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAssignTask handles PATCH /api/v1/tasks/{taskID}/assign requests.
func (h *TaskHandler) HandleAssignTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req model.AssignTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.AssigneeID == nil {
		writeError(w, http.StatusBadRequest, "Assignee ID is required")
		return
	}

	task, err := h.service.UpdateTaskByID(r.Context(), id, model.UpdateTaskRequest{AssigneeID: req.AssigneeID})
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleUpdateTaskStatus handles PATCH /api/v1/tasks/{taskID}/status requests.
func (h *TaskHandler) HandleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req model.UpdateTaskStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Status == nil || *req.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	task, err := h.service.UpdateTaskByID(r.Context(), id, model.UpdateTaskRequest{Status: req.Status})
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// writeTaskError translates task service errors into HTTP responses.
func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAssigneeNotFound),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidPriority),
		errors.Is(err, repository.ErrInvalidSort),
		errors.Is(err, repository.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// taskIDParam parses the {taskID} URL parameter, writing a 400 on failure.
func taskIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

// intQueryParam parses an optional integer query parameter; empty means 0.
func intQueryParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
