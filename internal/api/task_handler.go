package api

import (
	"net/http"

	"github.com/kanbanboard/kanban-api/internal/api/shared"
	"github.com/kanbanboard/kanban-api/internal/domain"
	"github.com/kanbanboard/kanban-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// parseStatusQuery reads the optional ?status= filter.
func parseStatusQuery(r *http.Request) (*domain.TaskStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status, err := domain.ParseTaskStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// CreateTask handles POST /api/boards/{boardId}/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathID(w, r, "boardId", "board")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, boardID, service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Position:    *req.Position,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/boards/{boardId}/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathID(w, r, "boardId", "board")
	if !ok {
		return
	}

	status, err := parseStatusQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, boardID, status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// NextPosition handles GET /api/boards/{boardId}/tasks/next-position?status=.
func (h *TaskHandler) NextPosition(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathID(w, r, "boardId", "board")
	if !ok {
		return
	}

	status, err := parseStatusQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if status == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status: required field")
		return
	}

	pos, err := h.taskService.NextPosition(r.Context(), userID, boardID, *status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute next position")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NextPositionResponse{
		Status:   string(*status),
		Position: pos,
	})
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", "task")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskInfo(r.Context(), userID, taskID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTaskStatus handles PATCH /api/tasks/{id}/status.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", "task")
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskStatus(
		r.Context(), userID, taskID, domain.TaskStatus(req.Status), *req.Position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTaskPosition handles PATCH /api/tasks/{id}/position.
func (h *TaskHandler) UpdateTaskPosition(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", "task")
	if !ok {
		return
	}

	var req UpdateTaskPositionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskPosition(r.Context(), userID, taskID, *req.Position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task position")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", "task")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondNoContent(w)
}
