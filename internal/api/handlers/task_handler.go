package handlers

import (
	"fmt"
	"net/http"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/models"
	"github.com/isdelr/life-planner-be/internal/services"
)

// TaskHandler handles HTTP requests for the caller's tasks.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetAll lists the caller's tasks, newest first.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Get returns a single task.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		respondError(w, r, fmt.Errorf("task %w", services.ErrNotFound))
		return
	}

	task, err := h.service.GetTask(r.Context(), auth.IdentityFrom(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Create handles the request to create a new task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.CreateTask(r.Context(), auth.IdentityFrom(r.Context()), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		respondError(w, r, fmt.Errorf("task %w", services.ErrNotFound))
		return
	}

	var patch models.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.UpdateTask(r.Context(), auth.IdentityFrom(r.Context()), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Delete handles the request to delete a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		respondError(w, r, fmt.Errorf("task %w", services.ErrNotFound))
		return
	}

	if err := h.service.DeleteTask(r.Context(), auth.IdentityFrom(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Task deleted successfully")
}
