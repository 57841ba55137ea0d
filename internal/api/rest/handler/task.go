package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-server/internal/api/rest/middleware"
	"github.com/taskdeck/taskdeck-server/internal/api/rest/response"
	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/logger"
	"github.com/taskdeck/taskdeck-server/internal/model"
	"github.com/taskdeck/taskdeck-server/internal/validation"
)

// TaskService defines task operations scoped to the authenticated user.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, task model.Task) (model.Task, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, userID uuid.UUID, taskID string, update model.TaskUpdate) (model.Task, error)
	Delete(ctx context.Context, userID uuid.UUID, taskID string) error
}

// Authorizer authenticates a request whose payload has already been
// validated.
type Authorizer interface {
	Authorize(r *http.Request) (uuid.UUID, error)
}

// Task handles the task CRUD endpoints.
type Task struct {
	service TaskService
	auth    Authorizer
	logger  *logger.Logger
}

// NewTask creates a new Task handler.
func NewTask(service TaskService, auth Authorizer, logger *logger.Logger) *Task {
	return &Task{service: service, auth: auth, logger: logger}
}

const dueDateLayout = "2006-01-02"

type taskRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

type taskView struct {
	TaskID      string  `json:"task_id"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
	CreatedAt   *string `json:"created_at"`
}

func newTaskView(task model.Task) taskView {
	view := taskView{
		TaskID:      task.ID,
		Description: task.Description,
		Status:      string(task.Status),
	}
	if task.DueDate != nil {
		dueDate := task.DueDate.Format(dueDateLayout)
		view.DueDate = &dueDate
	}
	if !task.CreatedAt.IsZero() {
		createdAt := task.CreatedAt.Format(time.RFC3339)
		view.CreatedAt = &createdAt
	}
	return view
}

// Create stores a new task for the authenticated user. Payload validation
// runs before authentication: an invalid payload is reported even when the
// token is missing or bad.
func (h *Task) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, h.logger, apierrors.NewInvalidJSON())
		return
	}

	if err := validation.ValidateTask(req.Description, req.DueDate, req.Status); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	task := model.Task{
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
	}
	if req.DueDate != "" {
		dueDate, err := validation.ParseDueDate(req.DueDate)
		if err != nil {
			response.Error(w, h.logger, err)
			return
		}
		task.DueDate = &dueDate
	}

	userID, err := h.auth.Authorize(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	savedTask, err := h.service.Create(r.Context(), userID, task)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]taskView{"task": newTaskView(savedTask)})
}

// List returns all tasks owned by the authenticated user.
func (h *Task) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewInvalidCredentials())
		return
	}

	tasks, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, newTaskView(task))
	}

	response.JSON(w, http.StatusOK, map[string][]taskView{"tasks": views})
}

type taskUpdateRequest struct {
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

// Update applies a partial update to one of the user's tasks. Only supplied
// fields change; each supplied field is validated individually.
func (h *Task) Update(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	if taskID == "" {
		response.Error(w, h.logger, apierrors.NewMissingTaskID())
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewInvalidCredentials())
		return
	}

	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.Error(w, h.logger, apierrors.NewMissingRequestBody())
		} else {
			response.Error(w, h.logger, apierrors.NewInvalidJSON())
		}
		return
	}
	if req.Description == nil && req.DueDate == nil && req.Status == nil {
		response.Error(w, h.logger, apierrors.NewMissingRequestBody())
		return
	}

	update := model.TaskUpdate{}
	if req.Description != nil {
		if err := validation.ValidateDescription(*req.Description); err != nil {
			response.Error(w, h.logger, err)
			return
		}
		update.Description = req.Description
	}
	if req.DueDate != nil {
		dueDate, err := validation.ParseDueDate(*req.DueDate)
		if err != nil {
			response.Error(w, h.logger, err)
			return
		}
		update.DueDate = &dueDate
	}
	if req.Status != nil {
		if err := validation.ValidateStatus(*req.Status); err != nil {
			response.Error(w, h.logger, err)
			return
		}
		status := model.TaskStatus(*req.Status)
		update.Status = &status
	}

	task, err := h.service.Update(r.Context(), userID, taskID, update)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, newTaskView(task))
}

// Delete removes one of the user's tasks.
func (h *Task) Delete(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	if taskID == "" {
		response.Error(w, h.logger, apierrors.NewMissingTaskID())
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewInvalidCredentials())
		return
	}

	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.Message(w, http.StatusOK, "Task deleted successfully.")
}
