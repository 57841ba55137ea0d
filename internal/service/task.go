package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/logger"
	"github.com/taskdeck/taskdeck-server/internal/model"
)

// Task implements task CRUD scoped to the authenticated user.
type Task struct {
	tasks  model.TaskStore
	logger *logger.Logger
}

func NewTask(tasks model.TaskStore, logger *logger.Logger) *Task {
	return &Task{
		tasks:  tasks,
		logger: logger,
	}
}

// Create stores a new task with a generated opaque id. An empty status
// defaults to pending.
func (t *Task) Create(ctx context.Context, userID uuid.UUID, task model.Task) (model.Task, error) {
	t.logger.Debug("Task service: creating task",
		"user_id", userID)

	task.ID = newTaskID()
	task.UserID = userID
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}

	savedTask, err := t.tasks.Create(ctx, task)
	if err != nil {
		t.logger.Error("Task service: failed to create task",
			"user_id", userID,
			"error", err.Error())
		return model.Task{}, apierrors.NewTaskCreationFailed()
	}

	t.logger.Info("Task service: task created",
		"user_id", userID,
		"task_id", savedTask.ID)

	return savedTask, nil
}

// List returns all tasks owned by the user.
func (t *Task) List(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	tasks, err := t.tasks.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Update applies a partial update after the store's ownership check.
func (t *Task) Update(ctx context.Context, userID uuid.UUID, taskID string, update model.TaskUpdate) (model.Task, error) {
	task, err := t.tasks.Update(ctx, taskID, userID, update)
	if errors.Is(err, model.ErrNotFound) {
		return model.Task{}, apierrors.NewTaskNotFound()
	}
	if errors.Is(err, model.ErrNoRowsAffected) {
		return model.Task{}, apierrors.NewTaskUpdateFailed()
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	t.logger.Info("Task service: task updated",
		"user_id", userID,
		"task_id", taskID)

	return task, nil
}

// Delete removes the task after the store's ownership check. Repeating a
// delete for an already-removed id fails the ownership check and reports
// not found.
func (t *Task) Delete(ctx context.Context, userID uuid.UUID, taskID string) error {
	err := t.tasks.Delete(ctx, taskID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewTaskNotFound()
	}
	if errors.Is(err, model.ErrNoRowsAffected) {
		return apierrors.NewTaskDeletionFailed()
	}
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	t.logger.Info("Task service: task deleted",
		"user_id", userID,
		"task_id", taskID)

	return nil
}

// newTaskID returns an opaque 32-character hex id.
func newTaskID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
