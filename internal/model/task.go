package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
)

// Valid reports whether s is one of the enumerated statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusOverdue:
		return true
	}
	return false
}

// TaskStore defines persistence operations for tasks. Every operation that
// touches an existing row filters by the owning user id, never by task id
// alone.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Task, error)
	Update(ctx context.Context, taskID string, userID uuid.UUID, update TaskUpdate) (Task, error)
	Delete(ctx context.Context, taskID string, userID uuid.UUID) error
}

// Task represents a stored task owned by a single user.
type Task struct {
	ID          string
	UserID      uuid.UUID
	Description string
	DueDate     *time.Time
	Status      TaskStatus
	CreatedAt   time.Time
}

// TaskUpdate carries the optional fields of a partial task update.
// Nil fields keep their stored values.
type TaskUpdate struct {
	Description *string
	DueDate     *time.Time
	Status      *TaskStatus
}
