package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/model"
	"github.com/taskdeck/taskdeck-server/internal/testutil"
)

// MockTaskStore mocks the TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task model.Task) (model.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, taskID string, userID uuid.UUID, update model.TaskUpdate) (model.Task, error) {
	args := m.Called(ctx, taskID, userID, update)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) Delete(ctx context.Context, taskID string, userID uuid.UUID) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func TestTask_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("defaults to pending and generates id", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Create", ctx, mock.MatchedBy(func(task model.Task) bool {
			return len(task.ID) == 32 &&
				task.UserID == userID &&
				task.Status == model.TaskStatusPending
		})).Return(model.Task{
			ID:          "abc",
			UserID:      userID,
			Description: "Buy milk",
			Status:      model.TaskStatusPending,
			CreatedAt:   time.Now(),
		}, nil)

		task, err := svc.Create(ctx, userID, model.Task{Description: "Buy milk"})
		require.NoError(t, err)
		assert.Equal(t, model.TaskStatusPending, task.Status)
	})

	t.Run("explicit status kept", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Create", ctx, mock.MatchedBy(func(task model.Task) bool {
			return task.Status == model.TaskStatusInProgress
		})).Return(model.Task{Status: model.TaskStatusInProgress}, nil)

		task, err := svc.Create(ctx, userID, model.Task{Description: "Buy milk", Status: model.TaskStatusInProgress})
		require.NoError(t, err)
		assert.Equal(t, model.TaskStatusInProgress, task.Status)
	})

	t.Run("store failure maps to creation failed", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Create", ctx, mock.Anything).Return(model.Task{}, errors.New("insert failed"))

		_, err := svc.Create(ctx, userID, model.Task{Description: "Buy milk"})
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.Status)
		assert.Equal(t, "Failed to create task", apiErr.Message)
	})
}

func TestTask_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	store := &MockTaskStore{}
	svc := NewTask(store, testutil.MakeNoopLogger())

	store.On("GetByUserID", ctx, userID).Return([]model.Task{
		{ID: "a", UserID: userID, Description: "one", Status: model.TaskStatusPending},
		{ID: "b", UserID: userID, Description: "two", Status: model.TaskStatusOverdue},
	}, nil)

	tasks, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTask_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("not owned maps to not found", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Update", ctx, "tid", userID, mock.Anything).Return(model.Task{}, model.ErrNotFound)

		_, err := svc.Update(ctx, userID, "tid", model.TaskUpdate{})
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.Status)
		assert.Equal(t, "Task not found", apiErr.Message)
	})

	t.Run("zero rows affected maps to update failed", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Update", ctx, "tid", userID, mock.Anything).Return(model.Task{}, model.ErrNoRowsAffected)

		_, err := svc.Update(ctx, userID, "tid", model.TaskUpdate{})
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.Status)
		assert.Equal(t, "Failed to update task", apiErr.Message)
	})

	t.Run("success", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		desc := "updated"
		store.On("Update", ctx, "tid", userID, model.TaskUpdate{Description: &desc}).
			Return(model.Task{ID: "tid", Description: "updated"}, nil)

		task, err := svc.Update(ctx, userID, "tid", model.TaskUpdate{Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, "updated", task.Description)
	})
}

func TestTask_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("already deleted maps to not found", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Delete", ctx, "tid", userID).Return(model.ErrNotFound)

		err := svc.Delete(ctx, userID, "tid")
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.Status)
	})

	t.Run("zero rows affected maps to deletion failed", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Delete", ctx, "tid", userID).Return(model.ErrNoRowsAffected)

		err := svc.Delete(ctx, userID, "tid")
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.Status)
		assert.Equal(t, "Failed to delete task", apiErr.Message)
	})

	t.Run("success", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := NewTask(store, testutil.MakeNoopLogger())

		store.On("Delete", ctx, "tid", userID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, userID, "tid"))
	})
}
