package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskdeck/taskdeck-server/internal/model"
)

var _ model.TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	db *Connection
}

func NewTaskRepository(db *Connection) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `INSERT INTO tasks (task_id, user_id, description, due_date, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING task_id, user_id, description, due_date, status, created_at`

	var savedTask model.Task
	err := r.db.QueryRow(ctx, query,
		task.ID, task.UserID, task.Description, task.DueDate, task.Status,
	).Scan(
		&savedTask.ID, &savedTask.UserID, &savedTask.Description,
		&savedTask.DueDate, &savedTask.Status, &savedTask.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return savedTask, nil
}

// GetByUserID returns all tasks owned by the user. The status is derived at
// read time: rows with a due date that has passed and a stored status other
// than completed are reported as overdue without rewriting the row.
func (r *TaskRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	query := `SELECT task_id, user_id, description, due_date,
				CASE WHEN due_date IS NOT NULL AND due_date < CURRENT_DATE AND status <> 'completed'
					 THEN 'overdue' ELSE status END,
				created_at
			  FROM tasks WHERE user_id = $1
			  ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var task model.Task
		err := rows.Scan(
			&task.ID, &task.UserID, &task.Description,
			&task.DueDate, &task.Status, &task.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	return tasks, nil
}

// Update checks ownership and applies the partial update atomically. It
// returns model.ErrNotFound when no row matches both task id and user id,
// and model.ErrNoRowsAffected when the update itself hits no row.
func (r *TaskRepository) Update(ctx context.Context, taskID string, userID uuid.UUID, update model.TaskUpdate) (model.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkOwnership(ctx, tx, taskID, userID); err != nil {
		return model.Task{}, err
	}

	updateQuery := `UPDATE tasks
					SET description = COALESCE($1, description),
						due_date = COALESCE($2, due_date),
						status = COALESCE($3, status)
					WHERE task_id = $4 AND user_id = $5`

	tag, err := tx.Exec(ctx, updateQuery,
		update.Description, update.DueDate, update.Status, taskID, userID,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Task{}, model.ErrNoRowsAffected
	}

	selectQuery := `SELECT task_id, user_id, description, due_date, status, created_at
					FROM tasks WHERE task_id = $1 AND user_id = $2`

	var task model.Task
	err = tx.QueryRow(ctx, selectQuery, taskID, userID).Scan(
		&task.ID, &task.UserID, &task.Description,
		&task.DueDate, &task.Status, &task.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to reload task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Task{}, fmt.Errorf("failed to commit task update: %w", err)
	}

	return task, nil
}

// Delete checks ownership and removes the task atomically.
func (r *TaskRepository) Delete(ctx context.Context, taskID string, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkOwnership(ctx, tx, taskID, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE task_id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoRowsAffected
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit task deletion: %w", err)
	}

	return nil
}

func checkOwnership(ctx context.Context, tx pgx.Tx, taskID string, userID uuid.UUID) error {
	var id string
	err := tx.QueryRow(ctx,
		`SELECT task_id FROM tasks WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to check task ownership: %w", err)
	}

	return nil
}
