package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/model"
	"github.com/sabdelkhalek/studyplanner/internal/repository"
)

var _ repository.TaskRepository = (*TaskDB)(nil)

// TaskDB groups the task queries, mirroring SubjectDB.
type TaskDB struct {
	conn *sql.DB
}

// Tasks returns the task repository view of the database.
func (db *DB) Tasks() *TaskDB {
	return &TaskDB{conn: db.conn}
}

func (r *TaskDB) Create(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO tasks (user_id, subject_id, title, description, due_date, priority, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UserID,
		task.SubjectID, // nil inserts NULL
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new task id: %w", err)
	}
	task.ID = id

	return nil
}

func (r *TaskDB) GetByID(ctx context.Context, userID, id int64) (*model.Task, error) {
	var t model.Task
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, subject_id, title, description, due_date, priority, status, created_at, updated_at
		 FROM tasks WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(
		&t.ID, &t.UserID, &t.SubjectID, &t.Title, &t.Description,
		&t.DueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %d: %w", id, err)
	}
	return &t, nil
}

// List returns the user's tasks ordered by due date, nearest deadline first.
// The WHERE clause is assembled from the filter — both filters optional,
// always parameterised.
func (r *TaskDB) List(ctx context.Context, userID int64, filter repository.TaskFilter) ([]model.Task, error) {
	query := `SELECT id, user_id, subject_id, title, description, due_date, priority, status, created_at, updated_at
		 FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.SubjectID != nil {
		query += " AND subject_id = ?"
		args = append(args, *filter.SubjectID)
	}

	query += " ORDER BY due_date ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.SubjectID, &t.Title, &t.Description,
			&t.DueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskDB) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE tasks SET subject_id = ?, title = ?, description = ?, due_date = ?, priority = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.SubjectID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %d: %w", task.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of task %d: %w", task.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("task", task.ID)
	}

	return nil
}

func (r *TaskDB) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of task %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("task", id)
	}

	return nil
}
