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

var _ repository.SubjectRepository = (*SubjectDB)(nil)

// SubjectDB groups the subject queries. Each entity gets its own wrapper
// around the shared connection so the repository interfaces stay separate —
// a service that needs subjects is not handed the user queries too.
type SubjectDB struct {
	conn *sql.DB
}

// Subjects returns the subject repository view of the database.
func (db *DB) Subjects() *SubjectDB {
	return &SubjectDB{conn: db.conn}
}

func (r *SubjectDB) Create(ctx context.Context, subject *model.Subject) error {
	subject.CreatedAt = time.Now().UTC()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO subjects (user_id, title, description, color, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		subject.UserID,
		subject.Title,
		subject.Description,
		subject.Color,
		subject.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting subject: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new subject id: %w", err)
	}
	subject.ID = id

	return nil
}

// GetByID fetches a subject scoped to its owner. A subject belonging to
// another user comes back as not found, never as forbidden — existence of
// other users' rows is not revealed.
func (r *SubjectDB) GetByID(ctx context.Context, userID, id int64) (*model.Subject, error) {
	var s model.Subject
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, color, created_at
		 FROM subjects WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Color, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("subject", id)
		}
		return nil, fmt.Errorf("sqlite: getting subject %d: %w", id, err)
	}
	return &s, nil
}

func (r *SubjectDB) ListByUser(ctx context.Context, userID int64) ([]model.Subject, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, title, description, color, created_at
		 FROM subjects WHERE user_id = ? ORDER BY title`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Color, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating subjects: %w", err)
	}

	return subjects, nil
}

func (r *SubjectDB) Update(ctx context.Context, subject *model.Subject) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE subjects SET title = ?, description = ?, color = ?
		 WHERE id = ? AND user_id = ?`,
		subject.Title,
		subject.Description,
		subject.Color,
		subject.ID,
		subject.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating subject %d: %w", subject.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of subject %d: %w", subject.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("subject", subject.ID)
	}

	return nil
}

func (r *SubjectDB) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM subjects WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting subject %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of subject %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("subject", id)
	}

	return nil
}
