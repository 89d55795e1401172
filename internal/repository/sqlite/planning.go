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

var _ repository.PlanningRepository = (*PlanningDB)(nil)

// PlanningDB groups the planning and study-session queries.
type PlanningDB struct {
	conn *sql.DB
}

// Plannings returns the planning repository view of the database.
func (db *DB) Plannings() *PlanningDB {
	return &PlanningDB{conn: db.conn}
}

// Create persists a planning with its sessions transactionally, the same
// way ScheduleDB.Create handles courses.
func (r *PlanningDB) Create(ctx context.Context, planning *model.Planning) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning planning transaction: %w", err)
	}
	defer tx.Rollback()

	planning.CreatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO plannings (user_id, title, start_date, end_date, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		planning.UserID,
		planning.Title,
		planning.StartDate,
		planning.EndDate,
		planning.Active,
		planning.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting planning: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new planning id: %w", err)
	}
	planning.ID = id

	for i := range planning.Sessions {
		s := &planning.Sessions[i]
		s.PlanningID = id
		s.CreatedAt = planning.CreatedAt

		sessionRes, err := tx.ExecContext(ctx,
			`INSERT INTO study_sessions (planning_id, task_id, date, start_time, end_time, subject, description, completed, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.PlanningID, s.TaskID, s.Date, s.StartTime, s.EndTime, s.Subject, s.Description, s.Completed, s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting study session: %w", err)
		}
		if s.ID, err = sessionRes.LastInsertId(); err != nil {
			return fmt.Errorf("sqlite: reading new study session id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing planning: %w", err)
	}
	return nil
}

func (r *PlanningDB) GetByID(ctx context.Context, userID, id int64) (*model.Planning, error) {
	var p model.Planning
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, start_date, end_date, active, created_at
		 FROM plannings WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.StartDate, &p.EndDate, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("planning", id)
		}
		return nil, fmt.Errorf("sqlite: getting planning %d: %w", id, err)
	}

	if p.Sessions, err = r.sessionsFor(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlanningDB) ListByUser(ctx context.Context, userID int64) ([]model.Planning, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, title, start_date, end_date, active, created_at
		 FROM plannings WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing plannings: %w", err)
	}
	defer rows.Close()

	plannings := []model.Planning{}
	for rows.Next() {
		var p model.Planning
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.StartDate, &p.EndDate, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning planning: %w", err)
		}
		plannings = append(plannings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating plannings: %w", err)
	}

	for i := range plannings {
		if plannings[i].Sessions, err = r.sessionsFor(ctx, plannings[i].ID); err != nil {
			return nil, err
		}
	}

	return plannings, nil
}

func (r *PlanningDB) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM plannings WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting planning %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of planning %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("planning", id)
	}

	return nil
}

// SetSessionCompleted flips a session's completed flag. The join through
// plannings enforces ownership — a session inside someone else's planning
// is simply not found.
func (r *PlanningDB) SetSessionCompleted(ctx context.Context, userID, planningID, sessionID int64, completed bool) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE study_sessions SET completed = ?
		 WHERE id = ? AND planning_id IN (
			SELECT id FROM plannings WHERE id = ? AND user_id = ?
		 )`,
		completed, sessionID, planningID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating study session %d: %w", sessionID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of study session %d: %w", sessionID, err)
	}
	if affected == 0 {
		return apperror.NotFound("study session", sessionID)
	}

	return nil
}

func (r *PlanningDB) sessionsFor(ctx context.Context, planningID int64) ([]model.StudySession, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, planning_id, task_id, date, start_time, end_time, subject, description, completed, created_at
		 FROM study_sessions WHERE planning_id = ? ORDER BY date, start_time`,
		planningID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing study sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.StudySession{}
	for rows.Next() {
		var s model.StudySession
		if err := rows.Scan(
			&s.ID, &s.PlanningID, &s.TaskID, &s.Date, &s.StartTime,
			&s.EndTime, &s.Subject, &s.Description, &s.Completed, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning study session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating study sessions: %w", err)
	}

	return sessions, nil
}
