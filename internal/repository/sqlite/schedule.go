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

var _ repository.ScheduleRepository = (*ScheduleDB)(nil)

// ScheduleDB groups the schedule and course queries.
type ScheduleDB struct {
	conn *sql.DB
}

// Schedules returns the schedule repository view of the database.
func (db *DB) Schedules() *ScheduleDB {
	return &ScheduleDB{conn: db.conn}
}

// Create persists a schedule together with its courses in one transaction —
// a half-imported timetable is worse than none, so either everything lands
// or nothing does.
func (r *ScheduleDB) Create(ctx context.Context, schedule *model.Schedule) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning schedule transaction: %w", err)
	}
	// Rollback is a no-op after Commit succeeds
	defer tx.Rollback()

	schedule.ImportedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO schedules (user_id, source_file, imported_at) VALUES (?, ?, ?)`,
		schedule.UserID,
		schedule.SourceFile,
		schedule.ImportedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting schedule: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new schedule id: %w", err)
	}
	schedule.ID = id

	for i := range schedule.Courses {
		c := &schedule.Courses[i]
		c.ScheduleID = id

		courseRes, err := tx.ExecContext(ctx,
			`INSERT INTO courses (schedule_id, day, start_time, end_time, subject, room, teacher)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ScheduleID, c.Day, c.StartTime, c.EndTime, c.Subject, c.Room, c.Teacher,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting course: %w", err)
		}
		if c.ID, err = courseRes.LastInsertId(); err != nil {
			return fmt.Errorf("sqlite: reading new course id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing schedule: %w", err)
	}
	return nil
}

func (r *ScheduleDB) GetByID(ctx context.Context, userID, id int64) (*model.Schedule, error) {
	var s model.Schedule
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, source_file, imported_at
		 FROM schedules WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&s.ID, &s.UserID, &s.SourceFile, &s.ImportedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("schedule", id)
		}
		return nil, fmt.Errorf("sqlite: getting schedule %d: %w", id, err)
	}

	if s.Courses, err = r.coursesFor(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleDB) ListByUser(ctx context.Context, userID int64) ([]model.Schedule, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, source_file, imported_at
		 FROM schedules WHERE user_id = ? ORDER BY imported_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing schedules: %w", err)
	}
	defer rows.Close()

	schedules := []model.Schedule{}
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.ID, &s.UserID, &s.SourceFile, &s.ImportedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating schedules: %w", err)
	}

	// Hydrate courses after the schedule rows are consumed — sqlite allows
	// one active statement per connection in some configurations, so nested
	// queries inside rows.Next() are avoided.
	for i := range schedules {
		if schedules[i].Courses, err = r.coursesFor(ctx, schedules[i].ID); err != nil {
			return nil, err
		}
	}

	return schedules, nil
}

func (r *ScheduleDB) Delete(ctx context.Context, userID, id int64) error {
	// Courses go with the schedule via ON DELETE CASCADE
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM schedules WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting schedule %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of schedule %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("schedule", id)
	}

	return nil
}

func (r *ScheduleDB) coursesFor(ctx context.Context, scheduleID int64) ([]model.Course, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, schedule_id, day, start_time, end_time, subject, room, teacher
		 FROM courses WHERE schedule_id = ? ORDER BY id`,
		scheduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.ScheduleID, &c.Day, &c.StartTime, &c.EndTime, &c.Subject, &c.Room, &c.Teacher); err != nil {
			return nil, fmt.Errorf("sqlite: scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating courses: %w", err)
	}

	return courses, nil
}
