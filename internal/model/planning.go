package model

import "time"

// Planning is a study plan covering a date range. A student usually keeps
// one active planning at a time, but old ones are retained for history.
type Planning struct {
	ID        int64     `json:"id"         db:"id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	Title     string    `json:"title"      db:"title"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date"   db:"end_date"`
	Active    bool      `json:"active"     db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Sessions are hydrated with the planning, like Schedule.Courses.
	Sessions []StudySession `json:"sessions" db:"-"`
}

// DefaultPlanningTitle is used when a planning is created without a title.
const DefaultPlanningTitle = "Study planning"

// StudySession is one scheduled block of study time inside a planning,
// optionally tied to a task. Times use the same "HH:MM" convention as Course.
type StudySession struct {
	ID          int64     `json:"id"          db:"id"`
	PlanningID  int64     `json:"planning_id" db:"planning_id"`
	TaskID      *int64    `json:"task_id"     db:"task_id"`
	Date        time.Time `json:"date"        db:"date"`
	StartTime   string    `json:"start_time"  db:"start_time"`
	EndTime     string    `json:"end_time"    db:"end_time"`
	Subject     string    `json:"subject"     db:"subject"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed"   db:"completed"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}
