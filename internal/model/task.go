package model

import "time"

// Task statuses. Stored as strings rather than ints so the database rows
// stay readable and new states can be added without renumbering.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task priority bounds. 1 = low, 3 = medium, 5 = high.
const (
	TaskPriorityMin = 1
	TaskPriorityMax = 5
)

// Task is a piece of work with a deadline — homework, revision, an exam.
//
// WHY SubjectID *int64?
// A task may or may not belong to a subject. Unlike the optional string
// fields on User, "no subject" and "subject 0" must be distinguishable,
// so we use a pointer that serializes to JSON null when unset. The sqlite
// layer stores it as a nullable foreign key.
type Task struct {
	ID          int64     `json:"id"          db:"id"`
	UserID      int64     `json:"user_id"     db:"user_id"`
	SubjectID   *int64    `json:"subject_id"  db:"subject_id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"due_date"    db:"due_date"`
	Priority    int       `json:"priority"    db:"priority"`
	Status      string    `json:"status"      db:"status"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// ValidTaskStatus reports whether s is one of the known task states.
func ValidTaskStatus(s string) bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}
