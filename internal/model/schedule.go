package model

import "time"

// Schedule is an imported class timetable. The original file (typically a
// PDF export from the university) is referenced by name only — parsing
// happens client-side and the API receives the extracted course list.
type Schedule struct {
	ID         int64     `json:"id"          db:"id"`
	UserID     int64     `json:"user_id"     db:"user_id"`
	SourceFile string    `json:"source_file" db:"source_file"` // Original file name, may be empty
	ImportedAt time.Time `json:"imported_at" db:"imported_at"`

	// Courses are loaded alongside the schedule — a schedule without its
	// courses is useless to the caller, so the repository always hydrates them.
	Courses []Course `json:"courses" db:"-"`
}

// Course is one recurring class slot extracted from a schedule.
// Times are stored as "HH:MM" strings: SQLite has no TIME type and the
// values are opaque wall-clock labels, never arithmetic operands.
type Course struct {
	ID         int64  `json:"id"          db:"id"`
	ScheduleID int64  `json:"schedule_id" db:"schedule_id"`
	Day        string `json:"day"         db:"day"` // Weekday name, e.g. "Lundi"
	StartTime  string `json:"start_time"  db:"start_time"`
	EndTime    string `json:"end_time"    db:"end_time"`
	Subject    string `json:"subject"     db:"subject"`
	Room       string `json:"room"        db:"room"`
	Teacher    string `json:"teacher"     db:"teacher"`
}
