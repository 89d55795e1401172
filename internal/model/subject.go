package model

import "time"

// Subject is a course of study a student tracks (e.g. "Analyse", "Compilation").
// Tasks can optionally reference a subject; the colour is a hex string used by
// the frontend to tint the subject everywhere it appears.
type Subject struct {
	ID          int64     `json:"id"          db:"id"`
	UserID      int64     `json:"user_id"     db:"user_id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Color       string    `json:"color"       db:"color"` // Hex colour, e.g. "#0ea5e9"
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}

// DefaultSubjectColor is applied when a subject is created without a colour.
const DefaultSubjectColor = "#0ea5e9"
