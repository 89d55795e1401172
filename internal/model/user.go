// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered student account.
//
// WHY PasswordHash json:"-"?
// The `json:"-"` tag tells encoding/json to NEVER serialize this field.
// The hash must not leave the server — API responses carry every other
// field, but the credential stays internal. Verification happens through
// auth.PasswordService, which is the only consumer of this field.
//
// WHY GivenName/Level plain strings (not *string)?
// Both are optional at registration. We use the empty string as the zero
// value rather than a nullable pointer — simpler to work with and safe to
// display. The database stores them as NOT NULL DEFAULT ''.
type User struct {
	ID           int64     `json:"id"         db:"id"`
	Name         string    `json:"name"       db:"name"`       // Family name, e.g. "Dupont"
	GivenName    string    `json:"given_name" db:"given_name"` // Optional, e.g. "Marie"
	Email        string    `json:"email"      db:"email"`      // Unique, stored case-sensitively
	PasswordHash string    `json:"-"          db:"password_hash"`
	Level        string    `json:"level"      db:"level"`    // Study level, e.g. "Licence 1", "Master 2"
	Language     string    `json:"language"   db:"language"` // Preferred language code, defaults to "fr"
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
