package sqlite

import (
	"context"
	"testing"

	"github.com/sabdelkhalek/studyplanner/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database.
// Each call gets a fresh, fully-migrated schema; the connection is closed
// automatically when the test finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(\":memory:\") error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// createTestUser inserts a user and fails the test on error.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Name:         "Dupont",
		GivenName:    "Marie",
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Level:        "Licence 3",
		Language:     "fr",
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}
