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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user and fills in ID and timestamps.
//
// The UNIQUE constraint on email is what guarantees no duplicate accounts
// under concurrent registration — the constraint violation is translated to
// the same Conflict error the service's pre-check produces, so callers see
// one behaviour regardless of which check fired.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, given_name, email, password_hash, level, language, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name,
		user.GivenName,
		user.Email,
		user.PasswordHash,
		user.Level,
		user.Language,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("a user with this email already exists")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, name, given_name, email, password_hash, level, language, created_at, updated_at
		 FROM users WHERE id = ?`, id,
	), id)
}

// GetByEmail retrieves a user by email, matched case-sensitively (emails are
// stored exactly as registered).
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, name, given_name, email, password_hash, level, language, created_at, updated_at
		 FROM users WHERE email = ?`, email,
	), 0)
}

func (db *DB) scanUser(row *sql.Row, id int64) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.GivenName,
		&u.Email,
		&u.PasswordHash,
		&u.Level,
		&u.Language,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &u, nil
}

// Update persists profile fields and the password hash, refreshing
// updated_at. The email column is deliberately absent from the SET list —
// nothing in the API changes an email after registration.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, given_name = ?, password_hash = ?, level = ?, language = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.GivenName,
		user.PasswordHash,
		user.Level,
		user.Language,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of user %d: %w", user.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}
