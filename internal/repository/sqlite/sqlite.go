// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. For a
// single-server backend this removes a whole class of operational problems,
// and ":memory:" databases make repository tests trivial.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init().
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-entity repository methods are
// spread across the files in this package (user.go, subject.go, ...), all
// hanging off this one type.
type DB struct {
	conn *sql.DB
}

// New opens the database, configures pragmas, and runs migrations.
//
// dbPath examples:
//   - "data/studyplanner.db" → file-based, persistent
//   - ":memory:"             → in-memory, lost on close (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect; Ping forces it so a bad path or
	// permissions problem surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// One connection, not a pool. SQLite allows a single writer at a time,
	// and with ":memory:" every pooled connection would get its OWN empty
	// database. A single shared connection sidesteps both problems;
	// database/sql serializes access to it.
	conn.SetMaxOpenConns(1)

	// WAL allows concurrent reads while a write is in flight — important
	// for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The ON DELETE CASCADE
	// chains (user → subjects/tasks/schedules/plannings/notifications)
	// depend on this being enabled.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New — it
// flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent,
// so it is safe to run on every startup.
//
// The UNIQUE index on users.email is load-bearing: the service-level
// duplicate check is only an optimization, this constraint is what holds
// under concurrent registrations.
func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			given_name    TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			level         TEXT NOT NULL DEFAULT '',
			language      TEXT NOT NULL DEFAULT 'fr',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS subjects (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color       TEXT NOT NULL DEFAULT '#0ea5e9',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_subjects_user_id ON subjects(user_id)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			subject_id  INTEGER REFERENCES subjects(id) ON DELETE SET NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date    DATETIME NOT NULL,
			priority    INTEGER NOT NULL DEFAULT 1,
			status      TEXT NOT NULL DEFAULT 'todo',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			source_file TEXT NOT NULL DEFAULT '',
			imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_id INTEGER NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
			day         TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			subject     TEXT NOT NULL,
			room        TEXT NOT NULL DEFAULT '',
			teacher     TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_schedule_id ON courses(schedule_id)`,
		`CREATE TABLE IF NOT EXISTS plannings (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL DEFAULT 'Study planning',
			start_date DATETIME NOT NULL,
			end_date   DATETIME NOT NULL,
			active     INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS study_sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			planning_id INTEGER NOT NULL REFERENCES plannings(id) ON DELETE CASCADE,
			task_id     INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
			date        DATETIME NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			subject     TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			completed   INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_study_sessions_planning_id ON study_sessions(planning_id)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind       TEXT NOT NULL,
			message    TEXT NOT NULL,
			send_at    DATETIME NOT NULL,
			read       INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite doesn't export a typed constraint error, so the message
// text is the only discriminator available.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
