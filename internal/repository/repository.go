// Package repository declares the storage interfaces consumed by the service
// layer. Services depend on these interfaces, never on the sqlite package —
// tests substitute in-memory fakes and the backend could be swapped without
// touching business logic.
package repository

import (
	"context"

	"github.com/sabdelkhalek/studyplanner/internal/model"
)

// UserRepository persists user accounts.
//
// Create must fail with an apperror.ErrConflict when the email is already
// taken — the UNIQUE constraint in storage is the load-bearing guarantee
// under concurrent registration, not the service-level pre-check.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// Ownership scoping: every read/write below takes the owning userID and
// treats another user's row as absent (apperror.ErrNotFound). Handlers never
// need a separate permission check, and the API cannot leak the existence of
// other users' data.

type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, userID, id int64) (*model.Subject, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, userID, id int64) error
}

// TaskFilter narrows task listings. Zero values mean "no filter";
// Limit/Offset are clamped by the service before reaching storage.
type TaskFilter struct {
	Status    string
	SubjectID *int64
	Limit     int
	Offset    int
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, userID, id int64) (*model.Task, error)
	List(ctx context.Context, userID int64, filter TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, userID, id int64) error
}

// ScheduleRepository stores imported timetables. Create persists the
// schedule and its nested courses in one transaction; reads hydrate courses.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, userID, id int64) (*model.Schedule, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Schedule, error)
	Delete(ctx context.Context, userID, id int64) error
}

// PlanningRepository stores study plannings with their nested sessions,
// mirroring ScheduleRepository's transactional create / hydrated reads.
type PlanningRepository interface {
	Create(ctx context.Context, planning *model.Planning) error
	GetByID(ctx context.Context, userID, id int64) (*model.Planning, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Planning, error)
	Delete(ctx context.Context, userID, id int64) error
	SetSessionCompleted(ctx context.Context, userID, planningID, sessionID int64, completed bool) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}
