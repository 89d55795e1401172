package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/model"
	"github.com/sabdelkhalek/studyplanner/internal/repository"
)

var _ repository.NotificationRepository = (*NotificationDB)(nil)

// NotificationDB groups the notification queries.
type NotificationDB struct {
	conn *sql.DB
}

// Notifications returns the notification repository view of the database.
func (db *DB) Notifications() *NotificationDB {
	return &NotificationDB{conn: db.conn}
}

func (r *NotificationDB) Create(ctx context.Context, notification *model.Notification) error {
	notification.CreatedAt = time.Now().UTC()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO notifications (user_id, kind, message, send_at, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.UserID,
		notification.Kind,
		notification.Message,
		notification.SendAt,
		notification.Read,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new notification id: %w", err)
	}
	notification.ID = id

	return nil
}

func (r *NotificationDB) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT id, user_id, kind, message, send_at, read, created_at
		 FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY send_at DESC`

	rows, err := r.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.SendAt, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationDB) MarkRead(ctx context.Context, userID, id int64) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking notification %d read: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of notification %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("notification", id)
	}

	return nil
}

func (r *NotificationDB) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting notification %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of notification %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("notification", id)
	}

	return nil
}
