package model

import "time"

// Notification kinds.
const (
	NotificationReminder = "reminder" // upcoming deadline or session
	NotificationAdvice   = "advice"   // study tips
	NotificationAlert    = "alert"    // overdue task, conflict
)

// Notification is a message queued for a user. Delivery (email, push) is out
// of scope — the API only stores, lists, and marks them read.
type Notification struct {
	ID        int64     `json:"id"         db:"id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	Kind      string    `json:"kind"       db:"kind"`
	Message   string    `json:"message"    db:"message"`
	SendAt    time.Time `json:"send_at"    db:"send_at"`
	Read      bool      `json:"read"       db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidNotificationKind reports whether k is one of the known kinds.
func ValidNotificationKind(k string) bool {
	return k == NotificationReminder || k == NotificationAdvice || k == NotificationAlert
}
