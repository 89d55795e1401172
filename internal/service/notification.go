package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/model"
	"github.com/sabdelkhalek/studyplanner/internal/repository"
)

// NotificationService stores and manages per-user notifications.
// Actual delivery channels (email, push) are out of scope.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Create queues a notification. SendAt defaults to now when unset.
func (s *NotificationService) Create(ctx context.Context, userID int64, kind, message string, sendAt time.Time) (*model.Notification, error) {
	if !model.ValidNotificationKind(kind) {
		return nil, apperror.ValidationFailed("kind", fmt.Sprintf("unknown notification kind %q", kind))
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.ValidationFailed("message", "notification message is required")
	}
	if sendAt.IsZero() {
		sendAt = time.Now().UTC()
	}

	notification := &model.Notification{
		UserID:  userID,
		Kind:    kind,
		Message: message,
		SendAt:  sendAt,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("failed to create notification",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	return notification, nil
}

func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool) ([]model.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("failed to list notifications", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
