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

// PlanningService handles study plannings and their sessions.
type PlanningService struct {
	repo   repository.PlanningRepository
	tasks  repository.TaskRepository
	logger *slog.Logger
}

func NewPlanningService(repo repository.PlanningRepository, tasks repository.TaskRepository, logger *slog.Logger) *PlanningService {
	return &PlanningService{repo: repo, tasks: tasks, logger: logger}
}

// SessionInput is one study block in a planning creation request.
type SessionInput struct {
	TaskID      *int64
	Date        time.Time
	StartTime   string
	EndTime     string
	Subject     string
	Description string
}

// PlanningInput carries a planning with its sessions. The planning
// generation algorithm itself lives client-side (or in a future worker);
// the API stores whatever plan was produced.
type PlanningInput struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Sessions  []SessionInput
}

func (s *PlanningService) Create(ctx context.Context, userID int64, in PlanningInput) (*model.Planning, error) {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, apperror.ValidationFailed("", "start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, apperror.ValidationFailed("end_date", "end date must not be before start date")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = model.DefaultPlanningTitle
	}

	planning := &model.Planning{
		UserID:    userID,
		Title:     title,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Active:    true,
		Sessions:  make([]model.StudySession, 0, len(in.Sessions)),
	}

	for i, sess := range in.Sessions {
		if sess.Date.IsZero() {
			return nil, apperror.ValidationFailed("sessions",
				fmt.Sprintf("session %d: date is required", i))
		}
		if !timeOfDayRe.MatchString(sess.StartTime) || !timeOfDayRe.MatchString(sess.EndTime) {
			return nil, apperror.ValidationFailed("sessions",
				fmt.Sprintf("session %d: times must be HH:MM", i))
		}
		if sess.EndTime <= sess.StartTime {
			return nil, apperror.ValidationFailed("sessions",
				fmt.Sprintf("session %d: end time must be after start time", i))
		}
		if sess.TaskID != nil {
			// Linked tasks must belong to the same user
			if _, err := s.tasks.GetByID(ctx, userID, *sess.TaskID); err != nil {
				return nil, apperror.ValidationFailed("sessions",
					fmt.Sprintf("session %d: task %d does not exist", i, *sess.TaskID))
			}
		}

		planning.Sessions = append(planning.Sessions, model.StudySession{
			TaskID:      sess.TaskID,
			Date:        sess.Date,
			StartTime:   sess.StartTime,
			EndTime:     sess.EndTime,
			Subject:     strings.TrimSpace(sess.Subject),
			Description: strings.TrimSpace(sess.Description),
		})
	}

	if err := s.repo.Create(ctx, planning); err != nil {
		s.logger.Error("failed to create planning",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating planning: %w", err)
	}

	s.logger.Info("planning created",
		slog.Int64("id", planning.ID),
		slog.Int64("userID", userID),
		slog.Int("sessions", len(planning.Sessions)),
	)

	return planning, nil
}

func (s *PlanningService) GetByID(ctx context.Context, userID, id int64) (*model.Planning, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *PlanningService) List(ctx context.Context, userID int64) ([]model.Planning, error) {
	plannings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list plannings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing plannings: %w", err)
	}
	return plannings, nil
}

func (s *PlanningService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("planning deleted", slog.Int64("id", id))
	return nil
}

// SetSessionCompleted marks a study session done (or not done again).
func (s *PlanningService) SetSessionCompleted(ctx context.Context, userID, planningID, sessionID int64, completed bool) error {
	if err := s.repo.SetSessionCompleted(ctx, userID, planningID, sessionID, completed); err != nil {
		return err
	}
	s.logger.Info("study session updated",
		slog.Int64("planningID", planningID),
		slog.Int64("sessionID", sessionID),
		slog.Bool("completed", completed),
	)
	return nil
}
