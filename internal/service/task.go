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

const (
	MaxTaskTitleLength = 200
	DefaultListLimit   = 20
	MaxListLimit       = 100
)

// TaskService handles business logic for tasks and exams.
//
// It also holds the subject repository: a task referencing a subject must
// reference one the same user owns, and only this service can check that.
type TaskService struct {
	repo     repository.TaskRepository
	subjects repository.SubjectRepository
	logger   *slog.Logger
}

func NewTaskService(repo repository.TaskRepository, subjects repository.SubjectRepository, logger *slog.Logger) *TaskService {
	return &TaskService{repo: repo, subjects: subjects, logger: logger}
}

// TaskInput carries the writable task fields. SubjectID nil = no subject.
type TaskInput struct {
	SubjectID   *int64
	Title       string
	Description string
	DueDate     time.Time
	Priority    int
	Status      string
}

func (s *TaskService) Create(ctx context.Context, userID int64, in TaskInput) (*model.Task, error) {
	if err := s.validateInput(ctx, userID, &in); err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      userID,
		SubjectID:   in.SubjectID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.Int64("id", task.ID),
		slog.Int64("userID", userID),
		slog.Time("dueDate", task.DueDate),
	)

	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (*model.Task, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List returns the user's tasks, optionally filtered by status and subject.
// The limit is clamped to 1..MaxListLimit so callers can't request
// unbounded result sets.
func (s *TaskService) List(ctx context.Context, userID int64, filter repository.TaskFilter) ([]model.Task, error) {
	if filter.Status != "" && !model.ValidTaskStatus(filter.Status) {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("unknown status %q", filter.Status))
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	tasks, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id int64, in TaskInput) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(ctx, userID, &in); err != nil {
		return nil, err
	}

	task.SubjectID = in.SubjectID
	task.Title = in.Title
	task.Description = strings.TrimSpace(in.Description)
	task.DueDate = in.DueDate
	task.Priority = in.Priority
	task.Status = in.Status

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("updating task %d: %w", id, err)
	}

	s.logger.Info("task updated", slog.Int64("id", id), slog.String("status", task.Status))

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", slog.Int64("id", id))
	return nil
}

// validateInput normalizes and checks the writable fields, applying
// defaults for priority and status. A referenced subject must exist AND
// belong to the same user — the ownership-scoped lookup covers both.
func (s *TaskService) validateInput(ctx context.Context, userID int64, in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperror.ValidationFailed("title", "task title is required")
	}
	if len(in.Title) > MaxTaskTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("task title must be %d characters or less", MaxTaskTitleLength))
	}
	if in.DueDate.IsZero() {
		return apperror.ValidationFailed("due_date", "task due date is required")
	}

	if in.Priority == 0 {
		in.Priority = model.TaskPriorityMin
	}
	if in.Priority < model.TaskPriorityMin || in.Priority > model.TaskPriorityMax {
		return apperror.ValidationFailed("priority",
			fmt.Sprintf("priority must be between %d and %d", model.TaskPriorityMin, model.TaskPriorityMax))
	}

	if in.Status == "" {
		in.Status = model.TaskStatusTodo
	}
	if !model.ValidTaskStatus(in.Status) {
		return apperror.ValidationFailed("status", fmt.Sprintf("unknown status %q", in.Status))
	}

	if in.SubjectID != nil {
		if _, err := s.subjects.GetByID(ctx, userID, *in.SubjectID); err != nil {
			return apperror.ValidationFailed("subject_id",
				fmt.Sprintf("subject %d does not exist", *in.SubjectID))
		}
	}

	return nil
}
