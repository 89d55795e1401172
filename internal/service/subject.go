package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/model"
	"github.com/sabdelkhalek/studyplanner/internal/repository"
)

const MaxSubjectTitleLength = 100

// hexColorRe matches "#rgb" and "#rrggbb" CSS hex colours.
var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SubjectService handles business logic for subjects.
type SubjectService struct {
	repo   repository.SubjectRepository
	logger *slog.Logger
}

func NewSubjectService(repo repository.SubjectRepository, logger *slog.Logger) *SubjectService {
	return &SubjectService{repo: repo, logger: logger}
}

// SubjectInput carries the writable subject fields.
type SubjectInput struct {
	Title       string
	Description string
	Color       string
}

func (s *SubjectService) Create(ctx context.Context, userID int64, in SubjectInput) (*model.Subject, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateSubjectInput(&in); err != nil {
		return nil, err
	}

	subject := &model.Subject{
		UserID:      userID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Color:       in.Color,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		s.logger.Error("failed to create subject",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating subject: %w", err)
	}

	s.logger.Info("subject created",
		slog.Int64("id", subject.ID),
		slog.Int64("userID", userID),
	)

	return subject, nil
}

func (s *SubjectService) GetByID(ctx context.Context, userID, id int64) (*model.Subject, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *SubjectService) List(ctx context.Context, userID int64) ([]model.Subject, error) {
	subjects, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list subjects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	return subjects, nil
}

func (s *SubjectService) Update(ctx context.Context, userID, id int64, in SubjectInput) (*model.Subject, error) {
	subject, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validateSubjectInput(&in); err != nil {
		return nil, err
	}

	subject.Title = in.Title
	subject.Description = strings.TrimSpace(in.Description)
	subject.Color = in.Color

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("updating subject %d: %w", id, err)
	}

	s.logger.Info("subject updated", slog.Int64("id", id))

	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("subject deleted", slog.Int64("id", id))
	return nil
}

func validateSubjectInput(in *SubjectInput) error {
	if in.Title == "" {
		return apperror.ValidationFailed("title", "subject title is required")
	}
	if len(in.Title) > MaxSubjectTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("subject title must be %d characters or less", MaxSubjectTitleLength))
	}
	if in.Color == "" {
		in.Color = model.DefaultSubjectColor
	} else if !hexColorRe.MatchString(in.Color) {
		return apperror.ValidationFailed("color", "color must be a hex value like #0ea5e9")
	}
	return nil
}
