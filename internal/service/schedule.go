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

// timeOfDayRe matches the "HH:MM" wall-clock labels used by courses and
// study sessions.
var timeOfDayRe = regexp.MustCompile(`^(?:[01][0-9]|2[0-3]):[0-5][0-9]$`)

// ScheduleService handles imported class timetables. Parsing the original
// file happens client-side; the API receives the already-extracted courses.
type ScheduleService struct {
	repo   repository.ScheduleRepository
	logger *slog.Logger
}

func NewScheduleService(repo repository.ScheduleRepository, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, logger: logger}
}

// CourseInput is one class slot in an import request.
type CourseInput struct {
	Day       string
	StartTime string
	EndTime   string
	Subject   string
	Room      string
	Teacher   string
}

// Import stores a schedule and its courses. At least one course is
// required — an empty timetable import is always a client bug.
func (s *ScheduleService) Import(ctx context.Context, userID int64, sourceFile string, courses []CourseInput) (*model.Schedule, error) {
	if len(courses) == 0 {
		return nil, apperror.ValidationFailed("courses", "a schedule needs at least one course")
	}

	schedule := &model.Schedule{
		UserID:     userID,
		SourceFile: strings.TrimSpace(sourceFile),
		Courses:    make([]model.Course, 0, len(courses)),
	}

	for i, c := range courses {
		c.Day = strings.TrimSpace(c.Day)
		c.Subject = strings.TrimSpace(c.Subject)
		if c.Day == "" || c.Subject == "" {
			return nil, apperror.ValidationFailed("courses",
				fmt.Sprintf("course %d: day and subject are required", i))
		}
		if !timeOfDayRe.MatchString(c.StartTime) || !timeOfDayRe.MatchString(c.EndTime) {
			return nil, apperror.ValidationFailed("courses",
				fmt.Sprintf("course %d: times must be HH:MM", i))
		}
		if c.EndTime <= c.StartTime {
			// Lexicographic compare is correct for zero-padded HH:MM
			return nil, apperror.ValidationFailed("courses",
				fmt.Sprintf("course %d: end time must be after start time", i))
		}

		schedule.Courses = append(schedule.Courses, model.Course{
			Day:       c.Day,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Subject:   c.Subject,
			Room:      strings.TrimSpace(c.Room),
			Teacher:   strings.TrimSpace(c.Teacher),
		})
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		s.logger.Error("failed to import schedule",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("importing schedule: %w", err)
	}

	s.logger.Info("schedule imported",
		slog.Int64("id", schedule.ID),
		slog.Int64("userID", userID),
		slog.Int("courses", len(schedule.Courses)),
	)

	return schedule, nil
}

func (s *ScheduleService) GetByID(ctx context.Context, userID, id int64) (*model.Schedule, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ScheduleService) List(ctx context.Context, userID int64) ([]model.Schedule, error) {
	schedules, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list schedules", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	return schedules, nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("schedule deleted", slog.Int64("id", id))
	return nil
}
