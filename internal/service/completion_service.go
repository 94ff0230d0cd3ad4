package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrDuplicateCompletion = errors.New("workout already marked complete for today")
	ErrCompletionNotFound  = errors.New("workout is not marked complete for today")
	ErrNotScheduledToday   = errors.New("this workout day is not scheduled for today")
	ErrWorkoutDayRequired  = errors.New("workout day is required")
)

// CompletionSummary is everything the dashboard needs about completions.
type CompletionSummary struct {
	Today            domain.Date         `json:"today"`
	Streak           int                 `json:"streak"`
	CompletedToday   []domain.WorkoutDay `json:"completedToday"`
	TotalCompletions int                 `json:"totalCompletions"`
}

type CompletionService interface {
	// MarkComplete records the workout day as done today. A second mark of the
	// same day on the same date fails with ErrDuplicateCompletion.
	MarkComplete(ctx context.Context, userID primitive.ObjectID, day domain.WorkoutDay, workoutName string) (*domain.WorkoutCompletion, error)
	// UnmarkToday removes today's completion of the day. Past days cannot be unmarked.
	UnmarkToday(ctx context.Context, userID primitive.ObjectID, day domain.WorkoutDay) error
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutCompletion, error)
	Streak(ctx context.Context, userID primitive.ObjectID) (int, error)
	IsCompletedToday(ctx context.Context, userID primitive.ObjectID, day domain.WorkoutDay) (bool, error)
	Summary(ctx context.Context, userID primitive.ObjectID) (*CompletionSummary, error)
}

type completionService struct {
	completionRepo repository.CompletionRepository
	clock          domain.Clock
	metrics        *metrics.Manager
}

func NewCompletionService(completionRepo repository.CompletionRepository, clock domain.Clock, metricsManager *metrics.Manager) CompletionService {
	return &completionService{
		completionRepo: completionRepo,
		clock:          clock,
		metrics:        metricsManager,
	}
}

func normalizeDay(day domain.WorkoutDay) (domain.WorkoutDay, error) {
	trimmed := domain.WorkoutDay(strings.TrimSpace(string(day)))
	if trimmed == "" {
		return "", ErrWorkoutDayRequired
	}
	return trimmed, nil
}

func (s *completionService) MarkComplete(ctx context.Context, userID primitive.ObjectID, day domain.WorkoutDay, workoutName string) (*domain.WorkoutCompletion, error) {
	day, err := normalizeDay(day)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := domain.DateOf(now)
	if !day.ScheduledOn(today) {
		return nil, ErrNotScheduledToday
	}
	if workoutName == "" {
		workoutName = string(day)
	}

	completion := &domain.WorkoutCompletion{
		UserID:         userID,
		WorkoutDay:     day,
		WorkoutName:    workoutName,
		CompletionDate: today,
		CreatedAt:      now.UTC(),
	}
	if _, err := s.completionRepo.Insert(ctx, completion); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			s.metrics.CounterCompletionsDuplicate.Inc()
			return nil, ErrDuplicateCompletion
		}
		return nil, storeFailure("insert completion", err)
	}

	s.metrics.CounterCompletionsMarked.Inc()
	log.Debugf("user %s completed %q on %s", userID.Hex(), day, today)
	return completion, nil
}

func (s *completionService) UnmarkToday(ctx context.Context, userID primitive.ObjectID, day domain.WorkoutDay) error {
	day, err := normalizeDay(day)
	if err != nil {
		return err
	}

	if err := s.completionRepo.Delete(ctx, userID, day, s.clock.Today()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCompletionNotFound
		}
		return storeFailure("delete completion", err)
	}
	s.metrics.CounterCompletionsUnmarked.Inc()
	return nil
}

func (s *completionService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	completions, err := s.completionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list completions", err)
	}
	return completions, nil
}

func (s *completionService) Streak(ctx context.Context, userID primitive.ObjectID) (int, error) {
	completions, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	return domain.ComputeStreak(domain.CompletionDates(completions), s.clock.Today()), nil
}

func (s *completionService) IsCompletedToday(ctx context.Context, userID primitive.ObjectID, day domain.WorkoutDay) (bool, error) {
	day, err := normalizeDay(day)
	if err != nil {
		return false, err
	}
	todays, err := s.completionRepo.ListForUserOnDate(ctx, userID, s.clock.Today())
	if err != nil {
		return false, storeFailure("list today's completions", err)
	}
	for _, c := range todays {
		if c.WorkoutDay == day {
			return true, nil
		}
	}
	return false, nil
}

// Summary derives everything from one listing so streak and today's state
// agree with each other.
func (s *completionService) Summary(ctx context.Context, userID primitive.ObjectID) (*CompletionSummary, error) {
	completions, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	summary := &CompletionSummary{
		Today:            today,
		Streak:           domain.ComputeStreak(domain.CompletionDates(completions), today),
		CompletedToday:   []domain.WorkoutDay{},
		TotalCompletions: len(completions),
	}
	for _, c := range completions {
		if c.CompletionDate == today {
			summary.CompletedToday = append(summary.CompletedToday, c.WorkoutDay)
		}
	}
	return summary, nil
}
