package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidEntry  = errors.New("entry values are out of range")
	ErrEntryNotFound = errors.New("entry not found")
	ErrFutureEntry   = errors.New("entries cannot be recorded for a future date")
)

const maxBodyWeightKg = 500

// WeightProgress is the weight history with its insights.
type WeightProgress struct {
	Entries  []domain.WeightEntry  `json:"entries"`
	Insights domain.WeightInsights `json:"insights"`
}

// StrengthLog describes one lift to record.
type StrengthLog struct {
	ExerciseName string
	Weight       float64
	Reps         int
	Sets         int
}

type ProgressService interface {
	// LogWeight records a weight on date, today when date is empty.
	LogWeight(ctx context.Context, userID primitive.ObjectID, weight float64, date domain.Date, notes string) (*domain.WeightEntry, error)
	Weight(ctx context.Context, userID primitive.ObjectID) (*WeightProgress, error)
	DeleteWeight(ctx context.Context, userID, id primitive.ObjectID) error
	// LogStrength records a lift for today with its estimated one rep max.
	LogStrength(ctx context.Context, userID primitive.ObjectID, lift StrengthLog) (*domain.StrengthEntry, error)
	StrengthHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.StrengthEntry, error)
	StrengthRecords(ctx context.Context, userID primitive.ObjectID) ([]domain.StrengthRecord, error)
}

type progressService struct {
	weightRepo   repository.WeightRepository
	strengthRepo repository.StrengthRepository
	clock        domain.Clock
	metrics      *metrics.Manager
}

func NewProgressService(
	weightRepo repository.WeightRepository,
	strengthRepo repository.StrengthRepository,
	clock domain.Clock,
	metricsManager *metrics.Manager,
) ProgressService {
	return &progressService{
		weightRepo:   weightRepo,
		strengthRepo: strengthRepo,
		clock:        clock,
		metrics:      metricsManager,
	}
}

// entryDate defaults an empty date to today and rejects future dates.
func entryDate(date domain.Date, today domain.Date) (domain.Date, error) {
	if date == "" {
		return today, nil
	}
	if date.After(today) {
		return "", ErrFutureEntry
	}
	return date, nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *progressService) LogWeight(ctx context.Context, userID primitive.ObjectID, weight float64, date domain.Date, notes string) (*domain.WeightEntry, error) {
	if !validAmount(weight) || weight <= 0 || weight > maxBodyWeightKg {
		return nil, ErrInvalidEntry
	}
	date, err := entryDate(date, s.clock.Today())
	if err != nil {
		return nil, err
	}

	entry := &domain.WeightEntry{
		UserID:       userID,
		Weight:       weight,
		RecordedDate: date,
		Notes:        strings.TrimSpace(notes),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if _, err := s.weightRepo.Insert(ctx, entry); err != nil {
		return nil, storeFailure("insert weight", err)
	}
	s.metrics.CounterTrackedEntries.WithLabelValues("weight").Inc()
	return entry, nil
}

func (s *progressService) Weight(ctx context.Context, userID primitive.ObjectID) (*WeightProgress, error) {
	entries, err := s.weightRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list weights", err)
	}
	if entries == nil {
		entries = []domain.WeightEntry{}
	}
	return &WeightProgress{
		Entries:  entries,
		Insights: domain.ComputeWeightInsights(entries, s.clock.Today()),
	}, nil
}

func (s *progressService) DeleteWeight(ctx context.Context, userID, id primitive.ObjectID) error {
	if err := s.weightRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return storeFailure("delete weight", err)
	}
	return nil
}

func (s *progressService) LogStrength(ctx context.Context, userID primitive.ObjectID, lift StrengthLog) (*domain.StrengthEntry, error) {
	name := strings.TrimSpace(lift.ExerciseName)
	if name == "" || !validAmount(lift.Weight) || lift.Weight <= 0 ||
		lift.Reps < 1 || lift.Reps > domain.MaxStrengthReps || lift.Sets < 1 {
		return nil, ErrInvalidEntry
	}

	entry := &domain.StrengthEntry{
		UserID:       userID,
		ExerciseName: name,
		Weight:       lift.Weight,
		Reps:         lift.Reps,
		Sets:         lift.Sets,
		OneRepMax:    domain.OneRepMax(lift.Weight, lift.Reps),
		RecordedDate: s.clock.Today(),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if _, err := s.strengthRepo.Insert(ctx, entry); err != nil {
		return nil, storeFailure("insert strength entry", err)
	}
	s.metrics.CounterTrackedEntries.WithLabelValues("strength").Inc()
	return entry, nil
}

func (s *progressService) StrengthHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.StrengthEntry, error) {
	entries, err := s.strengthRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list strength entries", err)
	}
	if entries == nil {
		entries = []domain.StrengthEntry{}
	}
	return entries, nil
}

func (s *progressService) StrengthRecords(ctx context.Context, userID primitive.ObjectID) ([]domain.StrengthRecord, error) {
	entries, err := s.StrengthHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.StrengthRecords(entries), nil
}
