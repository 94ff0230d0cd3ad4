package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSplitNotFound = errors.New("no workout split saved yet")
	ErrInvalidSplit  = errors.New("split needs a name and at least one named day")
)

type SplitService interface {
	// Current returns the split the user follows.
	Current(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSplit, error)
	// Save replaces the user's split.
	Save(ctx context.Context, userID primitive.ObjectID, splitType string, plan domain.SplitPlan) (*domain.WorkoutSplit, error)
}

type splitService struct {
	splitRepo repository.SplitRepository
	clock     domain.Clock
}

func NewSplitService(splitRepo repository.SplitRepository, clock domain.Clock) SplitService {
	return &splitService{splitRepo: splitRepo, clock: clock}
}

func (s *splitService) Current(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSplit, error) {
	split, err := s.splitRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSplitNotFound
		}
		return nil, storeFailure("get split", err)
	}
	return split, nil
}

func (s *splitService) Save(ctx context.Context, userID primitive.ObjectID, splitType string, plan domain.SplitPlan) (*domain.WorkoutSplit, error) {
	plan.Name = strings.TrimSpace(plan.Name)
	if plan.Name == "" || len(plan.Days) == 0 {
		return nil, ErrInvalidSplit
	}
	seen := make(map[string]bool, len(plan.Days))
	for i, day := range plan.Days {
		name := strings.TrimSpace(day.Name)
		if name == "" || seen[name] {
			return nil, ErrInvalidSplit
		}
		seen[name] = true
		plan.Days[i].Name = name
	}

	splitType = strings.TrimSpace(splitType)
	if splitType == "" {
		splitType = "custom"
	}

	now := s.clock.Now().UTC()
	split := &domain.WorkoutSplit{
		UserID:    userID,
		SplitType: splitType,
		SplitName: plan.Name,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.splitRepo.Save(ctx, split); err != nil {
		return nil, storeFailure("save split", err)
	}
	return split, nil
}
