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
	ErrProfileNotFound = errors.New("no profile saved yet")
	ErrInvalidProfile  = errors.New("profile values are out of range")
)

type ProfileService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	// Save replaces the user's profile. Zero values clear a field.
	Save(ctx context.Context, userID primitive.ObjectID, profile domain.UserProfile) (*domain.UserProfile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	clock       domain.Clock
}

func NewProfileService(profileRepo repository.ProfileRepository, clock domain.Clock) ProfileService {
	return &profileService{profileRepo: profileRepo, clock: clock}
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, storeFailure("get profile", err)
	}
	return profile, nil
}

func (s *profileService) Save(ctx context.Context, userID primitive.ObjectID, profile domain.UserProfile) (*domain.UserProfile, error) {
	if profile.Age < 0 || profile.Age > 120 ||
		!validAmount(profile.Height) || profile.Height < 0 || profile.Height > 300 ||
		!validAmount(profile.Weight) || profile.Weight < 0 || profile.Weight > maxBodyWeightKg ||
		profile.DailyCalorieGoal < 0 {
		return nil, ErrInvalidProfile
	}
	profile.Gender = strings.ToLower(strings.TrimSpace(profile.Gender))
	profile.ActivityLevel = strings.ToLower(strings.TrimSpace(profile.ActivityLevel))
	profile.Goal = strings.ToLower(strings.TrimSpace(profile.Goal))

	var prefs []string
	for _, p := range profile.DietPreferences {
		if p = strings.TrimSpace(p); p != "" {
			prefs = append(prefs, p)
		}
	}

	saved := &domain.UserProfile{
		UserID:           userID,
		Age:              profile.Age,
		Gender:           profile.Gender,
		Height:           profile.Height,
		Weight:           profile.Weight,
		ActivityLevel:    profile.ActivityLevel,
		Goal:             profile.Goal,
		DietPreferences:  prefs,
		DailyCalorieGoal: profile.DailyCalorieGoal,
		UpdatedAt:        s.clock.Now().UTC(),
	}
	if err := s.profileRepo.Save(ctx, saved); err != nil {
		return nil, storeFailure("save profile", err)
	}
	return saved, nil
}
