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

const calculationHistoryLimit = 20

// MealLog describes one meal to record. An empty Date means today.
type MealLog struct {
	Date      domain.Date
	MealType  string
	MealName  string
	FoodItems string
	Calories  int
	Protein   float64
	Carbs     float64
	Fat       float64
}

type NutritionService interface {
	LogMeal(ctx context.Context, userID primitive.ObjectID, meal MealLog) (*domain.MealEntry, error)
	// Day lists the meals of date, today when empty, against the daily goal.
	Day(ctx context.Context, userID primitive.ObjectID, date domain.Date) (*domain.DailyNutrition, error)
	DeleteMeal(ctx context.Context, userID, id primitive.ObjectID) error
	// Calculate runs the calorie calculator and stores the result. The newest
	// calculation's target becomes the daily goal.
	Calculate(ctx context.Context, userID primitive.ObjectID, in domain.CalorieInput) (*domain.CalorieCalculation, error)
	Calculations(ctx context.Context, userID primitive.ObjectID) ([]domain.CalorieCalculation, error)
	// DailyGoal is the latest calculation's target, else the profile goal,
	// else domain.DefaultDailyCalorieGoal.
	DailyGoal(ctx context.Context, userID primitive.ObjectID) (int, error)
}

type nutritionService struct {
	mealRepo        repository.MealRepository
	calculationRepo repository.CalorieCalculationRepository
	profileRepo     repository.ProfileRepository
	clock           domain.Clock
	metrics         *metrics.Manager
}

func NewNutritionService(
	mealRepo repository.MealRepository,
	calculationRepo repository.CalorieCalculationRepository,
	profileRepo repository.ProfileRepository,
	clock domain.Clock,
	metricsManager *metrics.Manager,
) NutritionService {
	return &nutritionService{
		mealRepo:        mealRepo,
		calculationRepo: calculationRepo,
		profileRepo:     profileRepo,
		clock:           clock,
		metrics:         metricsManager,
	}
}

func (s *nutritionService) LogMeal(ctx context.Context, userID primitive.ObjectID, meal MealLog) (*domain.MealEntry, error) {
	meal.MealName = strings.TrimSpace(meal.MealName)
	meal.FoodItems = strings.TrimSpace(meal.FoodItems)
	meal.MealType = strings.ToLower(strings.TrimSpace(meal.MealType))
	if meal.MealType == "" {
		meal.MealType = "snack"
	}
	if meal.MealName == "" || meal.FoodItems == "" || meal.Calories <= 0 || !domain.IsMealType(meal.MealType) {
		return nil, ErrInvalidEntry
	}
	for _, grams := range []float64{meal.Protein, meal.Carbs, meal.Fat} {
		if !validAmount(grams) || grams < 0 {
			return nil, ErrInvalidEntry
		}
	}
	date, err := entryDate(meal.Date, s.clock.Today())
	if err != nil {
		return nil, err
	}

	entry := &domain.MealEntry{
		UserID:    userID,
		MealDate:  date,
		MealType:  meal.MealType,
		MealName:  meal.MealName,
		FoodItems: meal.FoodItems,
		Calories:  meal.Calories,
		Protein:   meal.Protein,
		Carbs:     meal.Carbs,
		Fat:       meal.Fat,
		CreatedAt: s.clock.Now().UTC(),
	}
	if _, err := s.mealRepo.Insert(ctx, entry); err != nil {
		return nil, storeFailure("insert meal", err)
	}
	s.metrics.CounterTrackedEntries.WithLabelValues("meal").Inc()
	return entry, nil
}

func (s *nutritionService) Day(ctx context.Context, userID primitive.ObjectID, date domain.Date) (*domain.DailyNutrition, error) {
	if date == "" {
		date = s.clock.Today()
	}
	meals, err := s.mealRepo.ListForUserOnDate(ctx, userID, date)
	if err != nil {
		return nil, storeFailure("list meals", err)
	}
	if meals == nil {
		meals = []domain.MealEntry{}
	}
	goal, err := s.DailyGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := domain.SumMeals(meals)
	return &domain.DailyNutrition{
		Date:      date,
		Meals:     meals,
		Totals:    totals,
		Goal:      goal,
		Remaining: goal - totals.Calories,
	}, nil
}

func (s *nutritionService) DeleteMeal(ctx context.Context, userID, id primitive.ObjectID) error {
	if err := s.mealRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return storeFailure("delete meal", err)
	}
	return nil
}

func (s *nutritionService) Calculate(ctx context.Context, userID primitive.ObjectID, in domain.CalorieInput) (*domain.CalorieCalculation, error) {
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.ActivityLevel = strings.ToLower(strings.TrimSpace(in.ActivityLevel))
	in.Goal = strings.ToLower(strings.TrimSpace(in.Goal))
	if in.Age < 10 || in.Age > 120 || in.Gender == "" ||
		!validAmount(in.Weight) || in.Weight <= 0 || in.Weight > maxBodyWeightKg ||
		!validAmount(in.Height) || in.Height <= 0 || in.Height > 300 {
		return nil, ErrInvalidEntry
	}

	bmr, maintenance, target := domain.ComputeCalories(in)
	calc := &domain.CalorieCalculation{
		UserID:              userID,
		CalorieInput:        in,
		BMR:                 bmr,
		MaintenanceCalories: maintenance,
		TargetCalories:      target,
		CreatedAt:           s.clock.Now().UTC(),
	}
	if _, err := s.calculationRepo.Insert(ctx, calc); err != nil {
		return nil, storeFailure("insert calorie calculation", err)
	}
	s.metrics.CounterTrackedEntries.WithLabelValues("calculation").Inc()
	return calc, nil
}

func (s *nutritionService) Calculations(ctx context.Context, userID primitive.ObjectID) ([]domain.CalorieCalculation, error) {
	calcs, err := s.calculationRepo.ListForUser(ctx, userID, calculationHistoryLimit)
	if err != nil {
		return nil, storeFailure("list calorie calculations", err)
	}
	if calcs == nil {
		calcs = []domain.CalorieCalculation{}
	}
	return calcs, nil
}

func (s *nutritionService) DailyGoal(ctx context.Context, userID primitive.ObjectID) (int, error) {
	latest, err := s.calculationRepo.ListForUser(ctx, userID, 1)
	if err != nil {
		return 0, storeFailure("get latest calorie calculation", err)
	}
	if len(latest) > 0 && latest[0].TargetCalories > 0 {
		return latest[0].TargetCalories, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		log.WithError(err).Warn("profile read failed, using the default calorie goal")
	case profile.DailyCalorieGoal > 0:
		return profile.DailyCalorieGoal, nil
	}
	return domain.DefaultDailyCalorieGoal, nil
}
