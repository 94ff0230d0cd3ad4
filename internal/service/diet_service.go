package service

import (
	"errors"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
)

var ErrDietPlanNotFound = errors.New("diet plan not found")

// DietService serves the built-in diet plan templates, scaled to a calorie
// target when one is given.
type DietService interface {
	Plans() []domain.DietPlan
	// Plan returns a template scaled to targetCalories. A target of zero or
	// less returns the template as is.
	Plan(id string, targetCalories int) (domain.DietPlan, error)
}

type dietService struct{}

func NewDietService() DietService {
	return dietService{}
}

func (dietService) Plans() []domain.DietPlan {
	return domain.DietPlanTemplates()
}

func (dietService) Plan(id string, targetCalories int) (domain.DietPlan, error) {
	plan, ok := domain.DietPlanTemplate(id)
	if !ok {
		return domain.DietPlan{}, ErrDietPlanNotFound
	}
	return domain.ScaleDietPlan(plan, targetCalories), nil
}
