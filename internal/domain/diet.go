package domain

import (
	"math"
	"sort"
)

// Macros are daily or per-meal nutrition totals. Grams for protein, carbs and fat.
type Macros struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

func (m Macros) scale(ratio float64) Macros {
	return Macros{
		Calories: roundHalfUp(float64(m.Calories) * ratio),
		Protein:  roundHalfUp(float64(m.Protein) * ratio),
		Carbs:    roundHalfUp(float64(m.Carbs) * ratio),
		Fat:      roundHalfUp(float64(m.Fat) * ratio),
	}
}

type Meal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Macros
}

// DietPlan is a fixed one-day meal template.
type DietPlan struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Meals        []Meal `json:"meals"`
	DailySummary Macros `json:"dailySummary"`
}

// ScaleDietPlan multiplies every meal and the daily summary by
// targetCalories / DailySummary.Calories, rounding each value. A non-positive
// target or a template without calories returns the plan unchanged.
func ScaleDietPlan(plan DietPlan, targetCalories int) DietPlan {
	if targetCalories <= 0 || plan.DailySummary.Calories <= 0 {
		return plan
	}
	ratio := float64(targetCalories) / float64(plan.DailySummary.Calories)

	scaled := plan
	scaled.Meals = make([]Meal, len(plan.Meals))
	for i, meal := range plan.Meals {
		scaled.Meals[i] = Meal{Title: meal.Title, Description: meal.Description, Macros: meal.Macros.scale(ratio)}
	}
	scaled.DailySummary = plan.DailySummary.scale(ratio)
	return scaled
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// DietPlanTemplate looks a built-in template up by id.
func DietPlanTemplate(id string) (DietPlan, bool) {
	plan, ok := dietPlanTemplates[id]
	return plan, ok
}

// DietPlanTemplates lists the built-in templates ordered by id.
func DietPlanTemplates() []DietPlan {
	plans := make([]DietPlan, 0, len(dietPlanTemplates))
	for _, p := range dietPlanTemplates {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans
}

var dietPlanTemplates = map[string]DietPlan{
	"weight-loss": {
		ID:          "weight-loss",
		Name:        "Weight Loss Plan",
		Description: "A calorie-deficit diet with higher protein to maintain muscle mass while losing fat.",
		Meals: []Meal{
			{"Breakfast", "Greek yogurt with berries and a tablespoon of honey, plus a small handful of almonds", Macros{350, 25, 30, 15}},
			{"Morning Snack", "Apple with 1 tablespoon of peanut butter", Macros{200, 5, 25, 8}},
			{"Lunch", "Grilled chicken salad with mixed greens, cherry tomatoes, cucumber, and balsamic vinaigrette", Macros{400, 35, 20, 18}},
			{"Afternoon Snack", "Protein shake with 1 scoop whey protein and water", Macros{120, 25, 3, 1}},
			{"Dinner", "Baked salmon with roasted vegetables and quinoa", Macros{450, 35, 35, 15}},
		},
		DailySummary: Macros{1520, 125, 113, 57},
	},
	"muscle-gain": {
		ID:          "muscle-gain",
		Name:        "Muscle Gain Plan",
		Description: "A calorie surplus diet with high protein to support muscle growth and recovery.",
		Meals: []Meal{
			{"Breakfast", "4 scrambled eggs with spinach, 2 slices whole grain toast, and 1 banana", Macros{550, 35, 55, 20}},
			{"Morning Snack", "Protein smoothie with whey, banana, peanut butter, and milk", Macros{400, 30, 40, 15}},
			{"Lunch", "6oz chicken breast, 1 cup brown rice, and 1 cup steamed broccoli", Macros{500, 45, 50, 10}},
			{"Afternoon Snack", "1 cup greek yogurt with 1/4 cup granola and honey", Macros{350, 25, 40, 10}},
			{"Dinner", "8oz lean steak, sweet potato, and mixed vegetables", Macros{600, 50, 45, 20}},
			{"Before Bed", "Casein protein shake with almond milk", Macros{200, 30, 5, 5}},
		},
		DailySummary: Macros{2600, 215, 235, 80},
	},
	"maintenance": {
		ID:          "maintenance",
		Name:        "Maintenance Plan",
		Description: "A balanced diet to maintain your current weight while supporting overall fitness.",
		Meals: []Meal{
			{"Breakfast", "Oatmeal with berries, 1 tablespoon honey, and 2 scrambled eggs", Macros{400, 20, 50, 12}},
			{"Morning Snack", "Apple and 1oz (small handful) of mixed nuts", Macros{220, 5, 25, 12}},
			{"Lunch", "Turkey and avocado wrap with whole grain tortilla and side salad", Macros{450, 30, 40, 18}},
			{"Afternoon Snack", "Greek yogurt with a drizzle of honey", Macros{180, 20, 15, 3}},
			{"Dinner", "Grilled fish, quinoa, and roasted vegetables", Macros{500, 35, 45, 15}},
		},
		DailySummary: Macros{1750, 110, 175, 60},
	},
	"low-carb": {
		ID:          "low-carb",
		Name:        "Low Carb Plan",
		Description: "A low carbohydrate diet that focuses on protein and healthy fats while reducing carb intake.",
		Meals: []Meal{
			{"Breakfast", "3-egg omelet with spinach, mushrooms, and cheddar cheese", Macros{350, 25, 5, 25}},
			{"Morning Snack", "1/4 cup almonds", Macros{170, 6, 6, 15}},
			{"Lunch", "Grilled chicken salad with olive oil dressing and avocado", Macros{450, 35, 10, 30}},
			{"Afternoon Snack", "Celery sticks with 2 tablespoons of cream cheese", Macros{120, 3, 3, 10}},
			{"Dinner", "Grilled salmon with asparagus and cauliflower mash", Macros{500, 40, 15, 30}},
		},
		DailySummary: Macros{1590, 109, 39, 110},
	},
}
