package domain

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultDailyCalorieGoal applies until the user saved a calculation or a
// profile goal.
const DefaultDailyCalorieGoal = 2000

var MealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

// IsMealType reports whether t is one of MealTypes.
func IsMealType(t string) bool {
	for _, known := range MealTypes {
		if known == t {
			return true
		}
	}
	return false
}

// MealEntry is one logged meal. Macros are in grams.
type MealEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	MealDate  Date               `bson:"mealDate" json:"mealDate"`
	MealType  string             `bson:"mealType" json:"mealType"`
	MealName  string             `bson:"mealName" json:"mealName"`
	FoodItems string             `bson:"foodItems" json:"foodItems"`
	Calories  int                `bson:"calories" json:"calories"`
	Protein   float64            `bson:"protein" json:"protein"`
	Carbs     float64            `bson:"carbs" json:"carbs"`
	Fat       float64            `bson:"fat" json:"fat"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type MealTotals struct {
	Meals    int     `json:"meals"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func SumMeals(meals []MealEntry) MealTotals {
	var totals MealTotals
	for _, m := range meals {
		totals.Meals++
		totals.Calories += m.Calories
		totals.Protein += m.Protein
		totals.Carbs += m.Carbs
		totals.Fat += m.Fat
	}
	totals.Protein = roundTo(totals.Protein, 1)
	totals.Carbs = roundTo(totals.Carbs, 1)
	totals.Fat = roundTo(totals.Fat, 1)
	return totals
}

// DailyNutrition is what a user ate on one date against their goal.
// Remaining goes negative once the goal is exceeded.
type DailyNutrition struct {
	Date      Date        `json:"date"`
	Meals     []MealEntry `json:"meals"`
	Totals    MealTotals  `json:"totals"`
	Goal      int         `json:"goal"`
	Remaining int         `json:"remaining"`
}

// CalorieInput is what the calorie calculator needs. Weight in kilograms,
// height in centimeters.
type CalorieInput struct {
	Age           int     `bson:"age" json:"age"`
	Gender        string  `bson:"gender" json:"gender"`
	Weight        float64 `bson:"weight" json:"weight"`
	Height        float64 `bson:"height" json:"height"`
	ActivityLevel string  `bson:"activityLevel" json:"activityLevel"`
	Goal          string  `bson:"goal" json:"goal"`
}

// CalorieCalculation is a stored calculator result.
type CalorieCalculation struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	CalorieInput `bson:",inline"`

	BMR                 int       `bson:"bmr" json:"bmr"`
	MaintenanceCalories int       `bson:"maintenanceCalories" json:"maintenanceCalories"`
	TargetCalories      int       `bson:"targetCalories" json:"targetCalories"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
}

var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
	"extreme":   1.9,
}

// ActivityMultiplier maps an activity level to its TDEE factor. Unknown
// levels count as sedentary.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(level)]; ok {
		return m
	}
	return activityMultipliers["sedentary"]
}

// ComputeCalories applies Mifflin-St Jeor for the BMR, the activity
// multiplier for maintenance, and a fixed deficit or surplus for the goal.
func ComputeCalories(in CalorieInput) (bmr, maintenance, target int) {
	base := 10*in.Weight + 6.25*in.Height - 5*float64(in.Age)
	if strings.EqualFold(in.Gender, "male") {
		base += 5
	} else {
		base -= 161
	}
	maintenanceExact := base * ActivityMultiplier(in.ActivityLevel)

	targetExact := maintenanceExact
	switch strings.ToLower(in.Goal) {
	case "lose":
		targetExact -= 500
	case "gain":
		targetExact += 300
	}
	return int(math.Round(base)), int(math.Round(maintenanceExact)), int(math.Round(targetExact))
}
