package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile holds the body and goal details of a user, one per user.
type UserProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	Age              int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender           string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Height           float64            `bson:"height,omitempty" json:"height,omitempty"`
	Weight           float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	ActivityLevel    string             `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`
	Goal             string             `bson:"goal,omitempty" json:"goal,omitempty"`
	DietPreferences  []string           `bson:"dietPreferences,omitempty" json:"dietPreferences,omitempty"`
	DailyCalorieGoal int                `bson:"dailyCalorieGoal,omitempty" json:"dailyCalorieGoal,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
