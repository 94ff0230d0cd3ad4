package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SplitDay is one day of a workout split and the exercises done on it.
type SplitDay struct {
	Name      string   `bson:"name" json:"name" binding:"required"`
	Exercises []string `bson:"exercises" json:"exercises"`
}

// SplitPlan is the content of a split, as generated or hand-built.
type SplitPlan struct {
	Name        string     `bson:"name" json:"name" binding:"required"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Days        []SplitDay `bson:"days" json:"days" binding:"required,min=1,dive"`
	Advantages  []string   `bson:"advantages,omitempty" json:"advantages,omitempty"`
	SuitableFor []string   `bson:"suitableFor,omitempty" json:"suitableFor,omitempty"`
}

// WorkoutSplit is the one split a user currently follows. Saving a new split
// replaces the previous one.
type WorkoutSplit struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	SplitType string             `bson:"splitType" json:"splitType"` // e.g. "ppl", "upper-lower", "custom"
	SplitName string             `bson:"splitName" json:"splitName"`
	Plan      SplitPlan          `bson:"plan" json:"plan"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Day returns the split day with the given name, if the split has one.
func (s *WorkoutSplit) Day(name WorkoutDay) (SplitDay, bool) {
	for _, d := range s.Plan.Days {
		if WorkoutDay(d.Name) == name {
			return d, true
		}
	}
	return SplitDay{}, false
}
