package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutCompletion records that a user finished a workout slot on a date.
// At most one exists per (UserID, WorkoutDay, CompletionDate).
type WorkoutCompletion struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutDay     WorkoutDay         `bson:"workoutDay" json:"workoutDay"`
	WorkoutName    string             `bson:"workoutName" json:"workoutName"`
	CompletionDate Date               `bson:"completionDate" json:"completionDate"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// CompletionDates extracts the completion dates, duplicates included.
func CompletionDates(completions []WorkoutCompletion) []Date {
	dates := make([]Date, 0, len(completions))
	for _, c := range completions {
		dates = append(dates, c.CompletionDate)
	}
	return dates
}

// ComputeStreak counts consecutive days with at least one completion,
// ending at the most recent completion date. The run only counts when that
// date is today or yesterday; an older run is reported as broken (0).
// Input order and duplicate dates do not matter.
func ComputeStreak(dates []Date, today Date) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[Date]struct{}, len(dates))
	unique := make([]Date, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].After(unique[j]) })

	mostRecent := unique[0]
	if mostRecent != today && mostRecent != today.AddDays(-1) {
		return 0
	}

	streak := 0
	for {
		if _, ok := seen[mostRecent.AddDays(-streak)]; !ok {
			return streak
		}
		streak++
	}
}
