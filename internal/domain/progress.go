package domain

import (
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightEntry is one body weight measurement, in kilograms.
type WeightEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Weight       float64            `bson:"weight" json:"weight"`
	RecordedDate Date               `bson:"recordedDate" json:"recordedDate"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// WeightInsights summarizes a weight history. Changes are current minus the
// earliest entry inside the window, so a loss is negative.
type WeightInsights struct {
	Entries             int     `json:"entries"`
	CurrentWeight       float64 `json:"currentWeight"`
	Change7Days         float64 `json:"change7Days"`
	Change30Days        float64 `json:"change30Days"`
	AverageWeeklyChange float64 `json:"averageWeeklyChange"`
	HighestWeight       float64 `json:"highestWeight"`
	LowestWeight        float64 `json:"lowestWeight"`
}

// ComputeWeightInsights derives the insights for entries as of today.
// Entries may come in any order; the latest recorded date is current.
func ComputeWeightInsights(entries []WeightEntry, today Date) WeightInsights {
	if len(entries) == 0 {
		return WeightInsights{}
	}
	sorted := append([]WeightEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RecordedDate != sorted[j].RecordedDate {
			return sorted[i].RecordedDate.Before(sorted[j].RecordedDate)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	current := sorted[len(sorted)-1].Weight
	changeSince := func(days int) float64 {
		from := today.AddDays(-days)
		for _, e := range sorted {
			if !e.RecordedDate.Before(from) {
				return current - e.Weight
			}
		}
		return 0
	}

	insights := WeightInsights{
		Entries:       len(sorted),
		CurrentWeight: current,
		Change7Days:   roundTo(changeSince(7), 2),
		Change30Days:  roundTo(changeSince(30), 2),
		HighestWeight: sorted[0].Weight,
		LowestWeight:  sorted[0].Weight,
	}
	insights.AverageWeeklyChange = roundTo(insights.Change30Days/4, 2)
	for _, e := range sorted {
		insights.HighestWeight = math.Max(insights.HighestWeight, e.Weight)
		insights.LowestWeight = math.Min(insights.LowestWeight, e.Weight)
	}
	return insights
}

// MaxStrengthReps is the highest rep count the one-rep max estimate accepts.
const MaxStrengthReps = 36

// StrengthEntry is one logged lift. OneRepMax is estimated when logged.
type StrengthEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	Weight       float64            `bson:"weight" json:"weight"`
	Reps         int                `bson:"reps" json:"reps"`
	Sets         int                `bson:"sets" json:"sets"`
	OneRepMax    float64            `bson:"oneRepMax" json:"oneRepMax"`
	RecordedDate Date               `bson:"recordedDate" json:"recordedDate"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// OneRepMax estimates the one-rep max with the Brzycki formula, rounded to
// two decimals. reps must be between 1 and MaxStrengthReps.
func OneRepMax(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	return roundTo(weight*36/float64(37-reps), 2)
}

// StrengthRecord compares the two latest entries of one exercise.
type StrengthRecord struct {
	ExerciseName       string         `json:"exerciseName"`
	Current            StrengthEntry  `json:"current"`
	Previous           *StrengthEntry `json:"previous,omitempty"`
	ImprovementPercent float64        `json:"improvementPercent"`
}

// StrengthRecords groups entries by exercise and compares the estimated one
// rep max of the latest entry with the one before it. Records are sorted by
// exercise name.
func StrengthRecords(entries []StrengthEntry) []StrengthRecord {
	sorted := append([]StrengthEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RecordedDate != sorted[j].RecordedDate {
			return sorted[i].RecordedDate.After(sorted[j].RecordedDate)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	byExercise := map[string]*StrengthRecord{}
	var names []string
	for i := range sorted {
		e := sorted[i]
		record, seen := byExercise[e.ExerciseName]
		if !seen {
			byExercise[e.ExerciseName] = &StrengthRecord{ExerciseName: e.ExerciseName, Current: e}
			names = append(names, e.ExerciseName)
			continue
		}
		if record.Previous == nil {
			record.Previous = &e
			if e.OneRepMax > 0 {
				record.ImprovementPercent = roundTo((record.Current.OneRepMax-e.OneRepMax)/e.OneRepMax*100, 2)
			}
		}
	}

	sort.Strings(names)
	records := make([]StrengthRecord, 0, len(names))
	for _, name := range names {
		records = append(records, *byExercise[name])
	}
	return records
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
