package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus is the lifecycle state of a workout session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// ErrInvalidStateTransition is returned when completing or cancelling a
// session that is not in progress.
var ErrInvalidStateTransition = errors.New("session is not in progress")

// IsTerminal reports whether the status can no longer change.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// WorkoutSession is one timed workout. EndTime and DurationMinutes are only
// set once the session is completed.
type WorkoutSession struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutName     string             `bson:"workoutName" json:"workoutName"`
	WorkoutDay      WorkoutDay         `bson:"workoutDay" json:"workoutDay"`
	StartTime       time.Time          `bson:"startTime" json:"startTime"`
	EndTime         *time.Time         `bson:"endTime,omitempty" json:"endTime,omitempty"`
	DurationMinutes *int               `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	SessionDate     Date               `bson:"sessionDate" json:"sessionDate"`
	Status          SessionStatus      `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewSession starts a session at now. Nothing prevents a user from having
// several sessions in progress at once.
func NewSession(userID primitive.ObjectID, workoutName string, workoutDay WorkoutDay, now time.Time) *WorkoutSession {
	return &WorkoutSession{
		UserID:      userID,
		WorkoutName: workoutName,
		WorkoutDay:  workoutDay,
		StartTime:   now,
		SessionDate: DateOf(now),
		Status:      SessionInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Complete moves an in-progress session to completed, stamping the end time
// and the duration rounded to the nearest minute.
func (s *WorkoutSession) Complete(now time.Time) error {
	if s.Status != SessionInProgress {
		return fmt.Errorf("complete session in status %q: %w", s.Status, ErrInvalidStateTransition)
	}
	end := now
	duration := DurationMinutes(s.StartTime, end)
	s.EndTime = &end
	s.DurationMinutes = &duration
	s.Status = SessionCompleted
	s.UpdatedAt = now
	return nil
}

// Cancel moves an in-progress session to cancelled. Cancelled sessions carry
// no end time and no duration.
func (s *WorkoutSession) Cancel(now time.Time) error {
	if s.Status != SessionInProgress {
		return fmt.Errorf("cancel session in status %q: %w", s.Status, ErrInvalidStateTransition)
	}
	s.Status = SessionCancelled
	s.UpdatedAt = now
	return nil
}

// DurationMinutes rounds the elapsed time to the nearest whole minute,
// halves rounding up. A clock that went backwards yields 0.
func DurationMinutes(start, end time.Time) int {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Floor(elapsed.Minutes() + 0.5))
}

// ElapsedSeconds is the whole seconds since start, truncated.
func ElapsedSeconds(start, now time.Time) int64 {
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed / time.Second)
}

// FormatElapsed renders seconds as H:MM:SS from one hour up, MM:SS below.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

// SessionStats summarises completed sessions only.
type SessionStats struct {
	TotalWorkouts    int `json:"totalWorkouts"`
	TotalMinutes     int `json:"totalMinutes"`
	AverageDuration  int `json:"averageDuration"`
	ThisWeekWorkouts int `json:"thisWeekWorkouts"`
}

// ComputeSessionStats aggregates the completed sessions. A session counts
// toward this week when its date is one of the seven dates ending today.
func ComputeSessionStats(sessions []WorkoutSession, now time.Time) SessionStats {
	var stats SessionStats
	weekBefore := DateOf(now).AddDays(-7)

	for _, s := range sessions {
		if s.Status != SessionCompleted {
			continue
		}
		stats.TotalWorkouts++
		if s.DurationMinutes != nil {
			stats.TotalMinutes += *s.DurationMinutes
		}
		if s.SessionDate.After(weekBefore) {
			stats.ThisWeekWorkouts++
		}
	}

	if stats.TotalWorkouts > 0 {
		stats.AverageDuration = int(math.Floor(float64(stats.TotalMinutes)/float64(stats.TotalWorkouts) + 0.5))
	}
	return stats
}
