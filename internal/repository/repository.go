package repository

import (
	"context"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	// ErrConflict means a conditional write lost against a concurrent writer.
	ErrConflict = RepositoryError("conflicting concurrent update")
)

// RepositoryError distinguishes errors raised by the store layer itself.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores account holders.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// CompletionRepository stores workout completions. Insert must reject a
// second record for the same (user, workout day, date) with ErrDuplicateKey.
type CompletionRepository interface {
	Insert(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error)
	Delete(ctx context.Context, userID primitive.ObjectID, workoutDay domain.WorkoutDay, date domain.Date) error
	// ListForUser returns the user's completions, most recent date first.
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutCompletion, error)
	ListForUserOnDate(ctx context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.WorkoutCompletion, error)
}

// SessionRepository stores workout sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// ListForUser returns the user's sessions, newest first.
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	ListActiveForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	// Finish persists a completed or cancelled session. The write only applies
	// while the stored row is still in progress; otherwise ErrConflict.
	Finish(ctx context.Context, session *domain.WorkoutSession) error
}

// MembershipRepository stores the single membership row of each user.
type MembershipRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Membership, error)
	// Upsert writes m keyed on its UserID, but only if the stored expiry still
	// equals prevExpiresAt (nil meaning no row or no expiry). A lost race
	// returns ErrConflict.
	Upsert(ctx context.Context, m *domain.Membership, prevExpiresAt *time.Time) error
}

// OrderRepository stores checkout orders, keyed by their unique OrderID.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (primitive.ObjectID, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	// Complete records paymentID on a created order. ErrConflict when the
	// order is no longer in created state, ErrDuplicateKey when the payment
	// already completed another order.
	Complete(ctx context.Context, orderID, paymentID string, at time.Time) error
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
}

// SplitRepository stores the current workout split of each user.
type SplitRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSplit, error)
	Save(ctx context.Context, split *domain.WorkoutSplit) error
}

// WeightRepository stores body weight entries.
type WeightRepository interface {
	Insert(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error)
	// ListForUser returns the user's entries, oldest recorded date first.
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightEntry, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

// StrengthRepository stores logged lifts.
type StrengthRepository interface {
	Insert(ctx context.Context, entry *domain.StrengthEntry) (primitive.ObjectID, error)
	// ListForUser returns the user's lifts, newest first.
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.StrengthEntry, error)
}

// MealRepository stores logged meals.
type MealRepository interface {
	Insert(ctx context.Context, meal *domain.MealEntry) (primitive.ObjectID, error)
	ListForUserOnDate(ctx context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.MealEntry, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

// CalorieCalculationRepository stores calorie calculator results.
type CalorieCalculationRepository interface {
	Insert(ctx context.Context, calc *domain.CalorieCalculation) (primitive.ObjectID, error)
	// ListForUser returns at most limit calculations, newest first.
	ListForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.CalorieCalculation, error)
}

// ProfileRepository stores the single profile of each user.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	Save(ctx context.Context, profile *domain.UserProfile) error
}
