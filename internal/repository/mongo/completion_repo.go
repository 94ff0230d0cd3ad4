package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const completionCollectionName = "workout_completions"

type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates the workout completion repository.
// EnsureCompletionIndexes must have run for duplicate detection to work.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

// Insert stores a completion. The unique (userId, workoutDay, completionDate)
// index makes a second insert fail with repository.ErrDuplicateKey.
func (r *mongoCompletionRepository) Insert(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error) {
	if completion.UserID.IsZero() || completion.WorkoutDay == "" || completion.CompletionDate == "" {
		return primitive.NilObjectID, errors.New("completion requires userId, workoutDay and completionDate")
	}

	completion.ID = primitive.NewObjectID()
	if completion.CreatedAt.IsZero() {
		completion.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, completion); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return completion.ID, nil
}

// Delete removes the completion for the exact (user, day, date) key.
func (r *mongoCompletionRepository) Delete(ctx context.Context, userID primitive.ObjectID, workoutDay domain.WorkoutDay, date domain.Date) error {
	filter := bson.M{
		"userId":         userID,
		"workoutDay":     workoutDay,
		"completionDate": date,
	}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListForUser returns every completion of the user, latest date first.
func (r *mongoCompletionRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoCompletionRepository) ListForUserOnDate(ctx context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.WorkoutCompletion, error) {
	return r.find(ctx, bson.M{"userId": userID, "completionDate": date})
}

func (r *mongoCompletionRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutCompletion, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "completionDate", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	completions := []domain.WorkoutCompletion{}
	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

// EnsureCompletionIndexes creates the uniqueness constraint on completions.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "workoutDay", Value: 1},
				{Key: "completionDate", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_user_day_date"),
		},
		{
			// serves ListForUser ordering
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completionDate", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
