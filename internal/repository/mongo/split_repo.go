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

const splitCollectionName = "workout_splits"

// mongoSplitRepository implements repository.SplitRepository.
type mongoSplitRepository struct {
	collection *mongo.Collection
}

// NewMongoSplitRepository creates a new workout split repository.
func NewMongoSplitRepository(db *mongo.Database) repository.SplitRepository {
	return &mongoSplitRepository{
		collection: db.Collection(splitCollectionName),
	}
}

// GetByUserID retrieves the split the user currently follows.
func (r *mongoSplitRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSplit, error) {
	var split domain.WorkoutSplit
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&split)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &split, nil
}

// Save replaces the user's split, creating it on first save. The stored
// document (with its id and createdAt) is written back into split.
func (r *mongoSplitRepository) Save(ctx context.Context, split *domain.WorkoutSplit) error {
	if split.UserID.IsZero() || split.SplitName == "" {
		return errors.New("split requires userId and splitName")
	}
	now := time.Now().UTC()
	split.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"splitType": split.SplitType,
			"splitName": split.SplitName,
			"plan":      split.Plan,
			"updatedAt": split.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved domain.WorkoutSplit
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": split.UserID}, update, opts).Decode(&saved)
	if err != nil {
		return err
	}
	*split = saved
	return nil
}

// EnsureSplitIndexes keeps one split per user.
func EnsureSplitIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
