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

const profileCollectionName = "user_profiles"

type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{collection: db.Collection(profileCollectionName)}
}

func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save replaces the user's profile, creating it on first save. The stored
// document is written back into profile.
func (r *mongoProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	if profile.UserID.IsZero() {
		return errors.New("profile requires userId")
	}
	now := time.Now().UTC()
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}

	update := bson.M{
		"$set": bson.M{
			"age":              profile.Age,
			"gender":           profile.Gender,
			"height":           profile.Height,
			"weight":           profile.Weight,
			"activityLevel":    profile.ActivityLevel,
			"goal":             profile.Goal,
			"dietPreferences":  profile.DietPreferences,
			"dailyCalorieGoal": profile.DailyCalorieGoal,
			"updatedAt":        profile.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": profile.UpdatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved domain.UserProfile
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": profile.UserID}, update, opts).Decode(&saved); err != nil {
		return err
	}
	*profile = saved
	return nil
}

// EnsureProfileIndexes keeps one profile per user.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
