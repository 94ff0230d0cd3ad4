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

const (
	weightCollectionName      = "weight_entries"
	strengthCollectionName    = "strength_entries"
	mealCollectionName        = "meal_entries"
	calculationCollectionName = "calorie_calculations"
)

// findAll decodes every document matching filter into a non-nil slice.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// deleteOwned removes the document id only if it belongs to userID.
func deleteOwned(ctx context.Context, collection *mongo.Collection, userID, id primitive.ObjectID) error {
	res, err := collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type mongoWeightRepository struct {
	collection *mongo.Collection
}

func NewMongoWeightRepository(db *mongo.Database) repository.WeightRepository {
	return &mongoWeightRepository{collection: db.Collection(weightCollectionName)}
}

func (r *mongoWeightRepository) Insert(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error) {
	if entry.UserID.IsZero() || entry.RecordedDate == "" {
		return primitive.NilObjectID, errors.New("weight entry requires userId and recordedDate")
	}
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

func (r *mongoWeightRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recordedDate", Value: 1}, {Key: "createdAt", Value: 1}})
	return findAll[domain.WeightEntry](ctx, r.collection, bson.M{"userId": userID}, opts)
}

func (r *mongoWeightRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	return deleteOwned(ctx, r.collection, userID, id)
}

type mongoStrengthRepository struct {
	collection *mongo.Collection
}

func NewMongoStrengthRepository(db *mongo.Database) repository.StrengthRepository {
	return &mongoStrengthRepository{collection: db.Collection(strengthCollectionName)}
}

func (r *mongoStrengthRepository) Insert(ctx context.Context, entry *domain.StrengthEntry) (primitive.ObjectID, error) {
	if entry.UserID.IsZero() || entry.ExerciseName == "" {
		return primitive.NilObjectID, errors.New("strength entry requires userId and exerciseName")
	}
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

func (r *mongoStrengthRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.StrengthEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recordedDate", Value: -1}, {Key: "createdAt", Value: -1}})
	return findAll[domain.StrengthEntry](ctx, r.collection, bson.M{"userId": userID}, opts)
}

type mongoMealRepository struct {
	collection *mongo.Collection
}

func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{collection: db.Collection(mealCollectionName)}
}

func (r *mongoMealRepository) Insert(ctx context.Context, meal *domain.MealEntry) (primitive.ObjectID, error) {
	if meal.UserID.IsZero() || meal.MealDate == "" {
		return primitive.NilObjectID, errors.New("meal requires userId and mealDate")
	}
	meal.ID = primitive.NewObjectID()
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, meal); err != nil {
		return primitive.NilObjectID, err
	}
	return meal.ID, nil
}

func (r *mongoMealRepository) ListForUserOnDate(ctx context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.MealEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[domain.MealEntry](ctx, r.collection, bson.M{"userId": userID, "mealDate": date}, opts)
}

func (r *mongoMealRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	return deleteOwned(ctx, r.collection, userID, id)
}

type mongoCalculationRepository struct {
	collection *mongo.Collection
}

func NewMongoCalculationRepository(db *mongo.Database) repository.CalorieCalculationRepository {
	return &mongoCalculationRepository{collection: db.Collection(calculationCollectionName)}
}

func (r *mongoCalculationRepository) Insert(ctx context.Context, calc *domain.CalorieCalculation) (primitive.ObjectID, error) {
	if calc.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("calorie calculation requires userId")
	}
	calc.ID = primitive.NewObjectID()
	if calc.CreatedAt.IsZero() {
		calc.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, calc); err != nil {
		return primitive.NilObjectID, err
	}
	return calc.ID, nil
}

func (r *mongoCalculationRepository) ListForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.CalorieCalculation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[domain.CalorieCalculation](ctx, r.collection, bson.M{"userId": userID}, opts)
}

// EnsureWeightIndexes serves the per-user history sorted by date.
func EnsureWeightIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "recordedDate", Value: 1}},
	})
	return err
}

func EnsureStrengthIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "recordedDate", Value: -1}},
	})
	return err
}

func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "mealDate", Value: 1}},
	})
	return err
}

func EnsureCalculationIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
