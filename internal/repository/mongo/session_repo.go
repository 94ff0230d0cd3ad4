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

const sessionCollectionName = "workout_sessions"

type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates the workout session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a freshly started session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID.IsZero() || session.WorkoutName == "" {
		return primitive.NilObjectID, errors.New("session requires userId and workoutName")
	}
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return primitive.NilObjectID, err
	}
	return session.ID, nil
}

// GetByID only finds sessions owned by userID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *mongoSessionRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoSessionRepository) ListActiveForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return r.find(ctx, bson.M{"userId": userID, "status": domain.SessionInProgress})
}

func (r *mongoSessionRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutSession, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.WorkoutSession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Finish writes the terminal fields of a session. The filter on
// status=in_progress makes a concurrent complete/cancel pair race safely:
// the loser matches nothing and gets repository.ErrConflict.
func (r *mongoSessionRepository) Finish(ctx context.Context, session *domain.WorkoutSession) error {
	if !session.Status.IsTerminal() {
		return errors.New("finish requires a completed or cancelled session")
	}

	filter := bson.M{
		"_id":    session.ID,
		"userId": session.UserID,
		"status": domain.SessionInProgress,
	}
	set := bson.M{
		"status":    session.Status,
		"updatedAt": session.UpdatedAt,
	}
	if session.EndTime != nil {
		set["endTime"] = *session.EndTime
	}
	if session.DurationMinutes != nil {
		set["durationMinutes"] = *session.DurationMinutes
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}

// EnsureSessionIndexes creates the per-user listing indexes.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
