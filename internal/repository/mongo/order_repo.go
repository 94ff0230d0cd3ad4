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

const orderCollectionName = "orders"

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &mongoOrderRepository{collection: db.Collection(orderCollectionName)}
}

// Create stores a new checkout order. Order ids are unique.
func (r *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) (primitive.ObjectID, error) {
	if order.UserID.IsZero() || order.OrderID == "" {
		return primitive.NilObjectID, errors.New("order requires userId and orderId")
	}
	order.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return order.ID, nil
}

func (r *mongoOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	if err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Complete only matches an order that is still created, so an order is paid once.
func (r *mongoOrderRepository) Complete(ctx context.Context, orderID, paymentID string, at time.Time) error {
	filter := bson.M{"orderId": orderID, "status": domain.OrderStatusCreated}
	update := bson.M{"$set": bson.M{
		"status":    domain.OrderStatusCompleted,
		"paymentId": paymentID,
		"updatedAt": at.UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *mongoOrderRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// EnsureOrderIndexes makes order ids unique, and payment ids unique among
// the orders that have one.
func EnsureOrderIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "paymentId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"paymentId": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
