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

const membershipCollectionName = "memberships"

type mongoMembershipRepository struct {
	collection *mongo.Collection
}

// NewMongoMembershipRepository creates the membership repository.
func NewMongoMembershipRepository(db *mongo.Database) repository.MembershipRepository {
	return &mongoMembershipRepository{
		collection: db.Collection(membershipCollectionName),
	}
}

func (r *mongoMembershipRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Membership, error) {
	var m domain.Membership
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Upsert is a single conditional write. The filter pins the expiry the
// caller based its computation on; if another renewal moved it in between,
// the filter misses, the upsert tries to insert a second row for the user,
// and the unique userId index rejects it.
func (r *mongoMembershipRepository) Upsert(ctx context.Context, m *domain.Membership, prevExpiresAt *time.Time) error {
	if m.UserID.IsZero() {
		return errors.New("membership requires userId")
	}

	filter := bson.M{"userId": m.UserID}
	if prevExpiresAt != nil {
		filter["expiresAt"] = *prevExpiresAt
	} else {
		// matches a missing field, an explicit null, or no document at all
		filter["expiresAt"] = nil
	}

	now := time.Now().UTC()
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	update := bson.M{
		"$set": bson.M{
			"status":     m.Status,
			"planId":     m.PlanID,
			"expiresAt":  m.ExpiresAt,
			"paymentId":  m.PaymentID,
			"orderId":    m.OrderID,
			"paymentIds": m.PaymentIDs,
			"updatedAt":  m.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// EnsureMembershipIndexes makes userId unique, one membership row per user.
func EnsureMembershipIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
