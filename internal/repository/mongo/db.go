package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// ConnectDB connects to MongoDB and pings the primary before returning.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. The uniqueness
// indexes carry the completion, membership and order invariants; the server
// must not serve requests until this returns nil.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{completionCollectionName, EnsureCompletionIndexes},
		{sessionCollectionName, EnsureSessionIndexes},
		{membershipCollectionName, EnsureMembershipIndexes},
		{orderCollectionName, EnsureOrderIndexes},
		{splitCollectionName, EnsureSplitIndexes},
		{weightCollectionName, EnsureWeightIndexes},
		{strengthCollectionName, EnsureStrengthIndexes},
		{mealCollectionName, EnsureMealIndexes},
		{calculationCollectionName, EnsureCalculationIndexes},
		{profileCollectionName, EnsureProfileIndexes},
	}

	var errs []error
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.collection)); err != nil {
			errs = append(errs, fmt.Errorf("ensure indexes for %s: %w", step.collection, err))
			continue
		}
		log.Debugf("indexes ready for %s", step.collection)
	}
	return errors.Join(errs...)
}
