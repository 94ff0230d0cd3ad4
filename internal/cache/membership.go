package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	membershipKeyPrefix     = "membership:"
	membershipChannelPrefix = "membership-events:"
	// cached marker for "this user has no membership row"
	noMembership = "null"
)

// MembershipCache keeps the stored membership row of a user in redis. It
// never caches derived state: expiry is compared against the clock on every
// read, so a cached row cannot keep a lapsed membership alive.
type MembershipCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMembershipCache(rdb *redis.Client, ttl time.Duration) *MembershipCache {
	return &MembershipCache{rdb: rdb, ttl: ttl}
}

func membershipKey(userID primitive.ObjectID) string {
	return membershipKeyPrefix + userID.Hex()
}

// Get returns the cached row. found is false on a cache miss; a cached
// "no membership" is found with a nil row.
func (c *MembershipCache) Get(ctx context.Context, userID primitive.ObjectID) (m *domain.Membership, found bool, err error) {
	val, err := c.rdb.Get(ctx, membershipKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached membership: %w", err)
	}
	if val == noMembership {
		return nil, true, nil
	}

	m = &domain.Membership{}
	if err := json.Unmarshal([]byte(val), m); err != nil {
		return nil, false, fmt.Errorf("decode cached membership: %w", err)
	}
	return m, true, nil
}

// Set caches m, or the absence of a row when m is nil.
func (c *MembershipCache) Set(ctx context.Context, userID primitive.ObjectID, m *domain.Membership) error {
	val := noMembership
	if m != nil {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode membership: %w", err)
		}
		val = string(data)
	}
	if err := c.rdb.Set(ctx, membershipKey(userID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache membership: %w", err)
	}
	return nil
}

func (c *MembershipCache) Invalidate(ctx context.Context, userID primitive.ObjectID) error {
	if err := c.rdb.Del(ctx, membershipKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate membership: %w", err)
	}
	return nil
}

// MembershipNotifier fans membership changes out over redis pub/sub so every
// API instance can push fresh state to its open event streams.
type MembershipNotifier struct {
	rdb *redis.Client
}

func NewMembershipNotifier(rdb *redis.Client) *MembershipNotifier {
	return &MembershipNotifier{rdb: rdb}
}

func membershipChannel(userID primitive.ObjectID) string {
	return membershipChannelPrefix + userID.Hex()
}

// Publish announces that the user's membership row changed.
func (n *MembershipNotifier) Publish(ctx context.Context, userID primitive.ObjectID) error {
	if err := n.rdb.Publish(ctx, membershipChannel(userID), userID.Hex()).Err(); err != nil {
		return fmt.Errorf("publish membership change: %w", err)
	}
	return nil
}

// Subscribe listens for changes of one user's membership. The returned
// channel receives a signal per change (coalesced when the reader lags) and
// is closed once the closer is closed.
func (n *MembershipNotifier) Subscribe(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, io.Closer, error) {
	pubsub := n.rdb.Subscribe(ctx, membershipChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe membership changes: %w", err)
	}

	messages := pubsub.Channel()
	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		for range messages {
			select {
			case changes <- struct{}{}:
			default:
				log.Tracef("membership change for %s coalesced", userID.Hex())
			}
		}
	}()
	return changes, pubsub, nil
}
