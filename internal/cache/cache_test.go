package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestMembershipCache_GetMissAndHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()
	c := NewMembershipCache(rdb, time.Minute)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	key := "membership:" + userID.Hex()

	mock.ExpectGet(key).RedisNil()
	m, found, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, m)

	expires := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	stored := &domain.Membership{UserID: userID, Status: domain.MembershipStatusActive, ExpiresAt: &expires, PaymentID: "pay_1"}
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectGet(key).SetVal(string(data))
	m, found, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, found)
	require.NotNil(t, m)
	assert.Equal(t, userID, m.UserID)
	assert.Equal(t, "pay_1", m.PaymentID)
	assert.True(t, expires.Equal(*m.ExpiresAt))

	mock.ExpectGet(key).SetVal("null")
	m, found, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, m)

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	_, _, err = c.Get(ctx, userID)
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipCache_SetAndInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()
	c := NewMembershipCache(rdb, 5*time.Minute)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	key := "membership:" + userID.Hex()
	record := &domain.Membership{UserID: userID, Status: domain.MembershipStatusActive}
	data, err := json.Marshal(record)
	require.NoError(t, err)

	mock.ExpectSet(key, string(data), 5*time.Minute).SetVal("OK")
	require.NoError(t, c.Set(ctx, userID, record))

	mock.ExpectSet(key, "null", 5*time.Minute).SetVal("OK")
	require.NoError(t, c.Set(ctx, userID, nil))

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, c.Invalidate(ctx, userID))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipNotifier_Publish(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()
	n := NewMembershipNotifier(rdb)

	userID := primitive.NewObjectID()
	mock.ExpectPublish("membership-events:"+userID.Hex(), userID.Hex()).SetVal(1)
	require.NoError(t, n.Publish(context.Background(), userID))

	mock.ExpectPublish("membership-events:"+userID.Hex(), userID.Hex()).SetErr(errors.New("down"))
	assert.Error(t, n.Publish(context.Background(), userID))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatPromptCounter(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()
	c := NewChatPromptCounter(rdb)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	day := domain.Date("2024-03-09")
	key := "chat_prompts:" + userID.Hex() + ":2024-03-09"

	mock.ExpectGet(key).RedisNil()
	used, err := c.Used(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, 0, used)

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, 48*time.Hour).SetVal(true)
	used, err = c.Increment(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, 1, used)

	mock.ExpectIncr(key).SetVal(2)
	used, err = c.Increment(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, 2, used)

	mock.ExpectGet(key).SetVal("2")
	used, err = c.Used(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, 2, used)

	mock.ExpectDecr(key).SetVal(1)
	require.NoError(t, c.Decrement(ctx, userID, day))

	require.NoError(t, mock.ExpectationsWereMet())
}
