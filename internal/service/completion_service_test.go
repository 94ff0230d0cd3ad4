package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// a Wednesday
var wednesdayMorning = time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)

func newCompletionFixture() (CompletionService, *fakeCompletionRepo, *domain.FixedClock, *metrics.Manager) {
	repo := &fakeCompletionRepo{}
	clock := &domain.FixedClock{At: wednesdayMorning}
	m := metrics.NewTestManager()
	return NewCompletionService(repo, clock, m), repo, clock, m
}

func TestCompletionService_MarkComplete(t *testing.T) {
	svc, repo, _, m := newCompletionFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	c, err := svc.MarkComplete(ctx, userID, "Push Day", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Date("2025-03-12"), c.CompletionDate)
	assert.Equal(t, "Push Day", c.WorkoutName)
	assert.False(t, c.ID.IsZero())

	_, err = svc.MarkComplete(ctx, userID, "Push Day", "Push Day")
	assert.ErrorIs(t, err, ErrDuplicateCompletion)
	assert.Len(t, repo.completions, 1)

	// a different slot on the same day is fine
	_, err = svc.MarkComplete(ctx, userID, "Pull Day", "")
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterCompletionsMarked))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterCompletionsDuplicate))
}

func TestCompletionService_MarkComplete_Weekdays(t *testing.T) {
	svc, _, _, _ := newCompletionFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := svc.MarkComplete(ctx, userID, "wednesday", "Legs")
	require.NoError(t, err)

	_, err = svc.MarkComplete(ctx, userID, "Monday", "Chest")
	assert.ErrorIs(t, err, ErrNotScheduledToday)

	_, err = svc.MarkComplete(ctx, userID, "   ", "")
	assert.ErrorIs(t, err, ErrWorkoutDayRequired)
}

func TestCompletionService_MarkComplete_Concurrent(t *testing.T) {
	svc, repo, _, _ := newCompletionFixture()
	userID := primitive.NewObjectID()

	var wg sync.WaitGroup
	var succeeded, duplicates int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.MarkComplete(context.Background(), userID, "Push Day", "")
			if err == nil {
				atomic.AddInt32(&succeeded, 1)
			} else if assert.ErrorIs(t, err, ErrDuplicateCompletion) {
				atomic.AddInt32(&duplicates, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
	assert.Equal(t, int32(9), duplicates)
	assert.Len(t, repo.completions, 1)
}

func TestCompletionService_UnmarkToday(t *testing.T) {
	svc, repo, clock, _ := newCompletionFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := svc.MarkComplete(ctx, userID, "Push Day", "")
	require.NoError(t, err)

	// yesterday's completion cannot be removed once the day rolled over
	clock.Advance(24 * time.Hour)
	err = svc.UnmarkToday(ctx, userID, "Push Day")
	assert.ErrorIs(t, err, ErrCompletionNotFound)
	assert.Len(t, repo.completions, 1)

	_, err = svc.MarkComplete(ctx, userID, "Push Day", "")
	require.NoError(t, err)
	require.NoError(t, svc.UnmarkToday(ctx, userID, "Push Day"))

	done, err := svc.IsCompletedToday(ctx, userID, "Push Day")
	require.NoError(t, err)
	assert.False(t, done)
	assert.Len(t, repo.completions, 1)
}

func TestCompletionService_StreakAndSummary(t *testing.T) {
	svc, _, clock, _ := newCompletionFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		_, err := svc.MarkComplete(ctx, userID, "Full Body", "")
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}
	// completed on the 12th, 13th and 14th; today is the 15th
	streak, err := svc.Streak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	_, err = svc.MarkComplete(ctx, userID, "Full Body", "")
	require.NoError(t, err)
	_, err = svc.MarkComplete(ctx, userID, "Cardio", "")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.Date("2025-03-15"), summary.Today)
	assert.Equal(t, 4, summary.Streak)
	assert.ElementsMatch(t, []domain.WorkoutDay{"Full Body", "Cardio"}, summary.CompletedToday)
	assert.Equal(t, 5, summary.TotalCompletions)

	// a missed day breaks it
	clock.Advance(48 * time.Hour)
	streak, err = svc.Streak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestCompletionService_StoreFailure(t *testing.T) {
	svc, repo, _, _ := newCompletionFixture()
	repo.failWith = errStoreDown

	_, err := svc.MarkComplete(context.Background(), primitive.NewObjectID(), "Push Day", "")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.Streak(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
