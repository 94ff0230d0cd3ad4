package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-09 ")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-03-09"), d)

	for _, bad := range []string{"", "2024-3-9", "2024-02-30", "09/03/2024", "2024-03-09T10:00:00Z"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestDate_AddDays(t *testing.T) {
	assert.Equal(t, Date("2024-03-01"), Date("2024-02-29").AddDays(1))
	assert.Equal(t, Date("2023-12-31"), Date("2024-01-01").AddDays(-1))
	assert.Equal(t, Date("2024-01-01"), Date("2024-01-01").AddDays(0))
	assert.Equal(t, time.Saturday, Date("2024-03-09").Weekday())
}

func TestDateOf_UsesLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)

	instant := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, Date("2024-03-09"), DateOf(instant))
	assert.Equal(t, Date("2024-03-10"), DateOf(instant.In(kolkata)))
}

func TestWorkoutDay_ScheduledOn(t *testing.T) {
	saturday := Date("2024-03-09")

	wd, ok := WorkoutDay("saturday").Weekday()
	require.True(t, ok)
	assert.Equal(t, time.Saturday, wd)

	assert.True(t, WorkoutDay("Saturday").ScheduledOn(saturday))
	assert.False(t, WorkoutDay("Monday").ScheduledOn(saturday))
	assert.True(t, WorkoutDay("Push Day").ScheduledOn(saturday))
}

func TestComputeStreak(t *testing.T) {
	today := Date("2024-03-09")

	tests := []struct {
		name  string
		dates []Date
		want  int
	}{
		{"empty", nil, 0},
		{"only today", []Date{today}, 1},
		{"only yesterday", []Date{today.AddDays(-1)}, 1},
		{"two days ago", []Date{today.AddDays(-2)}, 0},
		{"gap truncates", []Date{today, today.AddDays(-1), today.AddDays(-3)}, 2},
		{"run ending yesterday", []Date{today.AddDays(-1), today.AddDays(-2), today.AddDays(-3)}, 3},
		{"stale long run", []Date{today.AddDays(-2), today.AddDays(-3), today.AddDays(-4), today.AddDays(-5)}, 0},
		{"duplicates collapse", []Date{today, today, today.AddDays(-1), today.AddDays(-1)}, 2},
		{"future only", []Date{today.AddDays(1)}, 0},
		{"month boundary", []Date{"2024-03-01", "2024-02-29", "2024-02-28"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStreak(tt.dates, today))
		})
	}

	assert.Equal(t, 3, ComputeStreak([]Date{"2024-03-01", "2024-02-29", "2024-02-28"}, "2024-03-01"))
}

func TestComputeStreak_ContiguousRuns(t *testing.T) {
	today := Date("2024-01-15")
	for n := 1; n <= 40; n++ {
		dates := make([]Date, 0, n)
		for i := 0; i < n; i++ {
			dates = append(dates, today.AddDays(-i))
		}
		assert.Equal(t, n, ComputeStreak(dates, today), "run of %d", n)
	}
}

func TestComputeStreak_OrderIndependent(t *testing.T) {
	today := Date("2024-03-09")
	dates := []Date{today, today.AddDays(-1), today.AddDays(-2), today.AddDays(-4), today.AddDays(-5), today.AddDays(-1)}
	want := ComputeStreak(dates, today)
	require.Equal(t, 3, want)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]Date(nil), dates...)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, ComputeStreak(shuffled, today))
	}
}

func TestCompletionDates(t *testing.T) {
	completions := []WorkoutCompletion{
		{WorkoutDay: "Monday", CompletionDate: "2024-03-04"},
		{WorkoutDay: "Legs", CompletionDate: "2024-03-04"},
	}
	assert.Equal(t, []Date{"2024-03-04", "2024-03-04"}, CompletionDates(completions))
}
