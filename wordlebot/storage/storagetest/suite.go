// Package storagetest holds the behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func result(game, guesses int, at time.Time) *wordle.Result {
	return &wordle.Result{
		Game:    game,
		Guesses: guesses,
		Board:   []string{"⬛🟨⬛⬛⬛", "🟩🟩🟩🟩🟩"},
		Date:    at,
	}
}

// Run exercises store against the shared contract.
func Run(t *testing.T, factory Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"UnknownUserHasZeroStats", testUnknownUser},
		{"UnknownGameIsEmpty", testUnknownGame},
		{"LogResultUpdatesStats", testLogResult},
		{"DuplicateResultIsIgnored", testDuplicate},
		{"FailureResetsStreak", testFailure},
		{"WeeklyWindow", testWeekly},
		{"ResultRoundTrip", testRoundTrip},
		{"ReplaceUser", testReplaceUser},
		{"UsersAndResults", testEnumerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := factory(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func testUnknownUser(t *testing.T, s storage.Store) {
	stats, err := s.GetUserStats(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Played)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Nil(t, stats.FirstPlayed)
	assert.Nil(t, stats.LastPlayed)
	assert.Equal(t, wordle.NewStats().GuessDistribution, stats.GuessDistribution)
}

func testUnknownGame(t *testing.T, s storage.Store) {
	got, err := s.GetGameResult(context.Background(), 404, "nobody")
	require.NoError(t, err)

	assert.True(t, got.IsEmpty())
	assert.Equal(t, 404, got.Game)
	assert.Empty(t, got.Board)
}

func testLogResult(t *testing.T, s storage.Store) {
	ctx := context.Background()

	logged, err := s.LogResult(ctx, "alice", result(100, 3, now))
	require.NoError(t, err)
	assert.True(t, logged)

	stats, err := s.GetUserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Played)
	assert.Equal(t, 1, stats.GuessDistribution[3])
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.MaxStreak)
	assert.InDelta(t, 3.0, stats.AverageGuess, 1e-9)
	assert.InDelta(t, 100.0, stats.WinPercentage, 1e-9)
	require.NotNil(t, stats.FirstPlayed)
	assert.True(t, stats.FirstPlayed.Equal(now))
}

func testDuplicate(t *testing.T, s storage.Store) {
	ctx := context.Background()

	logged, err := s.LogResult(ctx, "alice", result(100, 3, now))
	require.NoError(t, err)
	require.True(t, logged)

	logged, err = s.LogResult(ctx, "alice", result(100, 1, now.Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, logged)

	stats, err := s.GetUserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Played)
	assert.Equal(t, 0, stats.GuessDistribution[1])

	got, err := s.GetGameResult(ctx, 100, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Guesses)
}

func testFailure(t *testing.T, s storage.Store) {
	ctx := context.Background()

	for i, g := range []int{2, 4, wordle.Failed} {
		_, err := s.LogResult(ctx, "bob", result(200+i, g, now.AddDate(0, 0, i-3)))
		require.NoError(t, err)
	}

	stats, err := s.GetUserStats(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Played)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 2, stats.MaxStreak)
	assert.Equal(t, 2, stats.Wins())
}

func testWeekly(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.LogResult(ctx, "carol", result(300, 4, now.AddDate(0, 0, -8)))
	require.NoError(t, err)
	_, err = s.LogResult(ctx, "carol", result(302, 5, now.AddDate(0, 0, -6)))
	require.NoError(t, err)
	_, err = s.LogResult(ctx, "carol", result(307, 2, now.AddDate(0, 0, -1)))
	require.NoError(t, err)

	weekly, err := s.GetWeeklyResults(ctx, "carol", now)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, 307, weekly[0].Game)
	assert.Equal(t, 302, weekly[1].Game)

	none, err := s.GetWeeklyResults(ctx, "nobody", now)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()

	want := result(1234, 5, now)
	want.HardMode = true
	want.Board = []string{"⬛🟨⬛⬛⬛", "⬛🟩🟩⬛🟨", "🟩🟩🟩🟩🟩"}

	_, err := s.LogResult(ctx, "dan", want)
	require.NoError(t, err)

	got, err := s.GetGameResult(ctx, 1234, "dan")
	require.NoError(t, err)
	assert.Equal(t, want.Game, got.Game)
	assert.Equal(t, want.Guesses, got.Guesses)
	assert.Equal(t, want.Board, got.Board)
	assert.True(t, got.HardMode)
	assert.True(t, want.Date.Equal(got.Date), "date %s != %s", got.Date, want.Date)
}

func testReplaceUser(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.LogResult(ctx, "erin", result(1, 1, now.AddDate(0, 0, -30)))
	require.NoError(t, err)

	replacement := []*wordle.Result{
		result(12, wordle.Failed, now.AddDate(0, 0, -1)),
		result(10, 3, now.AddDate(0, 0, -3)),
		result(11, 4, now.AddDate(0, 0, -2)),
	}
	require.NoError(t, s.ReplaceUser(ctx, "erin", replacement))

	stats, err := s.GetUserStats(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Played)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 2, stats.MaxStreak)
	assert.True(t, stats.FirstPlayed.Equal(now.AddDate(0, 0, -3)))

	gone, err := s.GetGameResult(ctx, 1, "erin")
	require.NoError(t, err)
	assert.True(t, gone.IsEmpty())

	results, err := s.Results(ctx, "erin")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []int{10, 11, 12}, []int{results[0].Game, results[1].Game, results[2].Game})

	logged, err := s.LogResult(ctx, "erin", result(11, 1, now))
	require.NoError(t, err)
	assert.False(t, logged)
}

func testEnumerate(t *testing.T, s storage.Store) {
	ctx := context.Background()

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = s.LogResult(ctx, "frank", result(1, 2, now))
	require.NoError(t, err)
	_, err = s.LogResult(ctx, "grace", result(1, 3, now))
	require.NoError(t, err)
	_, err = s.LogResult(ctx, "grace", result(2, 3, now))
	require.NoError(t, err)

	users, err = s.Users(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"frank", "grace"}, users)

	results, err := s.Results(ctx, "grace")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	none, err := s.Results(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
