package migration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/memory"
	"github.com/wordlestats/wordlebot/wordlebot/storage/mock"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

var day0 = time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

func seed(t *testing.T, store storage.Store, users int) {
	t.Helper()
	ctx := context.Background()
	for u := 0; u < users; u++ {
		for g := 1; g <= 3; g++ {
			_, err := store.LogResult(ctx, fmt.Sprintf("user-%d", u), &wordle.Result{
				Game:    g,
				Guesses: g + 1,
				Board:   []string{"🟩🟩🟩🟩🟩"},
				Date:    day0.AddDate(0, 0, g),
			})
			require.NoError(t, err)
		}
	}
}

func TestMigrateAll(t *testing.T) {
	from, to := memory.New(), memory.New()
	seed(t, from, 5)

	stats, err := NewMigrator(from, to, WithWorkers(2)).MigrateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Users)
	assert.Equal(t, int32(5), stats.Migrated)
	assert.Equal(t, int32(15), stats.Results)
	assert.Zero(t, stats.Errors)

	ctx := context.Background()
	for u := 0; u < 5; u++ {
		user := fmt.Sprintf("user-%d", u)
		want, err := from.GetUserStats(ctx, user)
		require.NoError(t, err)
		got, err := to.GetUserStats(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMigrateDryRun(t *testing.T) {
	from, to := memory.New(), memory.New()
	seed(t, from, 2)

	stats, err := NewMigrator(from, to, WithDryRun(true)).MigrateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(6), stats.Results)

	users, err := to.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMigrateContinuesPastFailures(t *testing.T) {
	from := memory.New()
	seed(t, from, 3)

	to := mock.NewMockStore(gomock.NewController(t))
	to.EXPECT().ReplaceUser(gomock.Any(), "user-1", gomock.Any()).Return(storage.Wrap("replace", assert.AnError))
	to.EXPECT().ReplaceUser(gomock.Any(), gomock.Any(), gomock.Len(3)).Return(nil).Times(2)

	stats, err := NewMigrator(from, to).MigrateAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrBackend)
	assert.Equal(t, int32(2), stats.Migrated)
	assert.Equal(t, int32(1), stats.Errors)
}
