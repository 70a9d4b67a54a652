package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/storagetest"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := Open(filepath.Join(t.TempDir(), "stats.json"))
		require.NoError(t, err)
		return s
	})
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.json")
	ctx := context.Background()
	played := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	s, err := Open(path)
	require.NoError(t, err)
	logged, err := s.LogResult(ctx, "alice", &wordle.Result{Game: 9, Guesses: wordle.Failed, Board: []string{"⬛⬛⬛⬛⬛"}, Date: played})
	require.NoError(t, err)
	require.True(t, logged)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)

	stats, err := reopened.GetUserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Played)
	assert.Equal(t, 0, stats.Wins())
	assert.True(t, stats.LastPlayed.Equal(played))

	logged, err = reopened.LogResult(ctx, "alice", &wordle.Result{Game: 9, Guesses: 2, Board: []string{"x"}, Date: played})
	require.NoError(t, err)
	assert.False(t, logged)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	users, err := s.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestFailedWriteChangesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dir, "stats.json")
	ctx := context.Background()
	played := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	s, err := Open(path)
	require.NoError(t, err)

	// a regular file where the directory should be makes every flush fail
	require.NoError(t, os.WriteFile(dir, nil, 0o644))

	result := &wordle.Result{Game: 9, Guesses: 3, Board: []string{"🟩🟩🟩🟩🟩"}, Date: played}
	logged, err := s.LogResult(ctx, "alice", result)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrBackend)
	assert.False(t, logged)

	err = s.ReplaceUser(ctx, "bob", []*wordle.Result{result})
	require.Error(t, err)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	stats, err := s.GetUserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Played)

	require.NoError(t, os.Remove(dir))

	logged, err = s.LogResult(ctx, "alice", result)
	require.NoError(t, err)
	assert.True(t, logged)

	reopened, err := Open(path)
	require.NoError(t, err)
	stats, err = reopened.GetUserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Played)
}

func TestFailedWriteKeepsPreviousRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dir, "stats.json")
	ctx := context.Background()
	played := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	s, err := Open(path)
	require.NoError(t, err)
	logged, err := s.LogResult(ctx, "alice", &wordle.Result{Game: 9, Guesses: 3, Board: []string{"🟩🟩🟩🟩🟩"}, Date: played})
	require.NoError(t, err)
	require.True(t, logged)

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, nil, 0o644))

	_, err = s.LogResult(ctx, "alice", &wordle.Result{Game: 10, Guesses: 2, Board: []string{"🟩🟩🟩🟩🟩"}, Date: played.Add(24 * time.Hour)})
	require.Error(t, err)
	require.Error(t, s.ReplaceUser(ctx, "alice", nil))

	results, err := s.Results(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 9, results[0].Game)
}
