package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/storagetest"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New() })
}

func TestConcurrentLogResult(t *testing.T) {
	s := New()
	ctx := context.Background()
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(game int) {
			defer wg.Done()
			_, err := s.LogResult(ctx, "alice", &wordle.Result{Game: game, Guesses: 2, Board: []string{"x"}, Date: day.AddDate(0, 0, game)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stats, err := s.GetUserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Played)
	assert.Equal(t, 50, stats.GuessDistribution[2])
}

func TestReset(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.LogResult(ctx, fmt.Sprintf("user%d", i), &wordle.Result{Game: 1, Guesses: 1, Board: []string{"x"}})
		require.NoError(t, err)
	}

	s.Reset()

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
