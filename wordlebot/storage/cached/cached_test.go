package cached

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/memory"
	"github.com/wordlestats/wordlebot/wordlebot/storage/mock"
	"github.com/wordlestats/wordlebot/wordlebot/storage/storagetest"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := New(memory.New(), 16, time.Minute)
		require.NoError(t, err)
		return s
	})
}

func TestGetUserStatsIsCached(t *testing.T) {
	inner := mock.NewMockStore(gomock.NewController(t))
	stats := wordle.NewStats()
	stats.Played = 4

	inner.EXPECT().GetUserStats(gomock.Any(), "alice").Return(stats, nil).Times(1)

	s, err := New(inner, 8, time.Minute)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := s.GetUserStats(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, 4, got.Played)
	}
}

func TestWritesInvalidate(t *testing.T) {
	inner := mock.NewMockStore(gomock.NewController(t))
	result := &wordle.Result{Game: 1, Guesses: 2}

	gomock.InOrder(
		inner.EXPECT().GetUserStats(gomock.Any(), "alice").Return(wordle.NewStats(), nil),
		inner.EXPECT().LogResult(gomock.Any(), "alice", result).Return(true, nil),
		inner.EXPECT().GetUserStats(gomock.Any(), "alice").Return(wordle.NewStats(), nil),
		inner.EXPECT().LogResult(gomock.Any(), "alice", result).Return(false, nil),
		inner.EXPECT().ReplaceUser(gomock.Any(), "alice", nil).Return(nil),
		inner.EXPECT().GetUserStats(gomock.Any(), "alice").Return(wordle.NewStats(), nil),
	)

	s, err := New(inner, 8, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = s.GetUserStats(ctx, "alice")
	_, _ = s.LogResult(ctx, "alice", result)
	_, _ = s.GetUserStats(ctx, "alice")
	// a duplicate leaves the cached entry in place
	_, _ = s.LogResult(ctx, "alice", result)
	_, _ = s.GetUserStats(ctx, "alice")
	require.NoError(t, s.ReplaceUser(ctx, "alice", nil))
	_, _ = s.GetUserStats(ctx, "alice")
}

func TestEntriesExpire(t *testing.T) {
	inner := mock.NewMockStore(gomock.NewController(t))
	inner.EXPECT().GetUserStats(gomock.Any(), "alice").Return(wordle.NewStats(), nil).Times(2)

	s, err := New(inner, 8, time.Minute)
	require.NoError(t, err)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	_, _ = s.GetUserStats(context.Background(), "alice")
	clock = clock.Add(30 * time.Second)
	_, _ = s.GetUserStats(context.Background(), "alice")
	clock = clock.Add(2 * time.Minute)
	_, _ = s.GetUserStats(context.Background(), "alice")
}

func TestCachedCopiesAreIsolated(t *testing.T) {
	s, err := New(memory.New(), 8, 0)
	require.NoError(t, err)

	first, err := s.GetUserStats(context.Background(), "alice")
	require.NoError(t, err)
	first.Played = 99

	second, err := s.GetUserStats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Played)
}

// slowStore parks the first GetUserStats call after it has read from the
// inner store, until release is closed.
type slowStore struct {
	storage.Store
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (s *slowStore) GetUserStats(ctx context.Context, user string) (*wordle.Stats, error) {
	stats, err := s.Store.GetUserStats(ctx, user)
	s.once.Do(func() {
		close(s.loaded)
		<-s.release
	})
	return stats, err
}

func TestReadOverlappingWriteIsNotCached(t *testing.T) {
	inner := &slowStore{Store: memory.New(), loaded: make(chan struct{}), release: make(chan struct{})}
	s, err := New(inner, 8, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	done := make(chan *wordle.Stats)
	go func() {
		stats, err := s.GetUserStats(ctx, "alice")
		assert.NoError(t, err)
		done <- stats
	}()

	<-inner.loaded
	logged, err := s.LogResult(ctx, "alice", &wordle.Result{Game: 1, Guesses: 3, Board: []string{"🟩🟩🟩🟩🟩"}, Date: time.Now()})
	require.NoError(t, err)
	require.True(t, logged)
	close(inner.release)

	stale := <-done
	assert.Equal(t, 0, stale.Played)

	got, err := s.GetUserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Played)
}
