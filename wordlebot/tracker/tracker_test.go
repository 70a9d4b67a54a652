package tracker

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/memory"
	"github.com/wordlestats/wordlebot/wordlebot/storage/mock"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

var now = time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

func newTracker(store storage.Store) *Tracker {
	t := New(store, nil)
	t.now = func() time.Time { return now }
	return t
}

func TestRecord(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		prior bool
		want  Outcome
	}{
		{name: "plain chat", text: "anyone up for lunch?", want: NotResult},
		{name: "new result", text: "Wordle 500 3/6\n\n⬛🟨⬛⬛⬛\n🟩🟩⬛🟩⬛\n🟩🟩🟩🟩🟩", want: Recorded},
		{name: "duplicate", text: "Wordle 500 2/6\n\n🟩🟩⬛🟩⬛\n🟩🟩🟩🟩🟩", prior: true, want: Duplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(memory.New())
			ctx := context.Background()
			if tt.prior {
				_, _, err := tr.Record(ctx, "alice", "Wordle 500 4/6\n\n🟩🟩🟩🟩🟩", now.Add(-time.Hour))
				require.NoError(t, err)
			}

			got, result, err := tr.Record(ctx, "alice", tt.text, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.want == NotResult {
				assert.Nil(t, result)
			} else {
				assert.Equal(t, 500, result.Game)
				assert.True(t, result.Date.Equal(now))
			}
		})
	}
}

func TestAddAcceptsCompactText(t *testing.T) {
	tr := newTracker(memory.New())

	outcome, result, err := tr.Add(context.Background(), "bob", "Wordle 1,001 X/6 ⬛⬛⬛⬛⬛ ⬛⬛⬛⬛⬛")
	require.NoError(t, err)
	assert.Equal(t, Recorded, outcome)
	assert.Equal(t, 1001, result.Game)
	assert.True(t, result.Date.Equal(now))

	stats, err := tr.Stats(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Played)
	assert.Equal(t, 0, stats.Wins())
}

func TestWeeklyUsesClock(t *testing.T) {
	tr := newTracker(memory.New())
	ctx := context.Background()

	_, _, err := tr.Record(ctx, "carol", "Wordle 1 2/6\n\n🟩🟩🟩🟩🟩", now.AddDate(0, 0, -10))
	require.NoError(t, err)
	_, _, err = tr.Record(ctx, "carol", "Wordle 8 5/6\n\n🟩🟩🟩🟩🟩", now.AddDate(0, 0, -3))
	require.NoError(t, err)

	weekly, err := tr.Weekly(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, 8, weekly[0].Game)
}

func TestBackendErrorPropagates(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	store.EXPECT().
		LogResult(gomock.Any(), "alice", gomock.Any()).
		Return(false, storage.Wrap("log", assert.AnError))

	tr := newTracker(store)
	outcome, _, err := tr.Record(context.Background(), "alice", "Wordle 3 3/6\n\n🟩🟩🟩🟩🟩", now)
	assert.ErrorIs(t, err, storage.ErrBackend)
	assert.Equal(t, NotResult, outcome)
}

func TestConcurrentRecordsKeepEveryUpdate(t *testing.T) {
	store := memory.New()
	tr := newTracker(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 1; g <= 30; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := tr.Record(ctx, "dave", "Wordle "+strconv.Itoa(g)+" 4/6\n\n🟩🟩🟩🟩🟩", now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := tr.Stats(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, 30, stats.Played)
	assert.Zero(t, tr.locks.size())
}

func TestLeaderboard(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	seed := map[string][]int{
		"ann":  {3, 3},
		"ben":  {2, wordle.Failed},
		"cat":  {2, 2},
		"dora": {3, 3, 3},
	}
	for user, guesses := range seed {
		var results []*wordle.Result
		for i, g := range guesses {
			results = append(results, &wordle.Result{Game: i + 1, Guesses: g, Board: []string{"x"}, Date: now})
		}
		require.NoError(t, store.ReplaceUser(ctx, user, results))
	}
	require.NoError(t, store.ReplaceUser(ctx, "empty", nil))

	standings, err := newTracker(store).Leaderboard(ctx)
	require.NoError(t, err)

	var order []string
	for _, s := range standings {
		order = append(order, s.User)
	}
	assert.Equal(t, []string{"cat", "dora", "ann", "ben"}, order)
}

func TestFetchWithoutSource(t *testing.T) {
	_, err := newTracker(memory.New()).Fetch(context.Background(), snowflake.ID(1))
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestUserLockHonoursContext(t *testing.T) {
	l := newUserLock()
	unlock, err := l.Lock(context.Background(), "erin")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "erin")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Zero(t, l.size())
}
