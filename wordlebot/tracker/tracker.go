// Package tracker is the service both bot surfaces talk to: it records
// results, answers queries and runs history rebuilds.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wordlestats/wordlebot/wordlebot/history"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type Outcome int

const (
	NotResult Outcome = iota
	Recorded
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Recorded:
		return "recorded"
	case Duplicate:
		return "duplicate"
	default:
		return "not_result"
	}
}

// ErrNoHistory is returned by Fetch when no message source is configured.
var ErrNoHistory = errors.New("message history is not available")

type Standing struct {
	User  string
	Stats *wordle.Stats
}

type Tracker struct {
	store  storage.Store
	source history.MessageSource
	locks  *userLock
	now    func() time.Time
}

// New returns a tracker over store. source may be nil, which disables Fetch.
func New(store storage.Store, source history.MessageSource) *Tracker {
	return &Tracker{
		store:  store,
		source: source,
		locks:  newUserLock(),
		now:    time.Now,
	}
}

// Record parses a chat message and logs it for user. Messages without a
// result yield NotResult and no error.
func (t *Tracker) Record(ctx context.Context, user, text string, at time.Time) (Outcome, *wordle.Result, error) {
	return t.log(ctx, user, wordle.Parse(text), at)
}

// Add logs a result typed into the /add command, which may come flattened
// onto one line.
func (t *Tracker) Add(ctx context.Context, user, text string) (Outcome, *wordle.Result, error) {
	return t.log(ctx, user, wordle.ParseCompact(text), t.now())
}

func (t *Tracker) log(ctx context.Context, user string, result *wordle.Result, at time.Time) (Outcome, *wordle.Result, error) {
	if result == nil {
		return NotResult, nil, nil
	}
	result.Date = at.UTC()

	unlock, err := t.locks.Lock(ctx, user)
	if err != nil {
		return NotResult, result, err
	}
	defer unlock()

	logged, err := t.store.LogResult(ctx, user, result)
	if err != nil {
		return NotResult, result, err
	}

	outcome := Duplicate
	if logged {
		outcome = Recorded
	}
	slog.Info("Result processed",
		slog.String("type", "db"),
		slog.String("user_id", user),
		slog.Int("game", result.Game),
		slog.String("score", result.Score()),
		slog.String("outcome", outcome.String()))
	return outcome, result, nil
}

func (t *Tracker) Stats(ctx context.Context, user string) (*wordle.Stats, error) {
	return t.store.GetUserStats(ctx, user)
}

func (t *Tracker) Result(ctx context.Context, game int, user string) (*wordle.Result, error) {
	return t.store.GetGameResult(ctx, game, user)
}

func (t *Tracker) Weekly(ctx context.Context, user string) ([]*wordle.Result, error) {
	return t.store.GetWeeklyResults(ctx, user, t.now())
}

// Fetch rebuilds every player found in the channel's history.
func (t *Tracker) Fetch(ctx context.Context, channelID snowflake.ID) (history.Report, error) {
	if t.source == nil {
		return history.Report{}, ErrNoHistory
	}
	return history.NewReplayer(t.source, t.store).WithLocker(t.locks).Replay(ctx, channelID)
}

// Leaderboard ranks players by win percentage, then average guesses, then
// games played.
func (t *Tracker) Leaderboard(ctx context.Context) ([]Standing, error) {
	users, err := t.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	standings := make([]Standing, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			stats, err := t.store.GetUserStats(gctx, user)
			if err != nil {
				return err
			}
			standings[i] = Standing{User: user, Stats: stats}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := standings[:0]
	for _, s := range standings {
		if s.Stats.Played > 0 {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Stats, ranked[j].Stats
		switch {
		case a.WinPercentage != b.WinPercentage:
			return a.WinPercentage > b.WinPercentage
		case a.AverageGuess != b.AverageGuess:
			return a.AverageGuess < b.AverageGuess
		case a.Played != b.Played:
			return a.Played > b.Played
		default:
			return ranked[i].User < ranked[j].User
		}
	})
	return ranked, nil
}
