// Package history rebuilds stored results from a channel's message history.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

// MessageSource pages channel messages, newest first. rest.Rest satisfies it.
type MessageSource interface {
	GetMessages(channelID snowflake.ID, around snowflake.ID, before snowflake.ID, after snowflake.ID, limit int, opts ...rest.RequestOpt) ([]discord.Message, error)
}

type Report struct {
	Messages int
	Results  int
	Users    int
	Duration time.Duration
}

// Locker serialises writes to one player's results.
type Locker interface {
	Lock(ctx context.Context, user string) (func(), error)
}

type Replayer struct {
	source   MessageSource
	store    storage.Store
	locker   Locker
	pageSize int
	workers  int
}

func NewReplayer(source MessageSource, store storage.Store) *Replayer {
	return &Replayer{
		source:   source,
		store:    store,
		pageSize: config.HistoryPageSize,
		workers:  config.HistoryWriteWorkers,
	}
}

// WithLocker makes Replay hold l for each player while rewriting them, so a
// result recorded live at the same time is not lost.
func (r *Replayer) WithLocker(l Locker) *Replayer {
	r.locker = l
	return r
}

// Scan pages through the whole channel and returns every player's results.
// When a player posted the same game twice the earliest post wins, matching
// what live recording would have kept.
func (r *Replayer) Scan(ctx context.Context, channelID snowflake.ID) (map[string][]*wordle.Result, int, error) {
	byUser := make(map[string]map[int]*wordle.Result)
	messages := 0

	var before snowflake.ID
	for {
		if err := ctx.Err(); err != nil {
			return nil, messages, err
		}

		page, err := r.source.GetMessages(channelID, 0, before, 0, r.pageSize, rest.WithCtx(ctx))
		if err != nil {
			return nil, messages, fmt.Errorf("fetch messages before %s: %w", before, err)
		}
		if len(page) == 0 {
			break
		}

		for _, msg := range page {
			messages++
			if msg.Author.Bot {
				continue
			}
			result := wordle.Parse(msg.Content)
			if result == nil {
				continue
			}
			result.Date = msg.CreatedAt.UTC()

			user := msg.Author.ID.String()
			games, ok := byUser[user]
			if !ok {
				games = make(map[int]*wordle.Result)
				byUser[user] = games
			}
			if cur, ok := games[result.Game]; !ok || result.Date.Before(cur.Date) {
				games[result.Game] = result
			}
		}

		before = page[len(page)-1].ID
		if len(page) < r.pageSize {
			break
		}
	}

	out := make(map[string][]*wordle.Result, len(byUser))
	for user, games := range byUser {
		list := make([]*wordle.Result, 0, len(games))
		for _, res := range games {
			list = append(list, res)
		}
		out[user] = list
	}
	return out, messages, nil
}

// Replay scans the channel and overwrites every player found in it. Players
// with no result in the channel are left untouched.
func (r *Replayer) Replay(ctx context.Context, channelID snowflake.ID) (Report, error) {
	start := time.Now()

	byUser, messages, err := r.Scan(ctx, channelID)
	report := Report{Messages: messages}
	if err != nil {
		report.Duration = time.Since(start)
		return report, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for user, results := range byUser {
		user, results := user, results
		report.Users++
		report.Results += len(results)
		g.Go(func() error {
			if err := r.rebuild(gctx, user, results, start); err != nil {
				return fmt.Errorf("replace results of %s: %w", user, err)
			}
			return nil
		})
	}
	err = g.Wait()
	report.Duration = time.Since(start)

	slog.Info("History replayed",
		slog.String("type", "sys"),
		slog.String("channel_id", channelID.String()),
		slog.Int("messages", report.Messages),
		slog.Int("results", report.Results),
		slog.Int("users", report.Users),
		slog.Duration("took", report.Duration))
	return report, err
}

// rebuild replaces user's results with scanned, keeping stored results for
// other games dated at or after since. Those were recorded while the scan
// ran and may be missing from the pages it read.
func (r *Replayer) rebuild(ctx context.Context, user string, scanned []*wordle.Result, since time.Time) error {
	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, user)
		if err != nil {
			return err
		}
		defer unlock()
	}

	current, err := r.store.Results(ctx, user)
	if err != nil {
		return err
	}

	seen := make(map[int]bool, len(scanned))
	for _, res := range scanned {
		seen[res.Game] = true
	}
	results := append([]*wordle.Result{}, scanned...)
	for _, res := range current {
		if !seen[res.Game] && !res.Date.Before(since) {
			results = append(results, res)
		}
	}
	return r.store.ReplaceUser(ctx, user, results)
}
