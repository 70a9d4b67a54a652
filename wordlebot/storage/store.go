// Package storage defines the persistence contract shared by every backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

// ErrBackend marks failures of the underlying database or service.
var ErrBackend = errors.New("storage backend failure")

// Store persists Wordle results and the stats derived from them.
//
// Unknown users read as zero-state stats and unknown games as an empty
// result; neither is an error.
type Store interface {
	GetUserStats(ctx context.Context, user string) (*wordle.Stats, error)
	GetGameResult(ctx context.Context, game int, user string) (*wordle.Result, error)
	// GetWeeklyResults returns results dated within the week ending at now,
	// most recent first.
	GetWeeklyResults(ctx context.Context, user string, now time.Time) ([]*wordle.Result, error)
	// LogResult stores result and folds it into the user's stats. It reports
	// false, changing nothing, when the user already has a result for the game.
	LogResult(ctx context.Context, user string, result *wordle.Result) (bool, error)
	// ReplaceUser overwrites every result of user and recomputes their stats.
	ReplaceUser(ctx context.Context, user string, results []*wordle.Result) error
	Users(ctx context.Context) ([]string, error)
	// Results returns every result of user ordered by game.
	Results(ctx context.Context, user string) ([]*wordle.Result, error)
	Close() error
}

// Wrap tags err as a backend failure of op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}
