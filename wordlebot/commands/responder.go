package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/wordlestats/wordlebot/wordlebot/tracker"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

// GenericError is shown whenever a command fails. The underlying error is
// only logged.
const GenericError = "An error occurred while processing your request. Please try again later."

// Responder builds the text replies shared by slash commands and chat
// commands. On failure it returns GenericError together with the error so
// callers can both reply and log.
type Responder struct {
	tracker *tracker.Tracker
}

func NewResponder(t *tracker.Tracker) *Responder {
	return &Responder{tracker: t}
}

func (r *Responder) Stats(ctx context.Context, userID, name string) (string, error) {
	stats, err := r.tracker.Stats(ctx, userID)
	if err != nil {
		return GenericError, fmt.Errorf("stats of %s: %w", userID, err)
	}
	return wordle.FormatStats(name, stats), nil
}

func (r *Responder) Result(ctx context.Context, game int, userID, name string) (string, error) {
	if game <= 0 {
		return "Game numbers start at 1.", nil
	}
	result, err := r.tracker.Result(ctx, game, userID)
	if err != nil {
		return GenericError, fmt.Errorf("result %d of %s: %w", game, userID, err)
	}
	return wordle.FormatResult(name, result), nil
}

func (r *Responder) Weekly(ctx context.Context, userID, name string) (string, error) {
	results, err := r.tracker.Weekly(ctx, userID)
	if err != nil {
		return GenericError, fmt.Errorf("weekly results of %s: %w", userID, err)
	}
	return wordle.FormatWeekly(name, results), nil
}

func (r *Responder) Add(ctx context.Context, userID, name, text string) (string, error) {
	outcome, result, err := r.tracker.Add(ctx, userID, text)
	if err != nil {
		return GenericError, fmt.Errorf("add result for %s: %w", userID, err)
	}

	switch outcome {
	case tracker.Recorded:
		return fmt.Sprintf("Recorded Wordle %d %s for %s.", result.Game, result.Score(), name), nil
	case tracker.Duplicate:
		return fmt.Sprintf("Wordle %d is already recorded for %s.", result.Game, name), nil
	default:
		return "That doesn't look like a Wordle result. Paste the shared text, e.g. `Wordle 1,234 3/6` followed by the board.", nil
	}
}

func (r *Responder) Fetch(ctx context.Context, channelID snowflake.ID) (string, error) {
	report, err := r.tracker.Fetch(ctx, channelID)
	switch {
	case errors.Is(err, tracker.ErrNoHistory):
		return "Fetching history is not available here.", nil
	case err != nil:
		return GenericError, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	return fmt.Sprintf("Fetched %d messages: rebuilt %d results for %d players.",
		report.Messages, report.Results, report.Users), nil
}

func (r *Responder) Leaderboard(ctx context.Context) ([]tracker.Standing, error) {
	standings, err := r.tracker.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return standings, nil
}

// FormatStanding renders one leaderboard line. rank is 1-based.
func FormatStanding(rank int, s tracker.Standing) string {
	return fmt.Sprintf("**%d.** <@%s> %.1f%% wins, %.2f avg, %d played, streak %d",
		rank, s.User, s.Stats.WinPercentage, s.Stats.AverageGuess, s.Stats.Played, s.Stats.CurrentStreak)
}

// FormatLeaderboardPage renders standings[page*size : page*size+size].
func FormatLeaderboardPage(standings []tracker.Standing, page, size int) string {
	if len(standings) == 0 {
		return "No Wordle results recorded yet."
	}
	start := page * size
	if start >= len(standings) {
		start = (len(standings) - 1) / size * size
	}
	end := min(start+size, len(standings))

	var sb strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString("\n")
		}
		sb.WriteString(FormatStanding(i+1, standings[i]))
	}
	return sb.String()
}

// PageCount returns how many pages of size n the standings need, at least 1.
func PageCount(total, n int) int {
	if total == 0 {
		return 1
	}
	return (total + n - 1) / n
}
