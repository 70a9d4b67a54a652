package wordle

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	unsetDate  = "N/A"
	barWidth   = 20
)

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return unsetDate
	}
	return t.UTC().Format(dateLayout)
}

// FormatStats renders a player's stats block.
func FormatStats(name string, s *Stats) string {
	if s == nil {
		s = NewStats()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wordle stats for %s\n", name)
	fmt.Fprintf(&b, "Played: %d\n", s.Played)
	fmt.Fprintf(&b, "Win %%: %.1f\n", s.WinPercentage)
	fmt.Fprintf(&b, "Average guesses: %.2f\n", s.AverageGuess)
	fmt.Fprintf(&b, "Current streak: %d\n", s.CurrentStreak)
	fmt.Fprintf(&b, "Max streak: %d\n", s.MaxStreak)
	fmt.Fprintf(&b, "First played: %s\n", formatDate(s.FirstPlayed))
	fmt.Fprintf(&b, "Last played: %s\n", formatDate(s.LastPlayed))
	b.WriteString("Guess distribution:\n")

	most := 0
	for g := 1; g <= MaxGuesses; g++ {
		most = max(most, s.GuessDistribution[g])
	}
	for g := 1; g <= MaxGuesses; g++ {
		n := s.GuessDistribution[g]
		width := 0
		if most > 0 {
			width = n * barWidth / most
		}
		fmt.Fprintf(&b, "%d | %s %d\n", g, strings.Repeat("█", width), n)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatResult renders one game's result with its board.
func FormatResult(name string, r *Result) string {
	if r.IsEmpty() {
		return fmt.Sprintf("No result recorded for %s on Wordle %d.", name, r.Game)
	}
	return formatResultBlock(name, r)
}

func formatResultBlock(name string, r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Wordle %d %s by %s\n", r.Game, r.Score(), name)
	if !r.Date.IsZero() {
		fmt.Fprintf(&b, "Played %s\n", r.Date.UTC().Format(dateLayout))
	}
	for _, row := range DecodeBoard(r.Board) {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatWeekly renders the results of the trailing week, newest first as given.
func FormatWeekly(name string, results []*Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No Wordle results for %s in the last 7 days.", name)
	}

	blocks := make([]string, 0, len(results)+1)
	blocks = append(blocks, fmt.Sprintf("Wordle results for %s this week (%d):", name, len(results)))
	for _, r := range results {
		blocks = append(blocks, formatResultBlock(name, r))
	}
	return strings.Join(blocks, "\n\n")
}
