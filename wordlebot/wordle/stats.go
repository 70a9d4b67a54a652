package wordle

import (
	"sort"
	"time"
)

// Stats is the running aggregate of a player's results.
//
// WinPercentage is kept on a 0..100 scale. Failed games count towards Played
// and AverageGuess (as Failed guesses) but not towards GuessDistribution, so
// Played == sum(GuessDistribution) + failures.
type Stats struct {
	WinPercentage     float64     `json:"winPercentage"`
	AverageGuess      float64     `json:"averageGuess"`
	CurrentStreak     int         `json:"currentStreak"`
	MaxStreak         int         `json:"maxStreak"`
	FirstPlayed       *time.Time  `json:"firstPlayed"`
	LastPlayed        *time.Time  `json:"lastPlayed"`
	Played            int         `json:"played"`
	GuessDistribution map[int]int `json:"guessDistribution"`
}

// NewStats returns the zero state served for players with no results.
func NewStats() *Stats {
	return &Stats{GuessDistribution: newDistribution()}
}

func newDistribution() map[int]int {
	d := make(map[int]int, MaxGuesses)
	for g := 1; g <= MaxGuesses; g++ {
		d[g] = 0
	}
	return d
}

func (s *Stats) Clone() *Stats {
	if s == nil {
		return NewStats()
	}
	c := *s
	c.GuessDistribution = newDistribution()
	for g, n := range s.GuessDistribution {
		c.GuessDistribution[g] = n
	}
	if s.FirstPlayed != nil {
		t := *s.FirstPlayed
		c.FirstPlayed = &t
	}
	if s.LastPlayed != nil {
		t := *s.LastPlayed
		c.LastPlayed = &t
	}
	return &c
}

// Wins is the number of won games, i.e. the sum of the distribution.
func (s *Stats) Wins() int {
	var n int
	for _, c := range s.GuessDistribution {
		n += c
	}
	return n
}

// Update folds one result into stats and returns the new aggregate. The input
// is not modified. Update does not detect duplicates; stores do.
func Update(stats *Stats, result *Result) *Stats {
	next := stats.Clone()

	next.Played++
	n := float64(next.Played)

	if result.Won() {
		next.GuessDistribution[result.Guesses]++
		next.WinPercentage = runningAverage(next.WinPercentage, 100, n)
		next.CurrentStreak++
		if next.CurrentStreak > next.MaxStreak {
			next.MaxStreak = next.CurrentStreak
		}
	} else {
		next.WinPercentage = runningAverage(next.WinPercentage, 0, n)
		next.CurrentStreak = 0
	}

	next.AverageGuess = runningAverage(next.AverageGuess, float64(result.Guesses), n)

	played := result.Date
	next.LastPlayed = &played
	if next.FirstPlayed == nil {
		first := result.Date
		next.FirstPlayed = &first
	}

	return next
}

func runningAverage(avg, value, n float64) float64 {
	return (avg*(n-1) + value) / n
}

// Replay rebuilds stats from scratch, folding results in game order.
func Replay(results []*Result) *Stats {
	ordered := SortByGame(results)

	stats := NewStats()
	for _, r := range ordered {
		stats = Update(stats, r)
	}
	return stats
}

// SortByGame returns a copy of results ordered by game number, then date.
func SortByGame(results []*Result) []*Result {
	ordered := append([]*Result{}, results...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Game != ordered[j].Game {
			return ordered[i].Game < ordered[j].Game
		}
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}

// SortRecentFirst orders results by date, newest first.
func SortRecentFirst(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].Date.Equal(results[j].Date) {
			return results[i].Date.After(results[j].Date)
		}
		return results[i].Game > results[j].Game
	})
}

// WeekWindow is the trailing period served by weekly queries.
const WeekWindow = 7 * 24 * time.Hour

// InWeek reports whether a result dated d falls in the week ending at now.
func InWeek(d, now time.Time) bool {
	return !d.Before(now.Add(-WeekWindow)) && !d.After(now)
}
