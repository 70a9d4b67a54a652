package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type resultRow struct {
	bun.BaseModel `bun:"table:wordle_results,alias:wr"`

	UserID    string    `bun:"user_id,pk"`
	Game      int       `bun:"game,pk"`
	Guesses   int       `bun:"guesses,notnull"`
	Board     []string  `bun:"board,array"`
	HardMode  bool      `bun:"hard_mode,notnull,default:false"`
	PlayedAt  time.Time `bun:"played_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func newResultRow(user string, r *wordle.Result) *resultRow {
	return &resultRow{
		UserID:    user,
		Game:      r.Game,
		Guesses:   r.Guesses,
		Board:     append([]string{}, r.Board...),
		HardMode:  r.HardMode,
		PlayedAt:  r.Date,
		CreatedAt: time.Now(),
	}
}

func (row *resultRow) toResult() *wordle.Result {
	board := row.Board
	if board == nil {
		board = []string{}
	}
	return &wordle.Result{
		Game:     row.Game,
		Guesses:  row.Guesses,
		Board:    board,
		Date:     row.PlayedAt.UTC(),
		HardMode: row.HardMode,
	}
}

type statsRow struct {
	bun.BaseModel `bun:"table:wordle_stats,alias:ws"`

	UserID            string      `bun:"user_id,pk"`
	WinPercentage     float64     `bun:"win_percentage,notnull,default:0"`
	AverageGuess      float64     `bun:"average_guess,notnull,default:0"`
	CurrentStreak     int         `bun:"current_streak,notnull,default:0"`
	MaxStreak         int         `bun:"max_streak,notnull,default:0"`
	Played            int         `bun:"played,notnull,default:0"`
	GuessDistribution map[int]int `bun:"guess_distribution,type:jsonb"`
	FirstPlayed       *time.Time  `bun:"first_played"`
	LastPlayed        *time.Time  `bun:"last_played"`
	UpdatedAt         time.Time   `bun:"updated_at,notnull"`
}

func newStatsRow(user string, s *wordle.Stats) *statsRow {
	return &statsRow{
		UserID:            user,
		WinPercentage:     s.WinPercentage,
		AverageGuess:      s.AverageGuess,
		CurrentStreak:     s.CurrentStreak,
		MaxStreak:         s.MaxStreak,
		Played:            s.Played,
		GuessDistribution: s.GuessDistribution,
		FirstPlayed:       s.FirstPlayed,
		LastPlayed:        s.LastPlayed,
		UpdatedAt:         time.Now(),
	}
}

func (row *statsRow) toStats() *wordle.Stats {
	s := wordle.NewStats()
	s.WinPercentage = row.WinPercentage
	s.AverageGuess = row.AverageGuess
	s.CurrentStreak = row.CurrentStreak
	s.MaxStreak = row.MaxStreak
	s.Played = row.Played
	for g, n := range row.GuessDistribution {
		s.GuessDistribution[g] = n
	}
	s.FirstPlayed = utc(row.FirstPlayed)
	s.LastPlayed = utc(row.LastPlayed)
	return s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
