package storage

import (
	"sort"
	"time"

	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

// Record is the per-user document kept by the document-shaped backends.
type Record struct {
	Stats *wordle.Stats          `json:"stats"`
	Games map[int]*wordle.Result `json:"games"`
}

func NewRecord() *Record {
	return &Record{Stats: wordle.NewStats(), Games: make(map[int]*wordle.Result)}
}

// Normalize fills fields left nil by decoding.
func (r *Record) Normalize() *Record {
	if r.Stats == nil {
		r.Stats = wordle.NewStats()
	}
	if r.Stats.GuessDistribution == nil {
		r.Stats.GuessDistribution = wordle.NewStats().GuessDistribution
	}
	if r.Games == nil {
		r.Games = make(map[int]*wordle.Result)
	}
	return r
}

func (r *Record) Clone() *Record {
	c := &Record{Stats: r.Stats.Clone(), Games: make(map[int]*wordle.Result, len(r.Games))}
	for game, res := range r.Games {
		c.Games[game] = res.Clone()
	}
	return c
}

// Log adds result unless the game is already recorded.
func (r *Record) Log(result *wordle.Result) bool {
	if _, ok := r.Games[result.Game]; ok {
		return false
	}
	r.Games[result.Game] = result.Clone()
	r.Stats = wordle.Update(r.Stats, result)
	return true
}

func (r *Record) Result(game int) *wordle.Result {
	if res, ok := r.Games[game]; ok {
		return res.Clone()
	}
	return wordle.EmptyResult(game)
}

func (r *Record) Weekly(now time.Time) []*wordle.Result {
	return Weekly(r.All(), now)
}

// All returns copies of every result ordered by game.
func (r *Record) All() []*wordle.Result {
	out := make([]*wordle.Result, 0, len(r.Games))
	for _, res := range r.Games {
		out = append(out, res.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Game < out[j].Game })
	return out
}

func (r *Record) Replace(results []*wordle.Result) {
	results = Dedupe(results)
	r.Games = make(map[int]*wordle.Result, len(results))
	for _, res := range results {
		r.Games[res.Game] = res.Clone()
	}
	r.Stats = wordle.Replay(results)
}

// Weekly filters results to the week ending at now, most recent first.
func Weekly(results []*wordle.Result, now time.Time) []*wordle.Result {
	out := make([]*wordle.Result, 0, len(results))
	for _, res := range results {
		if wordle.InWeek(res.Date, now) {
			out = append(out, res)
		}
	}
	wordle.SortRecentFirst(out)
	return out
}

// Dedupe keeps the earliest dated result of every game, ordered by game.
func Dedupe(results []*wordle.Result) []*wordle.Result {
	byGame := make(map[int]*wordle.Result, len(results))
	for _, res := range results {
		if res.IsEmpty() {
			continue
		}
		if cur, ok := byGame[res.Game]; !ok || res.Date.Before(cur.Date) {
			byGame[res.Game] = res
		}
	}

	out := make([]*wordle.Result, 0, len(byGame))
	for _, res := range byGame {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Game < out[j].Game })
	return out
}
