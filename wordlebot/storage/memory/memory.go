// Package memory keeps records in process memory. It backs the "history"
// backend, whose state is rebuilt from channel history at startup.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]*storage.Record
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{records: make(map[string]*storage.Record)}
}

func (s *Store) GetUserStats(_ context.Context, user string) (*wordle.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[user]; ok {
		return rec.Stats.Clone(), nil
	}
	return wordle.NewStats(), nil
}

func (s *Store) GetGameResult(_ context.Context, game int, user string) (*wordle.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[user]; ok {
		return rec.Result(game), nil
	}
	return wordle.EmptyResult(game), nil
}

func (s *Store) GetWeeklyResults(_ context.Context, user string, now time.Time) ([]*wordle.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[user]; ok {
		return rec.Weekly(now), nil
	}
	return []*wordle.Result{}, nil
}

func (s *Store) LogResult(_ context.Context, user string, result *wordle.Result) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[user]
	if !ok {
		rec = storage.NewRecord()
		s.records[user] = rec
	}
	return rec.Log(result), nil
}

func (s *Store) ReplaceUser(_ context.Context, user string, results []*wordle.Result) error {
	rec := storage.NewRecord()
	rec.Replace(results)

	s.mu.Lock()
	s.records[user] = rec
	s.mu.Unlock()
	return nil
}

func (s *Store) Users(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.records))
	for user := range s.records {
		users = append(users, user)
	}
	sort.Strings(users)
	return users, nil
}

func (s *Store) Results(_ context.Context, user string) ([]*wordle.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[user]; ok {
		return rec.All(), nil
	}
	return []*wordle.Result{}, nil
}

// Reset drops every record.
func (s *Store) Reset() {
	s.mu.Lock()
	s.records = make(map[string]*storage.Record)
	s.mu.Unlock()
}

func (s *Store) Close() error { return nil }
