// Package file persists every record in a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

// Store keeps the whole document in memory and rewrites the file after
// every change.
type Store struct {
	path string

	mu      sync.RWMutex
	records map[string]*storage.Record
}

var _ storage.Store = (*Store)(nil)

// Open loads path, starting empty when it does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, records: make(map[string]*storage.Record)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("Stats file not found, starting empty",
			slog.String("type", "db"),
			slog.String("path", path))
		return s, nil
	case err != nil:
		return nil, storage.Wrap("read stats file", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("decode stats file %s: %w", path, err)
		}
	}
	for user, rec := range s.records {
		if rec == nil {
			delete(s.records, user)
			continue
		}
		rec.Normalize()
	}
	return s, nil
}

// flush writes the document to a temp file and renames it over path.
// Callers hold the write lock.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storage.Wrap("create stats dir", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return storage.Wrap("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storage.Wrap("write stats file", err)
	}
	if err := tmp.Close(); err != nil {
		return storage.Wrap("write stats file", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return storage.Wrap("replace stats file", err)
	}
	return nil
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

	rec := storage.NewRecord()
	if cur, ok := s.records[user]; ok {
		rec = cur.Clone()
	}
	if !rec.Log(result) {
		return false, nil
	}
	if err := s.commit(user, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ReplaceUser(_ context.Context, user string, results []*wordle.Result) error {
	rec := storage.NewRecord()
	rec.Replace(results)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(user, rec)
}

// commit stores rec for user and flushes, putting the previous record back
// when the file cannot be written. Callers hold the write lock.
func (s *Store) commit(user string, rec *storage.Record) error {
	prev, had := s.records[user]
	s.records[user] = rec
	if err := s.flush(); err != nil {
		if had {
			s.records[user] = prev
		} else {
			delete(s.records, user)
		}
		return err
	}
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

func (s *Store) Close() error { return nil }
