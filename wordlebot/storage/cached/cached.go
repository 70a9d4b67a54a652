// Package cached puts an LRU cache of player stats in front of a store.
package cached

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type cachedStats struct {
	stats     *wordle.Stats
	timestamp time.Time
}

// Store serves GetUserStats from the cache and drops a player's entry on
// every write that touches them. All other calls go to the inner store.
type Store struct {
	storage.Store
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time

	// generations counts writes per user. A read only fills the cache when
	// no write finished while it was loading.
	mu          sync.Mutex
	generations map[string]uint64
}

func New(inner storage.Store, size int, ttl time.Duration) (*Store, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Store{
		Store:       inner,
		cache:       cache,
		ttl:         ttl,
		now:         time.Now,
		generations: make(map[string]uint64),
	}, nil
}

func (s *Store) GetUserStats(ctx context.Context, user string) (*wordle.Stats, error) {
	if v, ok := s.cache.Get(user); ok {
		entry := v.(cachedStats)
		if s.ttl <= 0 || s.now().Sub(entry.timestamp) < s.ttl {
			return entry.stats.Clone(), nil
		}
		s.cache.Remove(user)
	}

	s.mu.Lock()
	gen := s.generations[user]
	s.mu.Unlock()

	stats, err := s.Store.GetUserStats(ctx, user)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generations[user] == gen {
		s.cache.Add(user, cachedStats{stats: stats.Clone(), timestamp: s.now()})
	}
	s.mu.Unlock()
	return stats, nil
}

func (s *Store) LogResult(ctx context.Context, user string, result *wordle.Result) (bool, error) {
	logged, err := s.Store.LogResult(ctx, user, result)
	if logged || err != nil {
		s.invalidate(user)
	}
	return logged, err
}

func (s *Store) ReplaceUser(ctx context.Context, user string, results []*wordle.Result) error {
	defer s.invalidate(user)
	return s.Store.ReplaceUser(ctx, user, results)
}

func (s *Store) invalidate(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[user]++
	s.cache.Remove(user)
}
