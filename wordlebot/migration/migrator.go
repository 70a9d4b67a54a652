// Package migration copies every player from one storage backend to another.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
)

const defaultWorkers = 4

type MigrationStats struct {
	StartTime time.Time
	Duration  time.Duration
	Users     int
	Migrated  int32
	Results   int32
	Errors    int32
}

// Migrator replays each user's results from one store into another. Stats
// on the target are recomputed from the results, never copied.
type Migrator struct {
	from    storage.Store
	to      storage.Store
	sem     *semaphore.Weighted
	dryRun  bool
	workers int64
}

type Option func(*Migrator)

func WithWorkers(n int) Option {
	return func(m *Migrator) {
		if n > 0 {
			m.workers = int64(n)
		}
	}
}

// WithDryRun reads everything from the source without writing the target.
func WithDryRun(dryRun bool) Option {
	return func(m *Migrator) {
		m.dryRun = dryRun
	}
}

func NewMigrator(from, to storage.Store, opts ...Option) *Migrator {
	m := &Migrator{from: from, to: to, workers: defaultWorkers}
	for _, opt := range opts {
		opt(m)
	}
	m.sem = semaphore.NewWeighted(m.workers)
	return m
}

// MigrateAll copies every user. A failing user does not stop the others; all
// failures are returned joined.
func (m *Migrator) MigrateAll(ctx context.Context) (*MigrationStats, error) {
	stats := &MigrationStats{StartTime: time.Now()}

	users, err := m.from.Users(ctx)
	if err != nil {
		return stats, fmt.Errorf("list source users: %w", err)
	}
	stats.Users = len(users)
	logProgress("Starting migration", slog.Int("users", len(users)), slog.Bool("dry_run", m.dryRun))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, user := range users {
		user := user
		if err := m.sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer m.sem.Release(1)

			n, err := m.migrateUser(ctx, user)
			if err != nil {
				atomic.AddInt32(&stats.Errors, 1)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			atomic.AddInt32(&stats.Migrated, 1)
			atomic.AddInt32(&stats.Results, int32(n))
		}()
	}
	wg.Wait()

	stats.Duration = time.Since(stats.StartTime)
	logProgress("Migration finished",
		slog.Int("users", stats.Users),
		slog.Int("migrated", int(stats.Migrated)),
		slog.Int("results", int(stats.Results)),
		slog.Int("errors", int(stats.Errors)),
		slog.Duration("took", stats.Duration))
	return stats, errors.Join(errs...)
}

func (m *Migrator) migrateUser(ctx context.Context, user string) (int, error) {
	results, err := m.from.Results(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("read results of %s: %w", user, err)
	}
	if m.dryRun {
		return len(results), nil
	}
	if err := m.to.ReplaceUser(ctx, user, results); err != nil {
		return 0, fmt.Errorf("write results of %s: %w", user, err)
	}
	return len(results), nil
}

func logProgress(message string, attrs ...any) {
	slog.Info(message, append([]any{slog.String("type", "sys"), slog.String("service", "Wordle Migration")}, attrs...)...)
}
