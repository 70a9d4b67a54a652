// Package postgres stores results and stats in two tables managed through bun.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/logger"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type Store struct {
	db      *DB
	timeout time.Duration
}

var _ storage.Store = (*Store)(nil)

// Open connects, creates the schema and returns a ready store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := New(ctx, cfg)
	if err != nil {
		return nil, storage.Wrap("connect postgres", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, storage.Wrap("ping postgres", err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, storage.Wrap("initialize schema", err)
	}
	return NewStore(db), nil
}

func NewStore(db *DB) *Store {
	return &Store{db: db, timeout: config.DefaultQueryTimeout}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) transaction(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.db.bunDB.RunInTx(ctx, nil, fn)
}

func loadStats(ctx context.Context, db bun.IDB, user string, forUpdate bool) (*wordle.Stats, error) {
	row := new(statsRow)
	q := db.NewSelect().Model(row).Where("user_id = ?", user)
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wordle.NewStats(), nil
		}
		return nil, err
	}
	return row.toStats(), nil
}

func saveStats(ctx context.Context, db bun.IDB, user string, stats *wordle.Stats) error {
	_, err := db.NewInsert().
		Model(newStatsRow(user, stats)).
		On("CONFLICT (user_id) DO UPDATE").
		Set("win_percentage = EXCLUDED.win_percentage").
		Set("average_guess = EXCLUDED.average_guess").
		Set("current_streak = EXCLUDED.current_streak").
		Set("max_streak = EXCLUDED.max_streak").
		Set("played = EXCLUDED.played").
		Set("guess_distribution = EXCLUDED.guess_distribution").
		Set("first_played = EXCLUDED.first_played").
		Set("last_played = EXCLUDED.last_played").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetUserStats(ctx context.Context, user string) (*wordle.Stats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	stats, err := loadStats(ctx, s.db.bunDB, user, false)
	logger.LogQuery("GetUserStats", time.Since(start), err, slog.String("user_id", user))
	if err != nil {
		return nil, handleError("get", "wordle_stats", err)
	}
	return stats, nil
}

func (s *Store) GetGameResult(ctx context.Context, game int, user string) (*wordle.Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := new(resultRow)
	err := s.db.bunDB.NewSelect().
		Model(row).
		Where("user_id = ?", user).
		Where("game = ?", game).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return wordle.EmptyResult(game), nil
	}
	if err != nil {
		return nil, handleError("get", "wordle_results", err)
	}
	return row.toResult(), nil
}

func (s *Store) GetWeeklyResults(ctx context.Context, user string, now time.Time) ([]*wordle.Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []resultRow
	err := s.db.bunDB.NewSelect().
		Model(&rows).
		Where("user_id = ?", user).
		Where("played_at >= ?", now.Add(-wordle.WeekWindow)).
		Where("played_at <= ?", now).
		Order("played_at DESC", "game DESC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("list weekly", "wordle_results", err)
	}
	return toResults(rows), nil
}

func (s *Store) LogResult(ctx context.Context, user string, result *wordle.Result) (bool, error) {
	var logged bool
	start := time.Now()

	err := s.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(newResultRow(user, result)).
			On("CONFLICT (user_id, game) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}

		stats, err := loadStats(ctx, tx, user, true)
		if err != nil {
			return err
		}
		if err := saveStats(ctx, tx, user, wordle.Update(stats, result)); err != nil {
			return err
		}
		logged = true
		return nil
	})

	logger.LogQuery("LogResult", time.Since(start), err,
		slog.String("user_id", user),
		slog.Int("game", result.Game),
		slog.Bool("logged", logged))
	if err != nil {
		return false, handleError("log", "wordle_results", err)
	}
	return logged, nil
}

func (s *Store) ReplaceUser(ctx context.Context, user string, results []*wordle.Result) error {
	results = storage.Dedupe(results)

	err := s.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*resultRow)(nil)).Where("user_id = ?", user).Exec(ctx); err != nil {
			return err
		}
		if len(results) == 0 {
			_, err := tx.NewDelete().Model((*statsRow)(nil)).Where("user_id = ?", user).Exec(ctx)
			return err
		}

		rows := make([]*resultRow, 0, len(results))
		for _, r := range results {
			rows = append(rows, newResultRow(user, r))
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
		return saveStats(ctx, tx, user, wordle.Replay(results))
	})
	if err != nil {
		return handleError("replace", "wordle_results", err)
	}
	return nil
}

// Users lists tracked players straight from the pool.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryWithLog(ctx, "SELECT user_id FROM wordle_stats ORDER BY user_id")
	if err != nil {
		return nil, handleError("list", "wordle_stats", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, handleError("scan", "wordle_stats", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, handleError("list", "wordle_stats", err)
	}
	return users, nil
}

func (s *Store) Results(ctx context.Context, user string) ([]*wordle.Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []resultRow
	err := s.db.bunDB.NewSelect().
		Model(&rows).
		Where("user_id = ?", user).
		Order("game ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("list", "wordle_results", err)
	}
	return toResults(rows), nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func toResults(rows []resultRow) []*wordle.Result {
	out := make([]*wordle.Result, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toResult())
	}
	return out
}
