// Package redis keeps results in a key-value layout:
//
//	stats:<user>            JSON stats
//	result:<user>:<game>    JSON result, board in compact letters
//	results:<user>          sorted set of games scored by play time (ms)
//	users                   set of tracked users
package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wordlestats/wordlebot/wordlebot/logger"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type Config struct {
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TLS      bool   `toml:"tls"`
	Prefix   string `toml:"prefix"`
}

type Store struct {
	rdb    *redis.Client
	prefix string
}

var _ storage.Store = (*Store)(nil)

// Open connects and pings the server.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var tlsConfig *tls.Config
	if cfg.TLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Username:  cfg.Username,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConfig,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, storage.Wrap("ping redis", err)
	}

	logger.LogSystem("Redis connected", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB))
	return New(rdb, cfg.Prefix), nil
}

func New(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) statsKey(user string) string {
	return s.prefix + "stats:" + user
}

func (s *Store) resultKey(user string, game int) string {
	return fmt.Sprintf("%sresult:%s:%d", s.prefix, user, game)
}

func (s *Store) resultsKey(user string) string {
	return s.prefix + "results:" + user
}

func (s *Store) usersKey() string {
	return s.prefix + "users"
}

func encodeResult(r *wordle.Result) ([]byte, error) {
	stored := r.Clone()
	stored.Board = wordle.EncodeBoard(r.Board)
	return json.Marshal(stored)
}

func decodeResult(data string) (*wordle.Result, error) {
	var r wordle.Result
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, err
	}
	r.Board = wordle.DecodeBoard(r.Board)
	return &r, nil
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func (s *Store) GetUserStats(ctx context.Context, user string) (*wordle.Stats, error) {
	data, err := s.rdb.Get(ctx, s.statsKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return wordle.NewStats(), nil
	}
	if err != nil {
		return nil, storage.Wrap("get stats", err)
	}

	stats := wordle.NewStats()
	if err := json.Unmarshal([]byte(data), stats); err != nil {
		return nil, fmt.Errorf("decode stats of %s: %w", user, err)
	}
	if stats.GuessDistribution == nil {
		stats.GuessDistribution = wordle.NewStats().GuessDistribution
	}
	return stats, nil
}

func (s *Store) GetGameResult(ctx context.Context, game int, user string) (*wordle.Result, error) {
	data, err := s.rdb.Get(ctx, s.resultKey(user, game)).Result()
	if errors.Is(err, redis.Nil) {
		return wordle.EmptyResult(game), nil
	}
	if err != nil {
		return nil, storage.Wrap("get result", err)
	}
	return decodeResult(data)
}

func (s *Store) GetWeeklyResults(ctx context.Context, user string, now time.Time) ([]*wordle.Result, error) {
	games, err := s.rdb.ZRevRangeByScore(ctx, s.resultsKey(user), &redis.ZRangeBy{
		Min: strconv.FormatFloat(score(now.Add(-wordle.WeekWindow)), 'f', 0, 64),
		Max: strconv.FormatFloat(score(now), 'f', 0, 64),
	}).Result()
	if err != nil {
		return nil, storage.Wrap("list weekly", err)
	}

	results, err := s.load(ctx, user, games)
	if err != nil {
		return nil, err
	}
	return storage.Weekly(results, now), nil
}

// load fetches the results of games in one round trip.
func (s *Store) load(ctx context.Context, user string, games []string) ([]*wordle.Result, error) {
	if len(games) == 0 {
		return []*wordle.Result{}, nil
	}

	keys := make([]string, len(games))
	for i, g := range games {
		keys[i] = s.prefix + "result:" + user + ":" + g
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storage.Wrap("load results", err)
	}

	results := make([]*wordle.Result, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			slog.Warn("Result indexed but missing",
				slog.String("type", "db"),
				slog.String("key", keys[i]))
			continue
		}
		r, err := decodeResult(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		results = append(results, r)
	}
	return results, nil
}

// LogResult claims the result key with SETNX, then rewrites the stats. The
// two steps are not atomic with each other.
func (s *Store) LogResult(ctx context.Context, user string, result *wordle.Result) (bool, error) {
	start := time.Now()

	data, err := encodeResult(result)
	if err != nil {
		return false, fmt.Errorf("encode result: %w", err)
	}

	created, err := s.rdb.SetNX(ctx, s.resultKey(user, result.Game), data, 0).Result()
	if err != nil {
		return false, storage.Wrap("store result", err)
	}
	if !created {
		return false, nil
	}

	stats, err := s.GetUserStats(ctx, user)
	if err != nil {
		return false, err
	}
	statsData, err := json.Marshal(wordle.Update(stats, result))
	if err != nil {
		return false, fmt.Errorf("encode stats: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.statsKey(user), statsData, 0)
		p.ZAdd(ctx, s.resultsKey(user), redis.Z{Score: score(result.Date), Member: result.Game})
		p.SAdd(ctx, s.usersKey(), user)
		return nil
	})
	logger.LogQuery("LogResult", time.Since(start), err,
		slog.String("user_id", user),
		slog.Int("game", result.Game))
	if err != nil {
		return false, storage.Wrap("update stats", err)
	}
	return true, nil
}

func (s *Store) ReplaceUser(ctx context.Context, user string, results []*wordle.Result) error {
	results = storage.Dedupe(results)

	old, err := s.rdb.ZRange(ctx, s.resultsKey(user), 0, -1).Result()
	if err != nil {
		return storage.Wrap("list results", err)
	}

	encoded := make([][]byte, len(results))
	for i, r := range results {
		if encoded[i], err = encodeResult(r); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	statsData, err := json.Marshal(wordle.Replay(results))
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, g := range old {
			p.Del(ctx, s.prefix+"result:"+user+":"+g)
		}
		p.Del(ctx, s.resultsKey(user))

		if len(results) == 0 {
			p.Del(ctx, s.statsKey(user))
			p.SRem(ctx, s.usersKey(), user)
			return nil
		}

		for i, r := range results {
			p.Set(ctx, s.resultKey(user, r.Game), encoded[i], 0)
			p.ZAdd(ctx, s.resultsKey(user), redis.Z{Score: score(r.Date), Member: r.Game})
		}
		p.Set(ctx, s.statsKey(user), statsData, 0)
		p.SAdd(ctx, s.usersKey(), user)
		return nil
	})
	if err != nil {
		return storage.Wrap("replace user", err)
	}
	return nil
}

func (s *Store) Users(ctx context.Context) ([]string, error) {
	users, err := s.rdb.SMembers(ctx, s.usersKey()).Result()
	if err != nil {
		return nil, storage.Wrap("list users", err)
	}
	sort.Strings(users)
	return users, nil
}

func (s *Store) Results(ctx context.Context, user string) ([]*wordle.Result, error) {
	games, err := s.rdb.ZRange(ctx, s.resultsKey(user), 0, -1).Result()
	if err != nil {
		return nil, storage.Wrap("list results", err)
	}

	results, err := s.load(ctx, user, games)
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Game < results[j].Game })
	return results, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
