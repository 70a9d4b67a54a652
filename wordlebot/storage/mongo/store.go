// Package mongo stores one document per player:
//
//	{_id: <user>, stats: {...}, games: {"<game>": {...}}}
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wordlestats/wordlebot/wordlebot/logger"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type Config struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storage.Wrap("connect mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, storage.Wrap("ping mongo", err)
	}

	logger.LogSystem("MongoDB connected",
		slog.String("database", cfg.Database),
		slog.String("collection", cfg.Collection))
	return New(client, cfg.Database, cfg.Collection), nil
}

func New(client *mongo.Client, database, collection string) *Store {
	return &Store{client: client, coll: client.Database(database).Collection(collection)}
}

type statsDoc struct {
	WinPercentage     float64        `bson:"winPercentage"`
	AverageGuess      float64        `bson:"averageGuess"`
	CurrentStreak     int            `bson:"currentStreak"`
	MaxStreak         int            `bson:"maxStreak"`
	FirstPlayed       *time.Time     `bson:"firstPlayed"`
	LastPlayed        *time.Time     `bson:"lastPlayed"`
	Played            int            `bson:"played"`
	GuessDistribution map[string]int `bson:"guessDistribution"`
}

type resultDoc struct {
	Game     int       `bson:"game"`
	Guesses  int       `bson:"guesses"`
	Board    []string  `bson:"board"`
	Date     time.Time `bson:"date"`
	HardMode bool      `bson:"hardMode,omitempty"`
}

type document struct {
	ID    string               `bson:"_id"`
	Stats statsDoc             `bson:"stats"`
	Games map[string]resultDoc `bson:"games"`
}

func toStatsDoc(s *wordle.Stats) statsDoc {
	dist := make(map[string]int, len(s.GuessDistribution))
	for g, n := range s.GuessDistribution {
		dist[strconv.Itoa(g)] = n
	}
	return statsDoc{
		WinPercentage:     s.WinPercentage,
		AverageGuess:      s.AverageGuess,
		CurrentStreak:     s.CurrentStreak,
		MaxStreak:         s.MaxStreak,
		FirstPlayed:       s.FirstPlayed,
		LastPlayed:        s.LastPlayed,
		Played:            s.Played,
		GuessDistribution: dist,
	}
}

func (d statsDoc) toStats() *wordle.Stats {
	s := wordle.NewStats()
	s.WinPercentage = d.WinPercentage
	s.AverageGuess = d.AverageGuess
	s.CurrentStreak = d.CurrentStreak
	s.MaxStreak = d.MaxStreak
	s.FirstPlayed = d.FirstPlayed
	s.LastPlayed = d.LastPlayed
	s.Played = d.Played
	for k, n := range d.GuessDistribution {
		if g, err := strconv.Atoi(k); err == nil {
			s.GuessDistribution[g] = n
		}
	}
	return s
}

func toResultDoc(r *wordle.Result) resultDoc {
	return resultDoc{
		Game:     r.Game,
		Guesses:  r.Guesses,
		Board:    append([]string{}, r.Board...),
		Date:     r.Date,
		HardMode: r.HardMode,
	}
}

func (d resultDoc) toResult() *wordle.Result {
	board := d.Board
	if board == nil {
		board = []string{}
	}
	return &wordle.Result{Game: d.Game, Guesses: d.Guesses, Board: board, Date: d.Date.UTC(), HardMode: d.HardMode}
}

func gameKey(game int) string {
	return "games." + strconv.Itoa(game)
}

// find returns nil, nil for unknown users.
func (s *Store) find(ctx context.Context, user string, projection bson.D) (*document, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: user}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap("find player", err)
	}
	return &doc, nil
}

func (s *Store) GetUserStats(ctx context.Context, user string) (*wordle.Stats, error) {
	doc, err := s.find(ctx, user, bson.D{{Key: "stats", Value: 1}})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return wordle.NewStats(), nil
	}
	return doc.Stats.toStats(), nil
}

func (s *Store) GetGameResult(ctx context.Context, game int, user string) (*wordle.Result, error) {
	doc, err := s.find(ctx, user, bson.D{{Key: gameKey(game), Value: 1}})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return wordle.EmptyResult(game), nil
	}
	if r, ok := doc.Games[strconv.Itoa(game)]; ok {
		return r.toResult(), nil
	}
	return wordle.EmptyResult(game), nil
}

func (s *Store) GetWeeklyResults(ctx context.Context, user string, now time.Time) ([]*wordle.Result, error) {
	results, err := s.Results(ctx, user)
	if err != nil {
		return nil, err
	}
	return storage.Weekly(results, now), nil
}

// LogResult sets the game and the refreshed stats in one update whose filter
// requires the game to be absent. A concurrent insert of the same game loses
// with a duplicate key error on the upsert.
func (s *Store) LogResult(ctx context.Context, user string, result *wordle.Result) (bool, error) {
	start := time.Now()

	doc, err := s.find(ctx, user, bson.D{{Key: "stats", Value: 1}, {Key: gameKey(result.Game), Value: 1}})
	if err != nil {
		return false, err
	}
	stats := wordle.NewStats()
	if doc != nil {
		if _, ok := doc.Games[strconv.Itoa(result.Game)]; ok {
			return false, nil
		}
		stats = doc.Stats.toStats()
	}

	filter := bson.D{
		{Key: "_id", Value: user},
		{Key: gameKey(result.Game), Value: bson.D{{Key: "$exists", Value: false}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: gameKey(result.Game), Value: toResultDoc(result)},
		{Key: "stats", Value: toStatsDoc(wordle.Update(stats, result))},
	}}}

	res, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	logger.LogQuery("LogResult", time.Since(start), err,
		slog.String("user_id", user),
		slog.Int("game", result.Game))
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, storage.Wrap("log result", err)
	}
	return res.MatchedCount+res.UpsertedCount > 0, nil
}

func (s *Store) ReplaceUser(ctx context.Context, user string, results []*wordle.Result) error {
	results = storage.Dedupe(results)

	if len(results) == 0 {
		if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: user}}); err != nil {
			return storage.Wrap("delete player", err)
		}
		return nil
	}

	doc := document{
		ID:    user,
		Stats: toStatsDoc(wordle.Replay(results)),
		Games: make(map[string]resultDoc, len(results)),
	}
	for _, r := range results {
		doc.Games[strconv.Itoa(r.Game)] = toResultDoc(r)
	}

	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: user}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return storage.Wrap("replace player", err)
	}
	return nil
}

func (s *Store) Users(ctx context.Context) ([]string, error) {
	ids, err := s.coll.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, storage.Wrap("list players", err)
	}

	users := make([]string, 0, len(ids))
	for _, id := range ids {
		if user, ok := id.(string); ok {
			users = append(users, user)
		}
	}
	sort.Strings(users)
	return users, nil
}

func (s *Store) Results(ctx context.Context, user string) ([]*wordle.Result, error) {
	doc, err := s.find(ctx, user, bson.D{{Key: "games", Value: 1}})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return []*wordle.Result{}, nil
	}

	results := make([]*wordle.Result, 0, len(doc.Games))
	for _, r := range doc.Games {
		results = append(results, r.toResult())
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Game < results[j].Game })
	return results, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the collection. Used to reset between test runs.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.coll.Drop(ctx); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}
