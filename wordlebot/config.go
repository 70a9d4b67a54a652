package wordlebot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/wordlestats/wordlebot/wordlebot/api"
	"github.com/wordlestats/wordlebot/wordlebot/storage/mongo"
	"github.com/wordlestats/wordlebot/wordlebot/storage/postgres"
	"github.com/wordlestats/wordlebot/wordlebot/storage/redis"
	"github.com/wordlestats/wordlebot/wordlebot/storage/spaces"
)

const (
	ModeGateway = "gateway"
	ModeHTTP    = "http"
)

// Storage backends accepted in storage.backend.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendFile     = "file"
	BackendSpaces   = "spaces"
	BackendHistory  = "history"
)

// LoadConfig reads the TOML file at path, then applies .env and environment
// overrides and fills in defaults. It does not validate; the bot calls
// Validate, tools that only need storage do not.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err = cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Bot     BotConfig     `toml:"bot"`
	HTTP    HTTPConfig    `toml:"http"`
	API     api.Config    `toml:"api"`
	Storage StorageConfig `toml:"storage"`
}

type BotConfig struct {
	Mode           string         `toml:"mode"`
	Token          string         `toml:"token"`
	ApplicationID  snowflake.ID   `toml:"application_id"`
	PublicKey      string         `toml:"public_key"`
	DevGuilds      []snowflake.ID `toml:"dev_guilds"`
	ResultsChannel snowflake.ID   `toml:"results_channel"`
	CommandPrefix  string         `toml:"command_prefix"`
	// ReplayOnStart rebuilds stats from ResultsChannel when the bot starts.
	// Always on for the history backend.
	ReplayOnStart bool `toml:"replay_on_start"`
}

type HTTPConfig struct {
	Address string `toml:"address"`
	Path    string `toml:"path"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
	NoColor   bool       `toml:"no_color"`
}

type StorageConfig struct {
	Backend      string          `toml:"backend"`
	DisableCache bool            `toml:"disable_cache"`
	CacheSize    int             `toml:"cache_size"`
	Postgres     postgres.Config `toml:"postgres"`
	Redis        redis.Config    `toml:"redis"`
	Mongo        mongo.Config    `toml:"mongo"`
	Spaces       spaces.Config   `toml:"spaces"`
	File         FileConfig      `toml:"file"`
}

type FileConfig struct {
	Path string `toml:"path"`
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	id := func(key string) (snowflake.ID, bool, error) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return 0, false, nil
		}
		parsed, err := snowflake.Parse(v)
		if err != nil {
			return 0, false, fmt.Errorf("invalid %s: %w", key, err)
		}
		return parsed, true, nil
	}

	str("DISCORD_TOKEN", &c.Bot.Token)
	str("DISCORD_PUBLIC_KEY", &c.Bot.PublicKey)
	str("WORDLE_STORAGE_BACKEND", &c.Storage.Backend)
	str("POSTGRES_PASSWORD", &c.Storage.Postgres.Password)
	str("REDIS_ADDR", &c.Storage.Redis.Addr)
	str("REDIS_PASSWORD", &c.Storage.Redis.Password)
	str("MONGO_URI", &c.Storage.Mongo.URI)
	str("SPACES_KEY", &c.Storage.Spaces.Key)
	str("SPACES_SECRET", &c.Storage.Spaces.Secret)

	appID, ok, err := id("DISCORD_APPLICATION_ID")
	if err != nil {
		return err
	}
	if ok {
		c.Bot.ApplicationID = appID
	}

	guildID, ok, err := id("DISCORD_GUILD_ID")
	if err != nil {
		return err
	}
	if ok && !containsID(c.Bot.DevGuilds, guildID) {
		c.Bot.DevGuilds = append(c.Bot.DevGuilds, guildID)
	}
	return nil
}

func containsID(ids []snowflake.ID, id snowflake.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (c *Config) applyDefaults() {
	if c.Bot.Mode == "" {
		c.Bot.Mode = ModeGateway
	}
	if c.Bot.CommandPrefix == "" {
		c.Bot.CommandPrefix = "/"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.Path == "" {
		c.HTTP.Path = "/interactions"
	}
	if c.API.Address == "" {
		c.API.Address = ":3000"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.File.Path == "" {
		c.Storage.File.Path = "data/wordle.json"
	}
	if c.Storage.Postgres.Host == "" {
		c.Storage.Postgres.Host = "localhost"
	}
	if c.Storage.Postgres.Port == 0 {
		c.Storage.Postgres.Port = 5432
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "localhost:6379"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "wordle:"
	}
	if c.Storage.Mongo.Database == "" {
		c.Storage.Mongo.Database = "wordle"
	}
	if c.Storage.Mongo.Collection == "" {
		c.Storage.Mongo.Collection = "players"
	}
	if c.Storage.Spaces.Root == "" {
		c.Storage.Spaces.Root = "wordle"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("bot.token is required"))
	}

	switch c.Bot.Mode {
	case ModeGateway:
	case ModeHTTP:
		if c.Bot.PublicKey == "" {
			errs = append(errs, errors.New("bot.public_key is required in http mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown bot.mode %q", c.Bot.Mode))
	}

	switch strings.ToLower(c.Storage.Backend) {
	case BackendPostgres, BackendRedis, BackendMongo, BackendFile, BackendSpaces:
	case BackendHistory:
		if c.Bot.ResultsChannel == 0 {
			errs = append(errs, errors.New("bot.results_channel is required by the history backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}

// ReplaysHistory reports whether stats are rebuilt from the results channel
// at startup.
func (c *Config) ReplaysHistory() bool {
	if c.Bot.ResultsChannel == 0 {
		return false
	}
	return c.Bot.ReplayOnStart || strings.EqualFold(c.Storage.Backend, BackendHistory)
}
