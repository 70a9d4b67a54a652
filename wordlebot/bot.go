package wordlebot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/httpserver"
	"github.com/disgoorg/paginator"

	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/tracker"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Store     storage.Store
	Tracker   *tracker.Tracker
	Version   string
	Commit    string
}

// SetupBot builds the disgo client for the configured mode and the tracker
// on top of store. The tracker pages channel history through the client's
// REST API.
func (b *Bot) SetupBot(store storage.Store, listeners ...bot.EventListener) error {
	opts := []bot.ConfigOpt{
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	}

	switch b.Cfg.Bot.Mode {
	case ModeHTTP:
		opts = append(opts,
			bot.WithHTTPServerConfigOpts(b.Cfg.Bot.PublicKey,
				httpserver.WithURL(b.Cfg.HTTP.Path),
				httpserver.WithAddress(b.Cfg.HTTP.Address),
			),
		)
	default:
		opts = append(opts,
			bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages, gateway.IntentMessageContent)),
			bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		)
	}

	client, err := disgo.New(b.Cfg.Bot.Token, opts...)
	if err != nil {
		return err
	}

	if id := b.Cfg.Bot.ApplicationID; id != 0 && id != client.ApplicationID() {
		slog.Warn("Configured application id does not match the token",
			slog.String("type", "sys"),
			slog.String("configured", id.String()),
			slog.String("token", client.ApplicationID().String()))
	}

	b.Client = client
	b.Store = store
	b.Tracker = tracker.New(store, client.Rest())
	return nil
}

// Open starts receiving events: the gateway connection or the interactions
// HTTP server, depending on the mode.
func (b *Bot) Open(ctx context.Context) error {
	if b.Cfg.Bot.Mode == ModeHTTP {
		slog.Info("Starting interactions server",
			slog.String("type", "sys"),
			slog.String("address", b.Cfg.HTTP.Address),
			slog.String("path", b.Cfg.HTTP.Path))
		return b.Client.OpenHTTPServer()
	}
	return b.Client.OpenGateway(ctx)
}

func (b *Bot) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if b.Client != nil {
		b.Client.Close(ctx)
	}
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			slog.Error("Failed to close storage",
				slog.String("type", "error"),
				slog.Any("error", err))
		}
	}
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Wordle Bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("Wordle results"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
