package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordlebot/wordlebot"
	"github.com/wordlestats/wordlebot/wordlebot/api"
	"github.com/wordlestats/wordlebot/wordlebot/commands"
	"github.com/wordlestats/wordlebot/wordlebot/config"
	"github.com/wordlestats/wordlebot/wordlebot/handlers"
	"github.com/wordlestats/wordlebot/wordlebot/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout, logger.Options{})))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := wordlebot.LoadConfig(*path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout, logger.Options{
		Level:     cfg.Log.Level,
		AddSource: cfg.Log.AddSource,
		NoColor:   cfg.Log.NoColor,
	})))

	slog.Info("Starting Wordle Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("backend", cfg.Storage.Backend))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	store, err := wordlebot.OpenStore(ctx, cfg.Storage)
	cancel()
	if err != nil {
		slog.Error("Storage connection failed",
			slog.String("type", "sys"),
			slog.String("backend", cfg.Storage.Backend),
			slog.Any("error", err))
		os.Exit(-1)
	}

	b := wordlebot.New(*cfg, version, commit)

	h := handler.New()
	h.Command("/stats", handlers.WrapWithLogging("stats", commands.StatsHandler(b)))
	h.Command("/result", handlers.WrapWithLogging("result", commands.ResultHandler(b)))
	h.Command("/weekly", handlers.WrapWithLogging("weekly", commands.WeeklyHandler(b)))
	h.Command("/add", handlers.WrapWithLogging("add", commands.AddHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/version", commands.VersionHandler(b))
	// fetch defers its reply and runs past the wrapper's deadline
	h.Command("/fetch", commands.FetchHandler(b))
	h.NotFound(commands.NotFoundHandler)

	if err = b.SetupBot(store, h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		store.Close()
		os.Exit(-1)
	}
	defer b.Close()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.String("application_id", b.Client.ApplicationID().String()),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Open(ctx); err != nil {
		slog.Error("Failed to open connection",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("mode", cfg.Bot.Mode),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	replayCtx, stopReplay := context.WithTimeout(context.Background(), config.FetchTimeout)
	defer stopReplay()
	if cfg.ReplaysHistory() {
		go func() {
			if _, err := b.Tracker.Fetch(replayCtx, cfg.Bot.ResultsChannel); err != nil {
				logger.LogError("Startup history replay failed", err,
					slog.String("channel_id", cfg.Bot.ResultsChannel.String()))
			}
		}()
	}

	if cfg.API.Enabled {
		server := api.New(b.Tracker, cfg.API)
		go func() {
			if err := server.Listen(); err != nil {
				logger.LogError("Stats API stopped", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				logger.LogError("Failed to stop stats API", err)
			}
		}()
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
